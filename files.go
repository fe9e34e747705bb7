package registration

import (
	"embed"
	"io/fs"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

//go:embed data/templates
var templatesFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// GetTemplatesFS returns the email templates rooted at the template dir
func GetTemplatesFS() (fs.FS, error) {
	return fs.Sub(templatesFS, "data/templates")
}
