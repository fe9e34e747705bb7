package registration

import (
	"context"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-errors"
)

// Email subjects per flow
const (
	SubjectConfirmEmail  = "Please confirm your Email"
	SubjectResendConfirm = "Please confirm your email"
	SubjectPasswordReset = "Password reset requested"
)

// Email template names
const (
	TemplateActivate    = "activate"
	TemplateResendEmail = "resend_email_confirms"
	TemplateRecover     = "recover"
)

// LogMailer writes outgoing messages through the package logger. It is the
// default Mailer, real deployments plug in a transactional sender.
type LogMailer struct {
	Logger Logger
}

var _ Mailer = (*LogMailer)(nil)

func (m LogMailer) Send(_ context.Context, to, subject, html string) error {
	logger := m.Logger
	if logger == nil {
		logger = defLogger{}
	}

	logger.Info("====== SENDING EMAIL NOTIFICATION =======")
	logger.Info("to: %s", to)
	logger.Info("subject: %s", subject)
	logger.Info("body: %s", html)
	return nil
}

// TemplateRenderer renders email bodies from django templates. Every template
// receives the fully qualified action URL under both variable names the
// templates use.
type TemplateRenderer struct {
	engine *django.Engine
}

var _ EmailRenderer = (*TemplateRenderer)(nil)

// NewTemplateRenderer loads the email templates from the given filesystem,
// typically the embedded data/templates directory.
func NewTemplateRenderer(fsys fs.FS) (*TemplateRenderer, error) {
	engine := django.NewFileSystem(http.FS(fsys), ".html")
	if err := engine.Load(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load email templates")
	}

	return &TemplateRenderer{engine: engine}, nil
}

func (r *TemplateRenderer) Render(name string, link string) (string, error) {
	var out strings.Builder
	err := r.engine.Render(&out, name, fiber.Map{
		"confirm_url": link,
		"recover_url": link,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to render email template").
			WithMetadata(map[string]any{
				"template": name,
			})
	}

	return out.String(), nil
}
