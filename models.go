package registration

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the identity record. Both confirmation flags start false: the email
// flag flips once on token confirmation, the account flag once on profile
// completion. AccountConfirmed implies EmailConfirmed at all times.
type User struct {
	bun.BaseModel    `bun:"table:users,alias:usr"`
	ID               uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FullName         string     `bun:"full_name,notnull" json:"full_name,omitempty"`
	Username         string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email            string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash     string     `bun:"password_hash" json:"password_hash,omitempty"`
	EmailConfirmed   bool       `bun:"email_confirmed" json:"email_confirmed,omitempty"`
	AccountConfirmed bool       `bun:"account_confirmed" json:"account_confirmed,omitempty"`
	CreatedAt        *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt        *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt        *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// MarkEmailConfirmed builds the partial record used to flip the email flag
func MarkEmailConfirmed(id uuid.UUID) *User {
	u := &User{}
	u.ID = id
	u.EmailConfirmed = true
	return u
}

// PrivateDetails is the profile record owned by exactly one User, created
// during profile completion and immutable afterwards.
type PrivateDetails struct {
	bun.BaseModel `bun:"table:private_details,alias:pvd"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        *uuid.UUID `bun:"user_id,notnull,unique" json:"user_id,omitempty"`
	User          *User      `bun:"rel:has-one,join:user_id=id" json:"user,omitempty"`
	Address       string     `bun:"address,notnull" json:"address,omitempty"`
	City          string     `bun:"city,notnull" json:"city,omitempty"`
	State         string     `bun:"state,notnull" json:"state,omitempty"`
	PostalCode    string     `bun:"postal_code,notnull" json:"postal_code,omitempty"`
	PhoneNumber   string     `bun:"phone_number,notnull" json:"phone_number,omitempty"`
	DateOfBirth   *time.Time `bun:"date_of_birth" json:"date_of_birth,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
