package registration

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var ResetUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."email" = ?
) RETURNING *;`

type Users interface {
	repository.Repository[*User]

	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	ConfirmEmail(ctx context.Context, user *User) (*User, error)
	ConfirmEmailTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	CompleteAccountTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	ResetPassword(ctx context.Context, email, passwordHash string) error
	ResetPasswordTx(ctx context.Context, tx bun.IDB, email, passwordHash string) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	return a.getByColumnTx(ctx, tx, "username", username)
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.getByColumnTx(ctx, tx, "email", email)
}

func (a *users) getByColumnTx(ctx context.Context, tx bun.IDB, column, value string) (*User, error) {
	value = strings.TrimSpace(value)

	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func (a *users) ConfirmEmail(ctx context.Context, user *User) (*User, error) {
	return a.ConfirmEmailTx(ctx, a.db, user)
}

// ConfirmEmailTx flips email_confirmed. Calling it for an already confirmed
// user persists the same value, the transition happens at most once.
func (a *users) ConfirmEmailTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	record := MarkEmailConfirmed(user.ID)
	_, err := tx.NewUpdate().
		Model(record).
		Column("email_confirmed").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	user.EmailConfirmed = true
	return user, nil
}

// CompleteAccountTx flips account_confirmed during profile completion
func (a *users) CompleteAccountTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	record := &User{}
	record.ID = user.ID
	record.AccountConfirmed = true

	_, err := tx.NewUpdate().
		Model(record).
		Column("account_confirmed").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	user.AccountConfirmed = true
	return user, nil
}

func (a *users) ResetPassword(ctx context.Context, email, passwordHash string) error {
	return a.ResetPasswordTx(ctx, a.db, email, passwordHash)
}

func (a *users) ResetPasswordTx(ctx context.Context, tx bun.IDB, email, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, tx, ResetUserPasswordSQL, passwordHash, email)
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"email": email,
			})
	}

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
