package registration

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CompleteSignupMessage struct {
	UserID      uuid.UUID  `json:"user_id"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	PostalCode  string     `json:"postal_code"`
	PhoneNumber string     `json:"phone_number"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

func (e CompleteSignupMessage) Type() string { return "user.complete_signup" }

type CompleteSignupHandler struct {
	repo   RepositoryManager
	logger Logger
}

// NewCompleteSignupHandler creates a handler with sane defaults.
func NewCompleteSignupHandler(repo RepositoryManager) *CompleteSignupHandler {
	return &CompleteSignupHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *CompleteSignupHandler) WithLogger(logger Logger) *CompleteSignupHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *CompleteSignupHandler) Execute(ctx context.Context, event CompleteSignupMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during signup completion",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *CompleteSignupHandler) execute(ctx context.Context, event CompleteSignupMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByID(ctx, event.UserID.String())
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrIdentityNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for signup completion")
		}

		if user.AccountConfirmed {
			return ErrProfileAlreadyCompleted
		}

		// account_confirmed implies email_confirmed, never set the former
		// for an unconfirmed email
		if !user.EmailConfirmed {
			return goerrors.New("email must be confirmed before completing the profile", goerrors.CategoryConflict).
				WithTextCode("EMAIL_NOT_CONFIRMED")
		}

		details := &PrivateDetails{
			UserID:      &user.ID,
			Address:     event.Address,
			City:        event.City,
			State:       event.State,
			PostalCode:  event.PostalCode,
			PhoneNumber: event.PhoneNumber,
			DateOfBirth: event.DateOfBirth,
		}

		if _, err := h.repo.PrivateDetails().CreateTx(ctx, tx, details); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create private details")
		}

		if _, err := h.repo.Users().CompleteAccountTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark account as confirmed")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "signup completion transaction failed")
	}

	return nil
}
