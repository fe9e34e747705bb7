package registration

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type ResendConfirmationMessage struct {
	Email string `json:"email"`
	// ConfirmURL builds the fully qualified confirmation link for a token.
	// The link targets the resend specific confirmation endpoint.
	ConfirmURL func(token string) string
	OnResponse func(resp *ResendConfirmationResponse)
}

func (e ResendConfirmationMessage) Type() string { return "user.resend_confirmation" }

type ResendConfirmationResponse struct {
	// Found is false when no account exists for the email; nothing is sent
	// in that case so the endpoint cannot be used to probe for accounts.
	Found bool
}

type ResendConfirmationHandler struct {
	repo     RepositoryManager
	tokens   TokenService
	mailer   Mailer
	renderer EmailRenderer
	logger   Logger
}

// NewResendConfirmationHandler creates a handler with sane defaults.
func NewResendConfirmationHandler(repo RepositoryManager, tokens TokenService, mailer Mailer, renderer EmailRenderer) *ResendConfirmationHandler {
	return &ResendConfirmationHandler{
		repo:     repo,
		tokens:   tokens,
		mailer:   mailer,
		renderer: renderer,
		logger:   defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *ResendConfirmationHandler) WithLogger(logger Logger) *ResendConfirmationHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ResendConfirmationHandler) Execute(ctx context.Context, event ResendConfirmationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during confirmation resend",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ResendConfirmationHandler) execute(ctx context.Context, event ResendConfirmationMessage) error {
	resp := &ResendConfirmationResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			h.logger.Warn("confirmation resend for unknown email", "email", event.Email)
			if event.OnResponse != nil {
				event.OnResponse(resp)
			}
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for resend")
	}

	resp.Found = true

	token, err := h.tokens.Generate(user.Email, PurposeResendConfirm)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate resend token")
	}

	html, err := h.renderer.Render(TemplateResendEmail, event.ConfirmURL(token))
	if err != nil {
		return err
	}

	if err := h.mailer.Send(ctx, user.Email, SubjectResendConfirm, html); err != nil {
		return err
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
