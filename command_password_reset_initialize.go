package registration

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type InitializePasswordResetMessage struct {
	Email string `json:"email"`
	// RecoverURL builds the fully qualified reset link for a token
	RecoverURL func(token string) string
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (p InitializePasswordResetMessage) Type() string { return "user.password_reset" }

type InitializePasswordResetResponse struct {
	// Sent is true only when the account exists and its email is confirmed;
	// every other case is a silent no-op with no message sent.
	Sent bool
}

type InitializePasswordResetHandler struct {
	repo     RepositoryManager
	tokens   TokenService
	mailer   Mailer
	renderer EmailRenderer
	logger   Logger
}

// NewInitializePasswordResetHandler creates a handler with sane defaults.
func NewInitializePasswordResetHandler(repo RepositoryManager, tokens TokenService, mailer Mailer, renderer EmailRenderer) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		repo:     repo,
		tokens:   tokens,
		mailer:   mailer,
		renderer: renderer,
		logger:   defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	resp := &InitializePasswordResetResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			if event.OnResponse != nil {
				event.OnResponse(resp)
			}
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	if !user.EmailConfirmed {
		if event.OnResponse != nil {
			event.OnResponse(resp)
		}
		return nil
	}

	token, err := h.tokens.Generate(user.Email, PurposeRecovery)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate recovery token")
	}

	html, err := h.renderer.Render(TemplateRecover, event.RecoverURL(token))
	if err != nil {
		return err
	}

	if err := h.mailer.Send(ctx, user.Email, SubjectPasswordReset, html); err != nil {
		return err
	}

	resp.Sent = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
