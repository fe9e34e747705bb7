package registration

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
	"github.com/nyaruka/phonenumbers"
)

const dateOfBirthLayout = "2006-01-02"

// RegisterRoutes mounts the registration, authentication and recovery routes.
// The resend confirmation endpoint is registered before the parameterized
// confirm route so the static segment wins the match.
func RegisterRoutes[T any](app router.Router[T], opts ...ControllerOption) {

	controller := NewController(opts...)

	requireUser := controller.Auther.RequireUser(controller.Routes.Login)
	incompleteProfile := controller.Auther.RequireIncompleteProfile(controller.Routes.Home)

	app.Get(controller.Routes.Signup, controller.SignupShow).
		SetName("signup.get")
	app.Post(controller.Routes.Signup, controller.SignupCreate).
		SetName("signup.post")

	app.Get(controller.Routes.CompleteSignup, controller.CompleteSignupShow, requireUser, incompleteProfile).
		SetName("signup-complete.get")
	app.Post(controller.Routes.CompleteSignup, controller.CompleteSignupCreate, requireUser, incompleteProfile).
		SetName("signup-complete.post")

	app.Get(controller.Routes.ConfirmResend, controller.ConfirmResendEmail).
		SetName("confirm-resend.get")
	app.Get(controller.Routes.Confirm, controller.ConfirmEmail).
		SetName("confirm.get")

	app.Get(controller.Routes.Login, controller.LoginShow).
		SetName("sign-in.get")
	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("sign-in.post")

	app.Get(controller.Routes.Logout, controller.LogOut, requireUser).
		SetName("sign-out.get")

	app.Get(controller.Routes.ResendEmail, controller.ResendEmailShow).
		SetName("resend-email.get")
	app.Post(controller.Routes.ResendEmail, controller.ResendEmailPost).
		SetName("resend-email.post")

	app.Get(controller.Routes.Reset, controller.PasswordResetShow).
		SetName("pwd-reset.get")
	app.Post(controller.Routes.Reset, controller.PasswordResetPost).
		SetName("pwd-reset.post")

	app.Get(controller.Routes.ResetToken, controller.PasswordResetForm).
		SetName("pwd-reset-do.get")
	app.Post(controller.Routes.ResetToken, controller.PasswordResetExecute).
		SetName("pwd-reset-do.post")
}

type ControllerRoutes struct {
	Home           string
	Signup         string
	CompleteSignup string
	Confirm        string
	Login          string
	Logout         string
	ResendEmail    string
	ConfirmResend  string
	Reset          string
	ResetToken     string
}

type ControllerViews struct {
	Register       string
	CompleteSignup string
	Login          string
	ResendEmail    string
	Reset          string
	ResetPassword  string
}

type Controller struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Tokens       TokenService
	Mailer       Mailer
	Renderer     EmailRenderer
	Auther       *SessionAuthenticator
	BaseURL      string
	Routes       *ControllerRoutes
	Views        *ControllerViews
	ErrorHandler router.ErrorHandler
}

type ControllerOption func(*Controller) *Controller

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &ControllerRoutes{
			Home:           "/",
			Signup:         "/signup",
			CompleteSignup: "/complete/signup",
			Confirm:        "/confirm/:token",
			Login:          "/login",
			Logout:         "/logout",
			ResendEmail:    "/resend/email",
			ConfirmResend:  "/confirm/resend-email/:token",
			Reset:          "/reset/password",
			ResetToken:     "/reset/:token",
		},
		Views: &ControllerViews{
			Register:       "register",
			CompleteSignup: "complete_signup",
			Login:          "login",
			ResendEmail:    "resend_email",
			Reset:          "reset",
			ResetPassword:  "reset_password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in registration controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in registration controller...")
	}

	if c.Mailer == nil {
		panic("Missing Mailer in registration controller...")
	}

	if c.Renderer == nil {
		panic("Missing EmailRenderer in registration controller...")
	}

	if c.Auther == nil {
		panic("Missing SessionAuthenticator in registration controller...")
	}

	return c
}

func (a *Controller) WithLogger(logger Logger) *Controller {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// absoluteRoute expands a parameterized route into a fully qualified URL
func (a *Controller) absoluteRoute(route, token string) string {
	path := strings.Replace(route, ":token", token, 1)
	return strings.TrimRight(a.BaseURL, "/") + path
}

// RegistrationPayload is the signup form payload
type RegistrationPayload struct {
	FullName string `form:"full_name" json:"full_name"`
	Email    string `form:"email" json:"email"`
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegistrationPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Username, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *Controller) SignupShow(ctx router.Context) error {
	if user, _ := a.Auther.CurrentUser(ctx); user != nil {
		return ctx.Redirect(a.Routes.Home, fiber.StatusSeeOther)
	}

	return ctx.Render(a.Views.Register, router.ViewContext{
		"errors": map[string]string{},
		"record": RegistrationPayload{},
	})
}

func (a *Controller) SignupCreate(ctx router.Context) error {
	if user, _ := a.Auther.CurrentUser(ctx); user != nil {
		return ctx.Redirect(a.Routes.Home, fiber.StatusSeeOther)
	}

	payload := new(RegistrationPayload)

	if err := ctx.Bind(payload); err != nil {
		errs := map[string]string{}
		errs["form"] = "Failed to parse form"
		a.Logger.Error("signup parse payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Register, router.ViewContext{
			"errors": errs,
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		errs := FormatValidationErrorToMap(err)
		a.Logger.Error("signup validate payload: ", "error", err)

		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.Register, router.ViewContext{
			"record":     payload,
			"validation": errs,
		})
	}

	if a.Debug {
		fmt.Println("======= SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=====================")
	}

	req := RegisterUserMessage{
		FullName:  payload.FullName,
		Email:     payload.Email,
		Username:  payload.Username,
		Password:  payload.Password,
		UseHashid: true,
		ConfirmURL: func(token string) string {
			return a.absoluteRoute(a.Routes.Confirm, token)
		},
	}

	registerUser := NewRegisterUserHandler(a.Repo, a.Tokens, a.Mailer, a.Renderer).
		WithLogger(a.Logger)

	if err := registerUser.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("signup execute error: ", "error", err)

		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error creating account",
		}).Render(a.Views.Register, router.ViewContext{
			"record": payload,
			"errors": []string{err.Error()},
		})
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "A mail has been sent to you",
	}).Redirect(a.Routes.Login, fiber.StatusSeeOther)
}

// CompleteSignupPayload is the profile completion form payload
type CompleteSignupPayload struct {
	Address     string `form:"address" json:"address"`
	City        string `form:"city" json:"city"`
	State       string `form:"state" json:"state"`
	PostalCode  string `form:"postal_code" json:"postal_code"`
	PhoneNumber string `form:"phone_number" json:"phone_number"`
	DateOfBirth string `form:"date_of_birth" json:"date_of_birth"`
}

// Validate will validate the payload
func (r CompleteSignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Address, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.City, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.State, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.PostalCode, validation.Required, validation.Length(3, 12)),
		validation.Field(&r.PhoneNumber, validation.Required, validation.By(ValidatePhoneNumber)),
		validation.Field(&r.DateOfBirth, validation.Required, validation.Date(dateOfBirthLayout)),
	)
}

func (a *Controller) CompleteSignupShow(ctx router.Context) error {
	return ctx.Render(a.Views.CompleteSignup, router.ViewContext{
		"errors": map[string]string{},
		"record": CompleteSignupPayload{},
	})
}

func (a *Controller) CompleteSignupCreate(ctx router.Context) error {
	user, err := a.Auther.CurrentUser(ctx)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(CompleteSignupPayload)

	if err := ctx.Bind(payload); err != nil {
		errs := map[string]string{}
		errs["form"] = "Failed to parse form"
		a.Logger.Error("complete signup parse payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.CompleteSignup, router.ViewContext{
			"errors": errs,
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		errs := FormatValidationErrorToMap(err)
		a.Logger.Error("complete signup validate payload: ", "error", err)

		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.CompleteSignup, router.ViewContext{
			"record":     payload,
			"validation": errs,
		})
	}

	dob, err := time.Parse(dateOfBirthLayout, payload.DateOfBirth)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	req := CompleteSignupMessage{
		UserID:      user.ID,
		Address:     payload.Address,
		City:        payload.City,
		State:       payload.State,
		PostalCode:  payload.PostalCode,
		PhoneNumber: payload.PhoneNumber,
		DateOfBirth: &dob,
	}

	completeSignup := NewCompleteSignupHandler(a.Repo).WithLogger(a.Logger)

	if err := completeSignup.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("complete signup execute error: ", "error", err)

		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error completing signup",
		}).Render(a.Views.CompleteSignup, router.ViewContext{
			"record": payload,
			"errors": []string{err.Error()},
		})
	}

	return ctx.Redirect(a.Routes.Home, fiber.StatusSeeOther)
}

func (a *Controller) ConfirmEmail(ctx router.Context) error {
	token := ctx.Param("token", "")

	email, err := a.Tokens.Verify(token, PurposeEmailConfirm, ConfirmationMaxAge)
	if err != nil {
		a.Logger.Warn("email confirmation token rejected", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message": "The confirmation link is invalid or has expired.",
		}).Status(fiber.StatusNotFound).Render("errors/404", router.ViewContext{
			"message": "The confirmation link is invalid or has expired.",
		})
	}

	return a.confirmAndRedirect(ctx, email)
}

func (a *Controller) ConfirmResendEmail(ctx router.Context) error {
	token := ctx.Param("token", "")

	email, err := a.Tokens.Verify(token, PurposeResendConfirm, ConfirmationMaxAge)
	if err != nil {
		a.Logger.Warn("resent confirmation token rejected", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message": "The confirmation link is invalid or has expired.",
		}).Status(fiber.StatusBadRequest).Render("errors/400", router.ViewContext{
			"message": "The confirmation link is invalid or has expired.",
		})
	}

	return a.confirmAndRedirect(ctx, email)
}

// confirmAndRedirect runs the shared confirm-or-notice logic behind both
// confirmation endpoints
func (a *Controller) confirmAndRedirect(ctx router.Context, email string) error {
	var res *ConfirmEmailResponse

	req := ConfirmEmailMessage{
		Email: email,
		OnResponse: func(resp *ConfirmEmailResponse) {
			res = resp
		},
	}

	confirmEmail := NewConfirmEmailHandler(a.Repo).WithLogger(a.Logger)

	if err := confirmEmail.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("email confirmation execute error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if res.AlreadyConfirmed {
		return flash.WithSuccess(ctx, router.ViewContext{
			"system_message": "Email has already been confirmed Please login",
		}).Redirect(a.Routes.Login, fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Your email has been confirmed",
	}).Redirect(a.Routes.Login, fiber.StatusSeeOther)
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the username-or-email identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Username
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// GetExtendedSession reports remember-me semantics; sessions created by this
// form are always persistent.
func (r LoginRequest) GetExtendedSession() bool {
	return true
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *Controller) LoginShow(ctx router.Context) error {
	if user, _ := a.Auther.CurrentUser(ctx); user != nil && user.EmailConfirmed {
		return ctx.Redirect(a.Routes.Home, fiber.StatusSeeOther)
	}

	return ctx.Render(a.Views.Login, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

func (a *Controller) LoginPost(ctx router.Context) error {
	if user, _ := a.Auther.CurrentUser(ctx); user != nil && user.EmailConfirmed {
		return ctx.Redirect(a.Routes.Home, fiber.StatusSeeOther)
	}

	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.Login, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if err := a.Auther.Login(ctx, payload); err != nil {
		msg := "invalid login credentials"
		if errors.Is(err, ErrEmailNotVerified) {
			msg = "Your email hasnt been verified yet please verify your email to login"
		}

		return flash.WithError(ctx, router.ViewContext{
			"error_message": msg,
		}).Render(a.Views.Login, router.ViewContext{
			"record": payload,
			"errors": map[string]string{"authentication": msg},
		})
	}

	redirect := a.Auther.GetRedirect(ctx, a.Routes.Home)

	return ctx.Redirect(redirect, fiber.StatusSeeOther)
}

func (a *Controller) LogOut(ctx router.Context) error {
	a.Auther.Logout(ctx)
	return ctx.Redirect(a.Routes.Login, fiber.StatusSeeOther)
}

// EmailPayload is the single-field form shared by the resend and reset flows
type EmailPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules
func (r EmailPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// alreadyLoggedIn answers the resend endpoint for authenticated users with a
// JSON body, an intentional asymmetry from the page rendering routes.
func (a *Controller) alreadyLoggedIn(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, map[string]string{
		"url": a.Routes.Home,
		"msg": "user already logged in",
	})
}

func (a *Controller) ResendEmailShow(ctx router.Context) error {
	if user, _ := a.Auther.CurrentUser(ctx); user != nil {
		return a.alreadyLoggedIn(ctx)
	}

	return ctx.Render(a.Views.ResendEmail, router.ViewContext{
		"errors": map[string]string{},
		"record": EmailPayload{},
	})
}

func (a *Controller) ResendEmailPost(ctx router.Context) error {
	if user, _ := a.Auther.CurrentUser(ctx); user != nil {
		return a.alreadyLoggedIn(ctx)
	}

	payload := new(EmailPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("resend email parse payload: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.ResendEmail, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	req := ResendConfirmationMessage{
		Email: payload.Email,
		ConfirmURL: func(token string) string {
			return a.absoluteRoute(a.Routes.ConfirmResend, token)
		},
	}

	resend := NewResendConfirmationHandler(a.Repo, a.Tokens, a.Mailer, a.Renderer).
		WithLogger(a.Logger)

	if err := resend.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("resend email execute error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	// Same notice whether or not the account exists
	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "A confirmation email has been sent to you",
	}).Redirect(a.Routes.Home, fiber.StatusSeeOther)
}

func (a *Controller) PasswordResetShow(ctx router.Context) error {
	if user, _ := a.Auther.CurrentUser(ctx); user != nil {
		return ctx.Redirect(a.Routes.Home, fiber.StatusSeeOther)
	}

	return ctx.Render(a.Views.Reset, router.ViewContext{
		"errors": map[string]string{},
		"record": EmailPayload{},
	})
}

func (a *Controller) PasswordResetPost(ctx router.Context) error {
	if user, _ := a.Auther.CurrentUser(ctx); user != nil {
		return ctx.Redirect(a.Routes.Home, fiber.StatusSeeOther)
	}

	payload := new(EmailPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("password reset parse payload: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.Reset, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	var res *InitializePasswordResetResponse

	req := InitializePasswordResetMessage{
		Email: payload.Email,
		RecoverURL: func(token string) string {
			return a.absoluteRoute(a.Routes.ResetToken, token)
		},
		OnResponse: func(resp *InitializePasswordResetResponse) {
			res = resp
		},
	}

	initPwdReset := NewInitializePasswordResetHandler(a.Repo, a.Tokens, a.Mailer, a.Renderer).
		WithLogger(a.Logger)

	if err := initPwdReset.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("password reset execute error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if a.Debug {
		fmt.Println("================")
		fmt.Println(print.MaybePrettyJSON(res))
		fmt.Println("================")
	}

	if !res.Sent {
		return flash.WithError(ctx, router.ViewContext{
			"error_message": "This email hasnt been confirmed yet",
		}).Render(a.Views.Reset, router.ViewContext{
			"record": payload,
			"errors": map[string]string{},
		})
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "A confirmation link to reset your password has been sent to you",
	}).Redirect(a.Routes.Login, fiber.StatusSeeOther)
}

// PasswordResetPayload carries the new password along with the account email
type PasswordResetPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r PasswordResetPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *Controller) PasswordResetForm(ctx router.Context) error {
	token := ctx.Param("token", "")

	email, err := a.Tokens.Verify(token, PurposeRecovery, ConfirmationMaxAge)
	if err != nil {
		a.Logger.Warn("password recovery token rejected", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message": "The confirmation link is invalid or has expired.",
		}).Status(fiber.StatusBadRequest).Render("errors/400", router.ViewContext{
			"message": "The confirmation link is invalid or has expired.",
		})
	}

	return ctx.Render(a.Views.ResetPassword, router.ViewContext{
		"errors": map[string]string{},
		"record": PasswordResetPayload{Email: email},
		"token":  token,
	})
}

func (a *Controller) PasswordResetExecute(ctx router.Context) error {
	token := ctx.Param("token", "")

	if _, err := a.Tokens.Verify(token, PurposeRecovery, ConfirmationMaxAge); err != nil {
		a.Logger.Warn("password recovery token rejected", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message": "The confirmation link is invalid or has expired.",
		}).Status(fiber.StatusBadRequest).Render("errors/400", router.ViewContext{
			"message": "The confirmation link is invalid or has expired.",
		})
	}

	payload := new(PasswordResetPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("password reset parse payload: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.ResetPassword, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
			"token":      token,
		})
	}

	req := FinalizePasswordResetMessage{
		Email:    payload.Email,
		Password: payload.Password,
	}

	finalizePwdReset := NewFinalizePasswordResetHandler(a.Repo).WithLogger(a.Logger)

	if err := finalizePwdReset.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("password reset finalize error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Redirect(a.Routes.Login, fiber.StatusSeeOther)
}

// ValidatePhoneNumber checks the value parses as a plausible phone number
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	num, err := phonenumbers.Parse(s, "US")
	if err != nil {
		return fmt.Errorf("invalid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return fmt.Errorf("invalid phone number")
	}
	return nil
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field -> message map for the templates
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
