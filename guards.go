package registration

import (
	"net/http"

	"github.com/goliatone/go-router"
)

// RequireUser short-circuits with a redirect to the login page when the
// request carries no valid session. The originally requested route is kept in
// the redirect cookie so a successful login can resume it.
func (a *SessionAuthenticator) RequireUser(login string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if _, err := a.CurrentUser(c); err != nil {
				a.SetRedirect(c)
				return c.Redirect(login, http.StatusFound)
			}
			return next(c)
		}
	}
}

// RequireIncompleteProfile protects the second signup form: once the profile
// has been completed the route redirects home.
func (a *SessionAuthenticator) RequireIncompleteProfile(home string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			user, err := a.CurrentUser(c)
			if err != nil {
				a.SetRedirect(c)
				return c.Redirect("/login", http.StatusFound)
			}
			if user.AccountConfirmed {
				return c.Redirect(home, http.StatusSeeOther)
			}
			return next(c)
		}
	}
}
