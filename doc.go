// Package registration implements the signup, email confirmation, login and
// password recovery flows of a web application.
//
// The package is a thin orchestration layer: each HTTP route validates a
// submitted form, performs one or two repository calls, and issues a redirect
// or a rendered page. Persistence goes through bun repositories, signed
// email-bound tokens through a purpose-scoped TokenService, and outgoing
// messages through a Mailer. Session state is a JWT cookie managed by the
// SessionAuthenticator.
package registration
