package handler

import (
	"net/http"

	"github.com/unimaxdigital/agency-web/internal/oauth"
	"github.com/unimaxdigital/agency-web/internal/service"
)

// Deps carries the services the HTTP surface is built from.
type Deps struct {
	Auth      *service.AuthService
	Sessions  *service.SessionIssuer
	Tokens    *service.TokenIssuer
	Contact   *service.ContactService
	Providers oauth.Registry
	// Limiter throttles the credential-handling POSTs per client IP. Nil disables it.
	Limiter        *service.AttemptLimiter
	CookieSecure   bool
	AllowedOrigins []string
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	providers := d.Providers.Names()

	authH := NewAuthHandler(d.Auth, d.Sessions, d.CookieSecure)
	accountH := NewAccountHandler(d.Tokens)
	oauthH := NewOAuthHandler(d.Providers, d.Auth, d.Sessions, d.CookieSecure)
	signInH := NewSignInHandler(d.Auth, d.Sessions, providers, d.CookieSecure)
	signUpH := NewSignUpHandler(d.Auth, d.Sessions, providers, d.CookieSecure)
	contactH := NewContactHandler(d.Contact)

	optional := func(h http.HandlerFunc) http.Handler { return OptionalAuth(d.Sessions, h) }
	limited := func(h http.HandlerFunc) http.Handler {
		if d.Limiter == nil {
			return h
		}
		return RateLimit(d.Limiter, h)
	}
	api := CORS(d.AllowedOrigins)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	// JSON API.
	mux.Handle("POST /api/auth/sign-up", api(limited(authH.HandleSignUp)))
	mux.Handle("POST /api/v1/users", api(limited(authH.HandleCreateUser)))
	mux.Handle("POST /api/auth/callback/credentials", api(limited(authH.HandleCredentials)))
	mux.Handle("GET /api/auth/session", api(optional(authH.HandleSession)))
	mux.Handle("GET /api/v1/me", api(RequireAuth(d.Sessions, http.HandlerFunc(authH.HandleMe))))
	mux.Handle("POST /api/auth/signout", api(http.HandlerFunc(authH.HandleSignOut)))
	mux.Handle("POST /api/auth/verify-email", api(limited(accountH.HandleVerifyEmail)))
	mux.Handle("POST /api/auth/forgot-password", api(limited(accountH.HandleForgotPassword)))
	mux.Handle("POST /api/auth/reset-password", api(limited(accountH.HandleResetPassword)))
	mux.Handle("OPTIONS /api/", api(http.NotFoundHandler()))
	mux.HandleFunc("GET /api/auth/signin/{provider}", oauthH.HandleSignIn)
	mux.HandleFunc("GET /api/auth/callback/{provider}", oauthH.HandleCallback)

	// Pages.
	mux.Handle("GET /", optional(HandleHome))
	mux.Handle("GET /about", optional(HandleAbout))
	mux.Handle("GET /services", optional(HandleServices))
	mux.Handle("GET /portfolio", optional(HandlePortfolio))
	mux.Handle("GET /contact", optional(contactH.HandleContactPage))
	mux.Handle("POST /contact", limited(contactH.HandleSubmit))
	mux.Handle("GET /dashboard", RequirePage(d.Sessions, http.HandlerFunc(HandleDashboard)))

	mux.Handle("GET /auth/sign-in", optional(signInH.HandleSignInPage))
	mux.Handle("POST /auth/sign-in", limited(signInH.HandleSignIn))
	mux.HandleFunc("POST /auth/sign-out", signInH.HandleSignOut)
	mux.Handle("GET /auth/sign-up", optional(signUpH.HandleSignUpPage))
	mux.Handle("POST /auth/sign-up/step", limited(signUpH.HandleStep))
	mux.Handle("GET /auth/forgot-password", optional(accountH.HandleForgotPage))
	mux.Handle("POST /auth/forgot-password", limited(accountH.HandleForgotSubmit))

	mux.Handle("GET /verify", optional(accountH.HandleVerifyPage))
	mux.Handle("GET /reset", optional(accountH.HandleResetPage))
	mux.Handle("POST /reset", limited(accountH.HandleResetSubmit))
}

// New builds the complete HTTP handler with logging and security headers.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, d)
	return RequestLogger(SecurityHeaders(mux))
}
