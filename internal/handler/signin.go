package handler

import (
	"net/http"

	"github.com/unimaxdigital/agency-web/internal/service"
	"github.com/unimaxdigital/agency-web/internal/view"
)

const oauthFailedMessage = "Signing in with that provider failed. Please try again."

// SignInHandler serves the HTML sign-in and sign-out forms.
type SignInHandler struct {
	auth      *service.AuthService
	sessions  *service.SessionIssuer
	providers []string
	secure    bool
}

// NewSignInHandler creates a new SignInHandler.
func NewSignInHandler(auth *service.AuthService, sessions *service.SessionIssuer, providers []string, secure bool) *SignInHandler {
	return &SignInHandler{auth: auth, sessions: sessions, providers: providers, secure: secure}
}

// HandleSignInPage renders the sign-in form.
// GET /auth/sign-in
func (h *SignInHandler) HandleSignInPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	errMsg := ""
	if r.URL.Query().Get("error") == "oauth" {
		errMsg = oauthFailedMessage
	}
	view.SignInPage(page(r, "Sign in"), "", errMsg, h.providers).Render(r.Context(), w)
}

// HandleSignIn checks the submitted credentials and starts a session.
// POST /auth/sign-in
func (h *SignInHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	id, err := h.auth.Login(r.Context(), email, r.FormValue("password"))
	if err != nil {
		status, msg := errorResponse(err, "login user")
		w.WriteHeader(status)
		view.SignInPage(page(r, "Sign in"), email, msg, h.providers).Render(r.Context(), w)
		return
	}

	token, expires, err := h.sessions.Issue(*id)
	if err != nil {
		status, msg := errorResponse(err, "issue session")
		w.WriteHeader(status)
		view.SignInPage(page(r, "Sign in"), email, msg, h.providers).Render(r.Context(), w)
		return
	}
	setSessionCookie(w, token, expires, h.secure)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleSignOut clears the session cookie and returns home.
// POST /auth/sign-out
func (h *SignInHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.secure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
