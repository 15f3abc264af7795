package handler

import (
	"log/slog"
	"net/http"

	"github.com/unimaxdigital/agency-web/internal/oauth"
	"github.com/unimaxdigital/agency-web/internal/service"
)

// OAuthHandler runs the authorization-code flow for external issuers.
type OAuthHandler struct {
	providers oauth.Registry
	auth      *service.AuthService
	sessions  *service.SessionIssuer
	secure    bool
}

// NewOAuthHandler creates a new OAuthHandler.
func NewOAuthHandler(providers oauth.Registry, auth *service.AuthService, sessions *service.SessionIssuer, secure bool) *OAuthHandler {
	return &OAuthHandler{providers: providers, auth: auth, sessions: sessions, secure: secure}
}

// HandleSignIn redirects to the provider's consent page.
// GET /api/auth/signin/{provider}
func (h *OAuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	p, ok := h.providers.Lookup(r.PathValue("provider"))
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown provider")
		return
	}

	state, err := oauth.NewState()
	if err != nil {
		slog.Error("oauth state", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	setStateCookie(w, state, h.secure)
	http.Redirect(w, r, p.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback exchanges the code, signs the user in and redirects to the dashboard.
// GET /api/auth/callback/{provider}
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("provider")
	p, ok := h.providers.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown provider")
		return
	}

	c, err := r.Cookie(stateCookie)
	clearStateCookie(w, h.secure)
	if err != nil || c.Value == "" || c.Value != r.URL.Query().Get("state") {
		slog.Warn("oauth state mismatch", "provider", name)
		http.Redirect(w, r, "/auth/sign-in?error=oauth", http.StatusSeeOther)
		return
	}

	ext, err := p.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		slog.Error("oauth exchange", "provider", name, "error", err)
		http.Redirect(w, r, "/auth/sign-in?error=oauth", http.StatusSeeOther)
		return
	}

	id, err := h.auth.LoginExternal(r.Context(), *ext)
	if err != nil {
		slog.Error("oauth login", "provider", name, "error", err)
		http.Redirect(w, r, "/auth/sign-in?error=oauth", http.StatusSeeOther)
		return
	}

	token, expires, err := h.sessions.Issue(*id)
	if err != nil {
		slog.Error("issue session", "error", err)
		http.Redirect(w, r, "/auth/sign-in?error=oauth", http.StatusSeeOther)
		return
	}
	setSessionCookie(w, token, expires, h.secure)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
