package handler

import (
	"net/http"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/service"
)

// AuthHandler serves the JSON authentication API.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionIssuer
	secure   bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionIssuer, secure bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, secure: secure}
}

// HandleSignUp registers an account and mails a verification link.
// POST /api/auth/sign-up
// Response: 201 {"message":"User created successfully","insertedId":"..."}
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, true)
}

// HandleCreateUser registers an account without sending email.
// POST /api/v1/users
func (h *AuthHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, false)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, verify bool) {
	var in service.RegistrationInput
	if err := readJSON(w, r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	var (
		reg *service.Registration
		err error
	)
	if verify {
		reg, err = h.auth.RegisterWithVerification(r.Context(), in)
	} else {
		reg, err = h.auth.Register(r.Context(), in)
	}
	if err != nil {
		writeServiceError(w, err, "register user")
		return
	}

	body := map[string]string{
		"message":    "User created successfully",
		"insertedId": reg.Identity.ID,
	}
	if reg.VerificationErr != nil {
		body["warning"] = "Account created, but the verification email could not be sent"
	}
	writeJSON(w, http.StatusCreated, body)
}

// HandleCredentials signs in with email and password and sets the session
// cookie. With isSignUp set it registers the account first, without sending a
// verification email, and signs the new account in.
// POST /api/auth/callback/credentials
// Request:  {"email":"...","password":"...","isSignUp":"true",...registration fields}
// Response: {"user": {...}} (201 when an account was created)
func (h *AuthHandler) HandleCredentials(w http.ResponseWriter, r *http.Request) {
	var req struct {
		service.RegistrationInput
		IsSignUp service.Flag `json:"isSignUp"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	var (
		id     *domain.Identity
		status = http.StatusOK
	)
	if req.IsSignUp {
		reg, err := h.auth.Register(r.Context(), req.RegistrationInput)
		if err != nil {
			writeServiceError(w, err, "register user")
			return
		}
		id, status = &reg.Identity, http.StatusCreated
	} else {
		var err error
		id, err = h.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err, "login user")
			return
		}
	}

	token, expires, err := h.sessions.Issue(*id)
	if err != nil {
		writeServiceError(w, err, "issue session")
		return
	}
	setSessionCookie(w, token, expires, h.secure)

	writeJSON(w, status, map[string]any{"user": toUserDTO(*id)})
}

// HandleSession reports the current session, or an empty object when there is none.
// GET /api/auth/session
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":    toUserDTO(sess.User),
		"expires": sess.Expires,
	})
}

// HandleMe returns the signed-in account as currently stored. Routed behind
// RequireAuth.
// GET /api/v1/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	user, err := h.auth.GetUserByID(r.Context(), sess.User.ID)
	if err != nil {
		writeServiceError(w, err, "load current user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toProfileDTO(user)})
}

// HandleSignOut clears the session cookie.
// POST /api/auth/signout
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.secure)
	w.WriteHeader(http.StatusNoContent)
}
