package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/service"
	"github.com/unimaxdigital/agency-web/internal/view"
)

const resetRequestedMessage = "If an account exists for that address, a reset link is on its way."

// AccountHandler redeems verification and reset tokens over both the JSON API
// and the HTML pages linked from the emails.
type AccountHandler struct {
	tokens *service.TokenIssuer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(tokens *service.TokenIssuer) *AccountHandler {
	return &AccountHandler{tokens: tokens}
}

// HandleVerifyEmail consumes a VERIFY token.
// POST /api/auth/verify-email
// Request: {"token":"..."}
func (h *AccountHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if _, err := h.tokens.Consume(r.Context(), req.Token, domain.PurposeVerify); err != nil {
		writeServiceError(w, err, "verify email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

// HandleForgotPassword mails a reset link. Unknown addresses get the same answer.
// POST /api/auth/forgot-password
// Request: {"email":"..."}
func (h *AccountHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.tokens.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, err, "request password reset")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": resetRequestedMessage})
}

// HandleResetPassword stores a new password for a RESET token.
// POST /api/auth/reset-password
// Request: {"token":"...","password":"...","confirmPassword":"..."}
func (h *AccountHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token           string `json:"token"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.tokens.ResetPassword(r.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		writeServiceError(w, err, "reset password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

// HandleVerifyPage consumes the VERIFY token from an email link.
// GET /verify?token=...
func (h *AccountHandler) HandleVerifyPage(w http.ResponseWriter, r *http.Request) {
	p := page(r, "Verify email")
	_, err := h.tokens.Consume(r.Context(), r.URL.Query().Get("token"), domain.PurposeVerify)
	if err != nil {
		status, msg := tokenPageError(err, "verify email")
		w.WriteHeader(status)
		view.MessagePage(p, "Verification failed", msg, "/auth/sign-in", "Go to sign in").Render(r.Context(), w)
		return
	}
	view.MessagePage(p, "Email verified", "Your email address is confirmed.", "/dashboard", "Continue to your dashboard").Render(r.Context(), w)
}

// HandleResetPage shows the new password form when the RESET token is live.
// GET /reset?token=...
func (h *AccountHandler) HandleResetPage(w http.ResponseWriter, r *http.Request) {
	p := page(r, "Reset password")
	token := r.URL.Query().Get("token")
	if _, err := h.tokens.Consume(r.Context(), token, domain.PurposeReset); err != nil {
		status, msg := tokenPageError(err, "check reset token")
		w.WriteHeader(status)
		view.MessagePage(p, "Reset link unusable", msg, "/auth/forgot-password", "Request a new link").Render(r.Context(), w)
		return
	}
	view.ResetPage(p, token, "").Render(r.Context(), w)
}

// HandleResetSubmit processes the reset form.
// POST /reset
func (h *AccountHandler) HandleResetSubmit(w http.ResponseWriter, r *http.Request) {
	p := page(r, "Reset password")
	token := r.FormValue("token")
	err := h.tokens.ResetPassword(r.Context(), token, r.FormValue("password"), r.FormValue("confirmPassword"))
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusBadRequest)
			view.ResetPage(p, token, verr.Message).Render(r.Context(), w)
			return
		}
		status, msg := tokenPageError(err, "reset password")
		w.WriteHeader(status)
		view.MessagePage(p, "Reset failed", msg, "/auth/forgot-password", "Request a new link").Render(r.Context(), w)
		return
	}
	view.MessagePage(p, "Password updated", "You can now sign in with your new password.", "/auth/sign-in", "Sign in").Render(r.Context(), w)
}

// HandleForgotPage renders the reset request form.
// GET /auth/forgot-password
func (h *AccountHandler) HandleForgotPage(w http.ResponseWriter, r *http.Request) {
	view.ForgotPasswordPage(page(r, "Forgot password"), "").Render(r.Context(), w)
}

// HandleForgotSubmit processes the reset request form.
// POST /auth/forgot-password
func (h *AccountHandler) HandleForgotSubmit(w http.ResponseWriter, r *http.Request) {
	p := page(r, "Forgot password")
	err := h.tokens.RequestPasswordReset(r.Context(), r.FormValue("email"))
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusBadRequest)
			view.ForgotPasswordPage(p, verr.Message).Render(r.Context(), w)
			return
		}
		slog.Error("request password reset", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		view.ForgotPasswordPage(p, "We could not send the email. Please try again later.").Render(r.Context(), w)
		return
	}
	view.MessagePage(p, "Check your inbox", resetRequestedMessage, "/auth/sign-in", "Back to sign in").Render(r.Context(), w)
}

func tokenPageError(err error, op string) (int, string) {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusBadRequest, "This link has expired."
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "This link is invalid or was already used."
	}
	status, msg := errorResponse(err, op)
	return status, msg
}
