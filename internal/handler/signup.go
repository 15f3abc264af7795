package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/service"
	"github.com/unimaxdigital/agency-web/internal/view"
	datastar "github.com/starfederation/datastar-go/datastar"
)

// SignUpHandler drives the multi-step sign-up wizard over SSE.
type SignUpHandler struct {
	auth      *service.AuthService
	sessions  *service.SessionIssuer
	providers []string
	secure    bool
}

// NewSignUpHandler creates a new SignUpHandler.
func NewSignUpHandler(auth *service.AuthService, sessions *service.SessionIssuer, providers []string, secure bool) *SignUpHandler {
	return &SignUpHandler{auth: auth, sessions: sessions, providers: providers, secure: secure}
}

// signUpSignals mirrors the wizard's client-side signals.
type signUpSignals struct {
	service.RegistrationInput
	Step int `json:"step"`
}

// HandleSignUpPage renders the wizard at step one.
// GET /auth/sign-up
func (h *SignUpHandler) HandleSignUpPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	view.SignUpPage(page(r, "Sign up"), h.providers).Render(r.Context(), w)
}

// HandleStep validates the current step and patches the next one. The last
// step creates the account, starts a session and redirects to the dashboard,
// flagging a verification email that could not be sent.
// POST /auth/sign-up/step[?dir=back]
func (h *SignUpHandler) HandleStep(w http.ResponseWriter, r *http.Request) {
	var sig signUpSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		msg := "Invalid form data"
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		sse := datastar.NewSSE(w, r)
		sse.PatchElementTempl(view.Alert(view.SignUpErrorID, msg))
		return
	}

	if r.URL.Query().Get("dir") == "back" {
		h.patchStep(w, r, max(sig.Step-1, 1))
		return
	}

	if err := service.ValidateSignUpStep(sig.Step, sig.RegistrationInput); err != nil {
		_, msg := errorResponse(err, "validate sign-up step")
		sse := datastar.NewSSE(w, r)
		sse.PatchElementTempl(view.Alert(view.SignUpErrorID, msg))
		return
	}

	if sig.Step < view.SignUpSteps {
		h.patchStep(w, r, sig.Step+1)
		return
	}

	reg, err := h.auth.RegisterWithVerification(r.Context(), sig.RegistrationInput)
	if err != nil {
		_, msg := errorResponse(err, "register user")
		sse := datastar.NewSSE(w, r)
		sse.PatchElementTempl(view.Alert(view.SignUpErrorID, msg))
		return
	}

	token, expires, err := h.sessions.Issue(reg.Identity)
	if err != nil {
		slog.Error("issue session after sign-up", "error", err)
		sse := datastar.NewSSE(w, r)
		sse.Redirect("/auth/sign-in")
		return
	}
	target := "/dashboard"
	if reg.VerificationErr != nil {
		target += "?notice=" + noticeVerifyFailed
	}
	// Headers must be written before the SSE stream starts.
	setSessionCookie(w, token, expires, h.secure)
	sse := datastar.NewSSE(w, r)
	sse.Redirect(target)
}

func (h *SignUpHandler) patchStep(w http.ResponseWriter, r *http.Request, step int) {
	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(view.SignUpStep(step))
	sse.PatchElementTempl(view.Alert(view.SignUpErrorID, ""))
	sse.MarshalAndPatchSignals(map[string]int{"step": step})
}
