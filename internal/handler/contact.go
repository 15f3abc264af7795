package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"github.com/unimaxdigital/agency-web/internal/service"
	"github.com/unimaxdigital/agency-web/internal/view"
	datastar "github.com/starfederation/datastar-go/datastar"
)

// ContactHandler serves the contact page and its form.
type ContactHandler struct {
	contact *service.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contact *service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// HandleContactPage renders the contact page.
// GET /contact
func (h *ContactHandler) HandleContactPage(w http.ResponseWriter, r *http.Request) {
	view.ContactPage(page(r, "Contact")).Render(r.Context(), w)
}

// HandleSubmit mails the inquiry and swaps the form for a confirmation.
// POST /contact
func (h *ContactHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if err := datastar.ReadSignals(r, &in); err != nil {
		sse := datastar.NewSSE(w, r)
		sse.PatchElementTempl(view.Alert(view.ContactErrorID, "Invalid form data"))
		return
	}

	err := h.contact.Submit(r.Context(), in)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		msg := "We could not send your message. Please try again later."
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			msg = verr.Message
		} else {
			slog.Error("submit contact form", "error", err)
		}
		sse.PatchElementTempl(view.Alert(view.ContactErrorID, msg))
		return
	}
	sse.PatchElementTempl(view.ContactSent(strings.TrimSpace(in.Name)))
}
