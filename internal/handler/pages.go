package handler

import (
	"net/http"

	"github.com/unimaxdigital/agency-web/internal/view"
)

// page builds the layout data for r.
func page(r *http.Request, title string) view.Page {
	return view.Page{Title: title, Path: r.URL.Path, User: UserFromContext(r.Context())}
}

// HandleHome renders the home page. Any other unmatched path gets the 404 page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		w.WriteHeader(http.StatusNotFound)
		view.NotFoundPage(page(r, "Not found")).Render(r.Context(), w)
		return
	}
	view.HomePage(page(r, "Home")).Render(r.Context(), w)
}

// HandleAbout renders the about page.
func HandleAbout(w http.ResponseWriter, r *http.Request) {
	view.AboutPage(page(r, "About")).Render(r.Context(), w)
}

// HandleServices renders the services page.
func HandleServices(w http.ResponseWriter, r *http.Request) {
	view.ServicesPage(page(r, "Services")).Render(r.Context(), w)
}

// HandlePortfolio renders the portfolio filtered by ?category=.
func HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	view.PortfolioPage(page(r, "Portfolio"), r.URL.Query().Get("category")).Render(r.Context(), w)
}

// noticeVerifyFailed flags a sign-up whose verification email did not go out.
const noticeVerifyFailed = "verify-failed"

var dashboardNotices = map[string]string{
	noticeVerifyFailed: "Your account was created, but we could not send the verification email. Please contact us if it does not arrive.",
}

// HandleDashboard renders the member area. Routed behind RequirePage.
// GET /dashboard[?notice=verify-failed]
func HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/auth/sign-in", http.StatusSeeOther)
		return
	}
	notice := dashboardNotices[r.URL.Query().Get("notice")]
	view.DashboardPage(page(r, "Dashboard"), *user, notice).Render(r.Context(), w)
}
