// Package view renders the site's pages and SSE fragments as templ components.
//
// The *_templ.go files are generated from the .templ sources.
package view

//go:generate templ generate

import (
	"time"

	"github.com/unimaxdigital/agency-web/internal/domain"
)

// Page carries what the shared layout needs.
type Page struct {
	Title string
	Path  string
	User  *domain.Identity
}

var navLinks = []struct{ Href, Label string }{
	{"/", "Home"},
	{"/services", "Services"},
	{"/portfolio", "Portfolio"},
	{"/about", "About"},
	{"/contact", "Contact"},
}

var footerColumns = []struct {
	Heading string
	Links   []string
}{
	{"Company", []string{"About Us", "Our Team", "Careers", "News & Blog", "Press Kit"}},
	{"Services", []string{"Web Development", "Mobile Apps", "UI/UX Design", "Digital Marketing", "Consulting"}},
	{"Resources", []string{"Documentation", "Help Center", "Community", "Case Studies", "Tutorials"}},
	{"Legal", []string{"Privacy Policy", "Terms of Service", "Cookie Policy", "GDPR Compliance", "Security"}},
}

func copyrightYear() string {
	return time.Now().Format("2006")
}
