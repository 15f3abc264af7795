package view

import "strings"

// Stat is a headline number on the home and about pages.
type Stat struct {
	Number string
	Label  string
}

// Value is one of the agency's guiding principles.
type Value struct {
	Title       string
	Description string
}

// Member is a team member card.
type Member struct {
	Name string
	Role string
	Bio  string
}

// Service is an offering on the services page.
type Service struct {
	ID          string
	Title       string
	Description string
	Features    []string
	Price       string
}

// Project is a portfolio entry.
type Project struct {
	Title       string
	Category    string
	Description string
	Image       string
	Tech        []string
	Year        string
	Featured    bool
}

// Category is a portfolio filter.
type Category struct {
	Key   string
	Label string
}

var Stats = []Stat{
	{"150+", "Projects Delivered"},
	{"50+", "Happy Clients"},
	{"5+", "Years Experience"},
	{"98%", "Success Rate"},
}

var Values = []Value{
	{"Mission-Driven", "We transform ambitious ideas into digital realities that drive real business impact and user engagement."},
	{"Innovation First", "We stay ahead of the curve, adopting cutting-edge technologies and methodologies to deliver exceptional results."},
	{"Client Partnership", "We believe in true collaboration, working as an extension of your team to achieve shared success."},
}

var Team = []Member{
	{"Alex Chen", "Creative Director", "Visionary designer with 8+ years crafting digital experiences that captivate and convert."},
	{"Sarah Williams", "Tech Lead", "Full-stack architect passionate about building scalable, performant applications."},
	{"Marcus Johnson", "Strategy Director", "Business strategist who bridges the gap between technology and market success."},
}

var Services = []Service{
	{
		ID:          "web-development",
		Title:       "Web Development",
		Description: "Full-stack web applications with modern technologies and scalable architecture.",
		Features:    []string{"React/Next.js", "Node.js/Express", "Database Design", "API Development"},
		Price:       "Starting at $2,999",
	},
	{
		ID:          "mobile-apps",
		Title:       "Mobile Apps",
		Description: "Native and cross-platform mobile applications for iOS and Android.",
		Features:    []string{"React Native", "iOS Development", "Android Development", "App Store Deploy"},
		Price:       "Starting at $4,999",
	},
	{
		ID:          "ui-ux-design",
		Title:       "UI/UX Design",
		Description: "User-centered design solutions that enhance user experience and drive engagement.",
		Features:    []string{"User Research", "Wireframing", "Prototyping", "Design Systems"},
		Price:       "Starting at $1,999",
	},
	{
		ID:          "consulting",
		Title:       "Consulting",
		Description: "Strategic technology consulting to optimize your digital transformation.",
		Features:    []string{"Tech Strategy", "Code Review", "Performance Audit", "Team Training"},
		Price:       "Starting at $299/hr",
	},
}

var Categories = []Category{
	{"all", "All Work"},
	{"web", "Web Apps"},
	{"mobile", "Mobile"},
	{"design", "Design"},
}

var Projects = []Project{
	{"E-Commerce Platform", "web", "Full-stack e-commerce solution with advanced analytics and real-time inventory management.",
		"https://images.unsplash.com/photo-1556742049-0cfed4f6a45d?w=600&h=400&fit=crop",
		[]string{"Next.js", "TypeScript", "Stripe", "PostgreSQL"}, "2024", true},
	{"AI-Powered Dashboard", "web", "Machine learning dashboard with predictive analytics and beautiful data visualizations.",
		"https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=600&h=400&fit=crop",
		[]string{"React", "Python", "TensorFlow", "D3.js"}, "2024", true},
	{"Fitness Tracking App", "mobile", "Cross-platform mobile app with social features and gamification elements.",
		"https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=600&h=400&fit=crop",
		[]string{"React Native", "Firebase", "Redux", "Node.js"}, "2023", false},
	{"Brand Identity System", "design", "Complete brand identity including logo, color palette, and design system documentation.",
		"https://images.unsplash.com/photo-1561070791-2526d30994b5?w=600&h=400&fit=crop",
		[]string{"Figma", "Adobe CC", "Framer", "Webflow"}, "2023", false},
	{"Real Estate Platform", "web", "Property listing platform with virtual tours and mortgage calculator integration.",
		"https://images.unsplash.com/photo-1560518883-ce09059eeffa?w=600&h=400&fit=crop",
		[]string{"Vue.js", "Laravel", "MySQL", "Three.js"}, "2023", true},
	{"Food Delivery App", "mobile", "On-demand food delivery with real-time tracking and payment integration.",
		"https://images.unsplash.com/photo-1504674900247-0877df9cc836?w=600&h=400&fit=crop",
		[]string{"Flutter", "Firebase", "Google Maps", "Stripe"}, "2023", false},
}

// ContactEmail, ContactPhone and ContactLocation appear on the contact page.
const (
	ContactEmail    = "hello@unimax.agency"
	ContactPhone    = "+1 (555) 123-4567"
	ContactLocation = "San Francisco, CA"
)

// ProjectsIn returns the projects in category. Unknown categories and "all"
// return every project.
func ProjectsIn(category string) []Project {
	if !ValidCategory(category) || category == "all" {
		return Projects
	}
	var out []Project
	for _, p := range Projects {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// ValidCategory reports whether key names a portfolio filter.
func ValidCategory(key string) bool {
	for _, c := range Categories {
		if c.Key == key {
			return true
		}
	}
	return false
}

func normalizeCategory(key string) string {
	if !ValidCategory(key) {
		return "all"
	}
	return key
}

// techLine joins a project's stack and year for its card footer.
func techLine(p Project) string {
	return strings.Join(p.Tech, " · ") + " · " + p.Year
}
