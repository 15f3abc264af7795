package view

// Element ids patched over SSE.
const (
	SignUpStepID   = "signup-step"
	SignUpErrorID  = "signup-error"
	ContactFormID  = "contact-form"
	ContactErrorID = "contact-error"
)

// SignUpSteps is the number of steps in the sign-up wizard.
const SignUpSteps = 3

const signUpSignals = `{"step":1,"firstName":"","lastName":"","email":"","phone":"","company":"",` +
	`"accountType":"individual","password":"","confirmPassword":"","agreeToTerms":false,"subscribeNewsletter":false}`

var contactDetails = []struct{ Label, Value string }{
	{"Email", ContactEmail},
	{"Phone", ContactPhone},
	{"Location", ContactLocation},
}

func nextLabel(step int) string {
	if step >= SignUpSteps {
		return "Create account"
	}
	return "Next"
}

func providerLabel(name string) string {
	switch name {
	case "github":
		return "GitHub"
	case "google":
		return "Google"
	}
	return name
}
