package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/unimaxdigital/agency-web/internal/domain"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Flag is a boolean decoded strictly from JSON booleans or the string values a
// form checkbox produces. Anything else is rejected as malformed input.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", `"true"`, `"on"`:
		*f = true
	case "false", `"false"`, `""`, "null":
		*f = false
	default:
		return domain.Invalid("", fmt.Sprintf("Invalid boolean value %s", data))
	}
	return nil
}

// RegistrationInput is the typed sign-up payload accepted at the boundary.
type RegistrationInput struct {
	Email               string `json:"email" validate:"max=254"`
	Password            string `json:"password"`
	ConfirmPassword     string `json:"confirmPassword"`
	FirstName           string `json:"firstName" validate:"max=64"`
	LastName            string `json:"lastName" validate:"max=64"`
	Username            string `json:"username" validate:"max=64"`
	Phone               string `json:"phone" validate:"max=32"`
	Company             string `json:"company" validate:"max=128"`
	AccountType         string `json:"accountType" validate:"omitempty,oneof=individual company business"`
	AgreeToTerms        Flag   `json:"agreeToTerms"`
	SubscribeNewsletter Flag   `json:"subscribeNewsletter"`

	// Role is never read from client payloads; only trusted callers set it.
	Role string `json:"-"`
}

// Validate normalizes the input in place and reports the first problem found.
// Password checks run first so a mismatched confirmation is reported before
// anything else.
func (in *RegistrationInput) Validate() error {
	if err := validatePassword(in.Password, in.ConfirmPassword); err != nil {
		return err
	}

	in.Email = domain.NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.AccountType = strings.ToLower(strings.TrimSpace(in.AccountType))

	if err := validateEmail(in.Email); err != nil {
		return err
	}

	if err := validate.Struct(in); err != nil {
		return translate(err)
	}
	return nil
}

// toUser builds the record to persist from validated input.
func (in *RegistrationInput) toUser(passwordHash string) *domain.User {
	firstName := in.FirstName
	if firstName == "" && in.LastName == "" {
		firstName = in.Username
	}
	accountType := in.AccountType
	if accountType == "" {
		accountType = domain.AccountTypeIndividual
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	return &domain.User{
		Email:               in.Email,
		PasswordHash:        passwordHash,
		FirstName:           firstName,
		LastName:            in.LastName,
		Phone:               in.Phone,
		Company:             in.Company,
		AccountType:         accountType,
		AgreeToTerms:        bool(in.AgreeToTerms),
		SubscribeNewsletter: bool(in.SubscribeNewsletter),
		Role:                role,
		Provider:            domain.ProviderCredentials,
	}
}

// validatePassword checks presence, confirmation and length. An empty
// confirmation is treated as "not collected".
func validatePassword(password, confirm string) error {
	if password == "" {
		return domain.Invalid("password", "Password is required")
	}
	if confirm != "" && confirm != password {
		return domain.Invalid("confirmPassword", "Passwords do not match")
	}
	if len(password) > maxPasswordBytes {
		return domain.Invalid("password", "Password must be at most 72 bytes")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return domain.Invalid("email", "Email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return domain.Invalid("email", "Invalid email address")
	}
	return nil
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domain.Invalid(fe.Field(), fmt.Sprintf("%s is required", fieldLabel(fe.Field())))
	case "email":
		return domain.Invalid(fe.Field(), "Invalid email address")
	case "oneof":
		return domain.Invalid(fe.Field(), "Invalid "+fe.Field())
	case "max":
		return domain.Invalid(fe.Field(), fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	default:
		return domain.Invalid(fe.Field(), "Invalid "+fe.Field())
	}
}

// fieldLabel turns a JSON field name into a sentence-case label.
func fieldLabel(field string) string {
	if field == "" {
		return "Value"
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

// ValidateSignUpStep checks the fields collected by one step of the sign-up
// wizard: 1 names and email, 2 password and confirmation, 3 terms. The full
// input is validated again on registration.
func ValidateSignUpStep(step int, in RegistrationInput) error {
	switch step {
	case 1:
		if strings.TrimSpace(in.FirstName) == "" {
			return domain.Invalid("firstName", "First name is required")
		}
		if strings.TrimSpace(in.LastName) == "" {
			return domain.Invalid("lastName", "Last name is required")
		}
		return validateEmail(domain.NormalizeEmail(in.Email))
	case 2:
		if in.Password != "" && in.ConfirmPassword == "" {
			return domain.Invalid("confirmPassword", "Please confirm your password")
		}
		return validatePassword(in.Password, in.ConfirmPassword)
	case 3:
		if !in.AgreeToTerms {
			return domain.Invalid("agreeToTerms", "You must agree to the terms and conditions")
		}
		return nil
	}
	return domain.Invalid("step", "Unknown step")
}
