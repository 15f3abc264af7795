package handler

import (
	"time"

	"github.com/unimaxdigital/agency-web/internal/domain"
)

// userDTO is the JSON representation of a signed-in identity.
type userDTO struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

func toUserDTO(id domain.Identity) userDTO {
	return userDTO{
		ID:    id.ID,
		Role:  id.Role,
		Email: id.Email,
		Name:  id.Name,
		Image: id.Image,
	}
}

// profileDTO is the stored account as returned by /api/v1/me. Password and
// token fields never leave the server.
type profileDTO struct {
	userDTO
	FirstName           string    `json:"firstName"`
	LastName            string    `json:"lastName"`
	Phone               string    `json:"phone,omitempty"`
	Company             string    `json:"company,omitempty"`
	AccountType         string    `json:"accountType"`
	SubscribeNewsletter bool      `json:"subscribeNewsletter"`
	IsVerified          bool      `json:"isVerified"`
	Provider            string    `json:"provider"`
	HasPassword         bool      `json:"hasPassword"`
	CreatedAt           time.Time `json:"createdAt"`
}

func toProfileDTO(u *domain.User) profileDTO {
	return profileDTO{
		userDTO:             toUserDTO(u.Identity()),
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Phone:               u.Phone,
		Company:             u.Company,
		AccountType:         u.AccountType,
		SubscribeNewsletter: u.SubscribeNewsletter,
		IsVerified:          u.IsVerified,
		Provider:            u.Provider,
		HasPassword:         u.HasPassword(),
		CreatedAt:           u.CreatedAt,
	}
}
