package oauth

import (
	"context"
	"errors"
	"net/http"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleAPI = "https://openidconnect.googleapis.com"

// Google creates the Google provider.
func Google(clientID, clientSecret, redirectURL string, opts ...Option) *Provider {
	p := &Provider{
		name: GoogleName,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		apiBase: googleAPI,
		fetch:   fetchGoogleUser,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type googleUser struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

var errUnverifiedEmail = errors.New("email address is not verified")

func fetchGoogleUser(ctx context.Context, client *http.Client, apiBase string) (*domain.ExternalIdentity, error) {
	var u googleUser
	if err := getJSON(ctx, client, apiBase+"/v1/userinfo", &u); err != nil {
		return nil, err
	}
	if u.Email != "" && !u.EmailVerified {
		return nil, errUnverifiedEmail
	}
	return &domain.ExternalIdentity{
		ProviderID: u.Sub,
		Email:      u.Email,
		Name:       u.Name,
		Image:      u.Picture,
	}, nil
}
