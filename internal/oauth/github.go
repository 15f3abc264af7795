package oauth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const githubAPI = "https://api.github.com"

// GitHub creates the GitHub provider.
func GitHub(clientID, clientSecret, redirectURL string, opts ...Option) *Provider {
	p := &Provider{
		name: GitHubName,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoints.GitHub,
			Scopes:       []string{"read:user", "user:email"},
		},
		apiBase: githubAPI,
		fetch:   fetchGitHubUser,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func fetchGitHubUser(ctx context.Context, client *http.Client, apiBase string) (*domain.ExternalIdentity, error) {
	var u githubUser
	if err := getJSON(ctx, client, apiBase+"/user", &u); err != nil {
		return nil, err
	}

	email := u.Email
	if email == "" {
		// Private addresses are only listed on /user/emails.
		var emails []githubEmail
		if err := getJSON(ctx, client, apiBase+"/user/emails", &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}

	name := u.Name
	if name == "" {
		name = u.Login
	}
	return &domain.ExternalIdentity{
		ProviderID: strconv.FormatInt(u.ID, 10),
		Email:      email,
		Name:       name,
		Image:      u.AvatarURL,
	}, nil
}
