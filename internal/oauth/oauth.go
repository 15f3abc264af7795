// Package oauth implements sign-in through external identity issuers.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"golang.org/x/oauth2"
)

const (
	GitHubName = "github"
	GoogleName = "google"
)

// userFetcher loads the signed-in user's profile with an authorized client.
type userFetcher func(ctx context.Context, client *http.Client, apiBase string) (*domain.ExternalIdentity, error)

// Provider is one configured authorization-code issuer.
type Provider struct {
	name    string
	config  *oauth2.Config
	apiBase string
	fetch   userFetcher
}

// Option customizes a Provider.
type Option func(*Provider)

// WithEndpoint points the provider at different OAuth and API hosts.
func WithEndpoint(endpoint oauth2.Endpoint, apiBase string) Option {
	return func(p *Provider) {
		p.config.Endpoint = endpoint
		p.apiBase = apiBase
	}
}

// Name returns the provider's route name.
func (p *Provider) Name() string { return p.name }

// AuthCodeURL returns the consent page URL carrying state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for the user's identity.
func (p *Provider) Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error) {
	if code == "" {
		return nil, domain.Invalid("code", "Missing authorization code")
	}
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: exchange code: %w", p.name, err)
	}
	ident, err := p.fetch(ctx, p.config.Client(ctx, tok), p.apiBase)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch user: %w", p.name, err)
	}
	ident.Provider = p.name
	return ident, nil
}

// Registry holds the enabled providers by name.
type Registry map[string]*Provider

// Add registers p under its name.
func (r Registry) Add(p *Provider) { r[p.name] = p }

// Lookup returns the named provider if it is enabled.
func (r Registry) Lookup(name string) (*Provider, bool) {
	p, ok := r[name]
	return p, ok
}

// Names lists the enabled providers in a stable order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewState returns an unguessable value for the state parameter.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
