package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/unimaxdigital/agency-web/internal/handler"
	"github.com/unimaxdigital/agency-web/internal/oauth"
	"golang.org/x/oauth2"
)

// fakeGitHub serves the token endpoint and the /user API.
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.FormValue("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Write([]byte(`{"access_token":"at-1","token_type":"bearer"}`))
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id": 7, "login": "octo", "name": "Octo Cat", "email": "octo@example.com", "avatar_url": "https://img.test/7",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newOAuthEnv(t *testing.T) *testEnv {
	t.Helper()
	gh := fakeGitHub(t)
	ep := oauth2.Endpoint{AuthURL: gh.URL + "/authorize", TokenURL: gh.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	return newTestEnv(t, func(d *handler.Deps) {
		d.Providers = oauth.Registry{}
		d.Providers.Add(oauth.GitHub("cid", "secret", "https://unimax.test/api/auth/callback/github", oauth.WithEndpoint(ep, gh.URL)))
	})
}

func TestOAuth_SignInAndCallback(t *testing.T) {
	env := newOAuthEnv(t)

	_, page := env.get(t, "/auth/sign-in")
	if !strings.Contains(page, "/api/auth/signin/github") {
		t.Fatal("expected a GitHub button on the sign-in page")
	}

	resp, _ := env.get(t, "/api/auth/signin/github")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("expected state in the authorize URL")
	}

	resp, _ = env.get(t, "/api/auth/callback/github?code=good-code&state="+url.QueryEscape(state))
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/dashboard" {
		t.Fatalf("expected 303 to /dashboard, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	_, body := env.getJSON(t, "/api/auth/session")
	user, _ := body["user"].(map[string]any)
	if user == nil || user["email"] != "octo@example.com" || user["name"] != "Octo Cat" {
		t.Fatalf("unexpected session: %v", body)
	}

	// External accounts have no password.
	resp, body = env.postJSON(t, "/api/auth/callback/credentials", map[string]string{
		"email": "octo@example.com", "password": "anything",
	})
	if resp.StatusCode != http.StatusUnauthorized || body["error"] != "Use Google/GitHub to sign in" {
		t.Fatalf("expected provider hint, got %d %v", resp.StatusCode, body)
	}
}

func TestOAuth_StateMismatch(t *testing.T) {
	env := newOAuthEnv(t)
	env.get(t, "/api/auth/signin/github")

	resp, _ := env.get(t, "/api/auth/callback/github?code=good-code&state=forged")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/auth/sign-in?error=oauth" {
		t.Fatalf("expected redirect to sign-in error, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
	if env.cookie("auth_token") != nil {
		t.Fatal("no session expected")
	}
}

func TestOAuth_BadCode(t *testing.T) {
	env := newOAuthEnv(t)
	resp, _ := env.get(t, "/api/auth/signin/github")
	loc, _ := url.Parse(resp.Header.Get("Location"))

	resp, _ = env.get(t, "/api/auth/callback/github?code=bad&state="+url.QueryEscape(loc.Query().Get("state")))
	if resp.Header.Get("Location") != "/auth/sign-in?error=oauth" {
		t.Fatalf("expected redirect to sign-in error, got %s", resp.Header.Get("Location"))
	}
}

func TestOAuth_UnknownProvider(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/auth/signin/github", "/api/auth/callback/myspace"} {
		resp, _ := env.get(t, path)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}
