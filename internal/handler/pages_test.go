package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/unimaxdigital/agency-web/internal/handler"
)

func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	handler.HandleHealthz(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestPublicPages(t *testing.T) {
	env := newTestEnv(t)

	for _, tt := range []struct {
		path string
		want string
	}{
		{"/", "Projects Delivered"},
		{"/about", "Mission-Driven"},
		{"/services", "Services"},
		{"/portfolio?category=web", `aria-current="true"`},
		{"/contact", `data-on:submit__prevent="@post('/contact')"`},
		{"/auth/sign-in", `action="/auth/sign-in"`},
		{"/auth/sign-up", `id="signup-step"`},
		{"/auth/forgot-password", `action="/auth/forgot-password"`},
	} {
		resp, body := env.get(t, tt.path)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", tt.path, resp.StatusCode)
		}
		if !strings.Contains(body, tt.want) {
			t.Fatalf("GET %s: expected body to contain %q", tt.path, tt.want)
		}
	}
}

func TestNotFoundPage(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.get(t, "/nonexistent")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "does not exist") {
		t.Fatal("expected the 404 page")
	}
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.get(t, "/")
	for _, h := range []string{"Content-Security-Policy", "X-Content-Type-Options", "X-Frame-Options"} {
		if resp.Header.Get(h) == "" {
			t.Fatalf("expected %s header", h)
		}
	}
}

func TestDashboard_RequiresSession(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.get(t, "/dashboard")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/auth/sign-in" {
		t.Fatalf("expected redirect to /auth/sign-in, got %s", loc)
	}
}

func TestSignInForm_DashboardSignOut(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "form@example.com")

	resp, body := env.postForm(t, "/auth/sign-in", url.Values{
		"email": {"form@example.com"}, "password": {"wrong"},
	})
	if resp.StatusCode != http.StatusUnauthorized || !strings.Contains(body, "Invalid email or password") {
		t.Fatalf("expected 401 with message, got %d", resp.StatusCode)
	}

	resp, _ = env.postForm(t, "/auth/sign-in", url.Values{
		"email": {"form@example.com"}, "password": {"password123"},
	})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/dashboard" {
		t.Fatalf("expected 303 to /dashboard, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, body = env.get(t, "/dashboard")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Welcome back, Ada Lovelace") {
		t.Fatalf("expected dashboard, got %d", resp.StatusCode)
	}

	resp, _ = env.get(t, "/auth/sign-in")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("signed-in users should be sent to the dashboard, got %d", resp.StatusCode)
	}

	resp, _ = env.postForm(t, "/auth/sign-out", nil)
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d", resp.StatusCode)
	}
	resp, _ = env.get(t, "/dashboard")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect after sign-out, got %d", resp.StatusCode)
	}
}

func TestSignInPage_OAuthError(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.get(t, "/auth/sign-in?error=oauth")
	if !strings.Contains(body, "Signing in with that provider failed") {
		t.Fatal("expected the provider failure message")
	}
}
