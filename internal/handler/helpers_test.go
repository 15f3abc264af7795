package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/unimaxdigital/agency-web/internal/handler"
	"github.com/unimaxdigital/agency-web/internal/oauth"
	"github.com/unimaxdigital/agency-web/internal/repository/sqlite"
	"github.com/unimaxdigital/agency-web/internal/service"
)

const (
	testJWTSecret = "test-secret-for-handler-tests-0123456789"
	testInbox     = "inbox@unimax.test"
)

type sentMail struct {
	To, Subject, HTML string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatal("expected a mail to be sent")
	}
	return m.sent[len(m.sent)-1]
}

// tokenFromMail extracts the token query parameter from the last mailed link.
func (m *recordingMailer) tokenFromMail(t *testing.T) string {
	t.Helper()
	body := m.last(t).HTML
	i := strings.Index(body, "token=")
	if i < 0 {
		t.Fatalf("no token link in mail: %s", body)
	}
	raw := body[i+len("token="):]
	if j := strings.IndexAny(raw, `"<&`); j >= 0 {
		raw = raw[:j]
	}
	token, err := url.QueryUnescape(raw)
	if err != nil {
		t.Fatalf("unescape token: %v", err)
	}
	return token
}

type testEnv struct {
	srv      *httptest.Server
	client   *http.Client
	mailer   *recordingMailer
	auth     *service.AuthService
	sessions *service.SessionIssuer
	tokens   *service.TokenIssuer
}

// newTestEnv starts the full HTTP surface on a temporary SQLite database.
// configure may adjust the dependencies before the server starts.
func newTestEnv(t *testing.T, configure ...func(*handler.Deps)) *testEnv {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hasher := service.NewBcryptHasher(4)
	mailer := &recordingMailer{}
	tokens := service.NewTokenIssuer(db.Users(), hasher, mailer, "https://unimax.test")
	auth := service.NewAuthService(db.Users(), hasher, tokens)
	sessions := service.NewSessionIssuer(testJWTSecret, time.Hour)

	deps := handler.Deps{
		Auth:      auth,
		Sessions:  sessions,
		Tokens:    tokens,
		Contact:   service.NewContactService(mailer, testInbox),
		Providers: oauth.Registry{},
	}
	for _, fn := range configure {
		fn(&deps)
	}

	srv := httptest.NewServer(handler.New(deps))
	t.Cleanup(srv.Close)

	return &testEnv{
		srv:      srv,
		client:   newClient(t),
		mailer:   mailer,
		auth:     auth,
		sessions: sessions,
		tokens:   tokens,
	}
}

// newClient returns a client with a cookie jar that does not follow redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// postJSON sends body as JSON and decodes a JSON object response, if any.
func (e *testEnv) postJSON(t *testing.T, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	resp, err := e.client.Post(e.srv.URL+path, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, decodeBody(t, resp)
}

func (e *testEnv) getJSON(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode body %q: %v", data, err)
	}
	return out
}

// get fetches path and returns the response with its body read.
func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

// postSignals sends datastar signals the way the browser client does.
func (e *testEnv) postSignals(t *testing.T, path string, signals any) (*http.Response, string) {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(signals); err != nil {
		t.Fatalf("encode signals: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func (e *testEnv) cookie(name string) *http.Cookie {
	u, _ := url.Parse(e.srv.URL)
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func signUpBody(email string) map[string]any {
	return map[string]any{
		"email":           email,
		"password":        "password123",
		"confirmPassword": "password123",
		"firstName":       "Ada",
		"lastName":        "Lovelace",
		"agreeToTerms":    true,
	}
}

// register creates an account through the JSON API and returns its id.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	resp, body := e.postJSON(t, "/api/v1/users", signUpBody(email))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %v", resp.StatusCode, body)
	}
	id, _ := body["insertedId"].(string)
	return id
}
