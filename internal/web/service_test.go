package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/OmarCloud20/bedtime-stories/internal/config"
	"github.com/OmarCloud20/bedtime-stories/internal/session/storage/inmem"
)

type fakeAuthenticator struct {
	username string
	password string
	token    string
	calls    int
}

func (fake *fakeAuthenticator) Authenticate(_ context.Context, username, password string) (string, bool) {
	fake.calls++
	if username == fake.username && password == fake.password {
		return fake.token, true
	}
	return "", false
}

type fakeGenerator struct {
	text  string
	fail  bool
	calls int
}

func (fake *fakeGenerator) Generate(_ context.Context, _ string) (string, bool) {
	fake.calls++
	if fake.fail {
		return "", false
	}
	return fake.text, true
}

func newTestService(t *testing.T) (http.Handler, *fakeAuthenticator, *fakeGenerator) {
	t.Helper()

	sessions, err := inmem.New()
	if err != nil {
		t.Fatalf("inmem.New err: %v", err)
	}

	authenticator := &fakeAuthenticator{username: "alice", password: "correct", token: "id-token"}
	generator := &fakeGenerator{text: "T"}
	service := &Service{
		Config: &config.Config{
			SessionSecret:   "test-secret",
			SessionLifetime: time.Hour,
			AllowedOrigin:   "*",
		},
		Sessions: sessions,
		Identity: authenticator,
		Stories:  generator,
	}

	handler, err := service.Handler()
	if err != nil {
		t.Fatalf("Handler err: %v", err)
	}
	return handler, authenticator, generator
}

func get(handler http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func postForm(handler http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == cookieNameSession {
			return cookie
		}
	}
	t.Fatal("expected a session cookie to be set")
	return nil
}

func login(t *testing.T, handler http.Handler) *http.Cookie {
	t.Helper()
	recorder := postForm(handler, "/login", url.Values{"username": {"alice"}, "password": {"correct"}}, nil)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected login to redirect, got status %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %q", location)
	}
	return sessionCookie(t, recorder)
}

func TestHomeRedirectsAnonymous(t *testing.T) {
	handler, _, _ := newTestService(t)

	recorder := get(handler, "/", nil)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected status %d, got %d", http.StatusFound, recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}
}

func TestAboutIsPublic(t *testing.T) {
	handler, _, _ := newTestService(t)

	recorder := get(handler, "/about", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	handler, _, _ := newTestService(t)

	cookie := login(t, handler)
	recorder := get(handler, "/", cookie)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected the main view after login, got status %d", recorder.Code)
	}
}

func TestLoginFailure(t *testing.T) {
	handler, _, _ := newTestService(t)

	recorder := postForm(handler, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected the login view to be re-rendered, got status %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Invalid credentials") {
		t.Fatal("expected the login view to contain the error message")
	}
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == cookieNameSession {
			t.Fatal("expected no session cookie after a failed login")
		}
	}
}

func TestGenerateStoryRequiresSession(t *testing.T) {
	handler, _, generator := newTestService(t)

	recorder := postForm(handler, "/generate-story", url.Values{"topic": {"a brave fox"}}, nil)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected status %d, got %d", http.StatusFound, recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}
	if generator.calls != 0 {
		t.Fatalf("expected the generator never to be invoked, got %d calls", generator.calls)
	}
}

func TestGenerateStoryAuthenticated(t *testing.T) {
	handler, _, generator := newTestService(t)
	cookie := login(t, handler)

	recorder := postForm(handler, "/generate-story", url.Values{"topic": {"a brave fox"}}, cookie)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "T") {
		t.Fatal("expected the main view to contain the generated story")
	}
	if generator.calls != 1 {
		t.Fatalf("expected exactly one generator invocation, got %d", generator.calls)
	}
}

func TestGenerateStoryEmptyTopic(t *testing.T) {
	handler, _, generator := newTestService(t)
	cookie := login(t, handler)

	recorder := postForm(handler, "/generate-story", url.Values{}, cookie)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Please provide a topic for the story.") {
		t.Fatal("expected the main view to contain the validation message")
	}
	if generator.calls != 0 {
		t.Fatalf("expected no generator invocation for an empty topic, got %d calls", generator.calls)
	}
}

func TestGenerateStoryFailure(t *testing.T) {
	handler, _, generator := newTestService(t)
	generator.fail = true
	cookie := login(t, handler)

	recorder := postForm(handler, "/generate-story", url.Values{"topic": {"a brave fox"}}, cookie)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Failed to generate story.") {
		t.Fatal("expected the main view to contain the failure message")
	}
}

func TestLogoutTerminatesSession(t *testing.T) {
	handler, _, _ := newTestService(t)
	cookie := login(t, handler)

	recorder := get(handler, "/logout", cookie)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected status %d, got %d", http.StatusFound, recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}

	// The old cookie must no longer grant access
	recorder = get(handler, "/", cookie)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected the terminated session to be rejected, got status %d", recorder.Code)
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	handler, _, _ := newTestService(t)

	recorder := get(handler, "/logout", nil)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected logging out without a session to succeed, got status %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}
}

func TestTamperedCookieIsRejected(t *testing.T) {
	handler, _, generator := newTestService(t)
	cookie := login(t, handler)

	// Swap the first character of the raw token; the signature no longer matches
	replacement := "x"
	if strings.HasPrefix(cookie.Value, "x") {
		replacement = "y"
	}
	tampered := &http.Cookie{Name: cookie.Name, Value: replacement + cookie.Value[1:]}
	recorder := postForm(handler, "/generate-story", url.Values{"topic": {"a brave fox"}}, tampered)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected a tampered cookie to be treated as anonymous, got status %d", recorder.Code)
	}
	if generator.calls != 0 {
		t.Fatalf("expected the generator never to be invoked, got %d calls", generator.calls)
	}
}
