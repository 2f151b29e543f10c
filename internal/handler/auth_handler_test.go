package handler

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

func TestRegister(t *testing.T) {
	ts := newTestServer()

	w := ts.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "ada@example.com", "password": "correct-horse",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["user"] == nil || body["tokens"] == nil {
		t.Fatalf("expected user and tokens, got %v", body)
	}
	if strings.Contains(w.Body.String(), "hashed_password") {
		t.Fatalf("password hash leaked: %s", w.Body.String())
	}
}

func TestRegisterErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   any
		err    error
		status int
		code   string
	}{
		{"bad json", `{"email":`, nil, http.StatusBadRequest, "INVALID_REQUEST"},
		{"short password", map[string]string{"email": "ada@example.com", "password": "short"}, nil, http.StatusBadRequest, "INVALID_REQUEST"},
		{"duplicate", map[string]string{"email": "ada@example.com", "password": "correct-horse"}, domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"validation", map[string]string{"email": "ada@example.com", "password": "correct-horse"},
			domain.NewValidationError("email", "invalid", domain.ErrInvalidField), http.StatusBadRequest, "VALIDATION_FAILED"},
	}

	for _, tc := range cases {
		ts := newTestServer()
		ts.auth.registerErr = tc.err
		w := ts.do(http.MethodPost, "/api/v1/auth/register", tc.body)
		if w.Code != tc.status {
			t.Errorf("%s: status %d, want %d", tc.name, w.Code, tc.status)
			continue
		}
		if got := decode(t, w)["code"]; got != tc.code {
			t.Errorf("%s: code %v, want %s", tc.name, got, tc.code)
		}
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newTestServer()
	ts.auth.loginErr = domain.ErrInvalidCredentials

	w := ts.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if decode(t, w)["code"] != "INVALID_CREDENTIALS" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRefreshToken(t *testing.T) {
	ts := newTestServer()

	if w := ts.do(http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": "refresh"}); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w := ts.do(http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": "stolen"})
	if w.Code != http.StatusUnauthorized || decode(t, w)["code"] != "TOKEN_INVALID" {
		t.Fatalf("expected invalid token, got %d %s", w.Code, w.Body.String())
	}
}

func TestGoogleAuthDisabled(t *testing.T) {
	ts := newTestServer()
	w := ts.do(http.MethodGet, "/api/v1/auth/google", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGoogleFlow(t *testing.T) {
	ts := newTestServer()
	ts.auth.googleEnabled = true

	w := ts.do(http.MethodGet, "/api/v1/auth/google", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var state *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == oauthStateCookie {
			state = c
		}
	}
	if state == nil || state.Value == "" || !state.HttpOnly {
		t.Fatalf("expected http-only state cookie, got %+v", state)
	}
	if !strings.Contains(decode(t, w)["auth_url"].(string), state.Value) {
		t.Fatalf("auth url must carry the state")
	}

	w = ts.do(http.MethodGet, "/api/v1/auth/google/callback?code=abc&state="+state.Value, nil, state)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	location, err := url.Parse(w.Header().Get("Location"))
	if err != nil || location.Path != "/auth/callback" {
		t.Fatalf("unexpected redirect %q", w.Header().Get("Location"))
	}
	code := location.Query().Get("auth_code")
	if ts.auth.storedCodes[code] == nil {
		t.Fatalf("auth code %q was not stored", code)
	}

	w = ts.do(http.MethodPost, "/api/v1/auth/exchange-code", map[string]string{"auth_code": code})
	if w.Code != http.StatusOK {
		t.Fatalf("exchange: expected 200, got %d", w.Code)
	}
}

func TestGoogleCallbackFailures(t *testing.T) {
	cases := []struct {
		name    string
		query   string
		cookie  string
		err     error
		wantErr string
	}{
		{"missing cookie", "code=abc&state=s1", "", nil, "invalid_state"},
		{"state mismatch", "code=abc&state=s1", "s2", nil, "invalid_state"},
		{"denied", "error=access_denied&state=s1", "s1", nil, "access_denied"},
		{"exchange failure", "code=abc&state=s1", "s1", domain.ErrUnauthorized, "auth_failed"},
	}

	for _, tc := range cases {
		ts := newTestServer()
		ts.auth.googleEnabled = true
		ts.auth.completeErr = tc.err

		var cookies []*http.Cookie
		if tc.cookie != "" {
			cookies = append(cookies, &http.Cookie{Name: oauthStateCookie, Value: tc.cookie, Expires: time.Now().Add(time.Minute)})
		}
		w := ts.do(http.MethodGet, "/api/v1/auth/google/callback?"+tc.query, nil, cookies...)
		want := "http://app.test/auth/login?error=" + tc.wantErr
		if w.Code != http.StatusTemporaryRedirect || w.Header().Get("Location") != want {
			t.Errorf("%s: got %d %q, want redirect to %q", tc.name, w.Code, w.Header().Get("Location"), want)
		}
	}
}

func TestSessions(t *testing.T) {
	ts := newTestServer()
	ts.auth.sessions = []*domain.Session{
		{ID: testSessionID, UserID: testUserID, RefreshToken: "secret-refresh"},
		{ID: "other-session", UserID: testUserID, RefreshToken: "secret-refresh-2"},
	}

	w := ts.do(http.MethodGet, "/api/v1/auth/sessions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret-refresh") {
		t.Fatalf("refresh tokens leaked: %s", w.Body.String())
	}
	sessions := decode(t, w)["sessions"].([]any)
	if first := sessions[0].(map[string]any); first["current"] != true {
		t.Fatalf("expected the calling session to be marked current: %v", first)
	}

	if w := ts.do(http.MethodDelete, "/api/v1/auth/sessions/foreign", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a foreign session, got %d", w.Code)
	}
	if w := ts.do(http.MethodDelete, "/api/v1/auth/sessions/other-session", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := ts.do(http.MethodPost, "/api/v1/auth/logout", nil); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
	if len(ts.auth.revoked) != 2 || ts.auth.revoked[1] != testSessionID {
		t.Fatalf("unexpected revocations %v", ts.auth.revoked)
	}
}

func TestProfile(t *testing.T) {
	ts := newTestServer()

	w := ts.do(http.MethodPut, "/api/v1/profile", map[string]string{"last_name": " <b>Lovelace</b> "})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ts.users.user.LastName != "Lovelace" || ts.users.user.FirstName != "Ada" {
		t.Fatalf("unexpected stored user %+v", ts.users.user)
	}

	w = ts.do(http.MethodPut, "/api/v1/profile", map[string]string{"picture": "not a url"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad picture url, got %d", w.Code)
	}
}
