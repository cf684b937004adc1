package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-gateway-dashboard/internal/server/middleware"
)

const sessionKey = "supersecretkeysupersecretkey123456"

// Вспомогательная функция для сессионного JWT
func makeToken(t *testing.T, key string, claims middleware.SessionClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func aliceSession(exp time.Time) middleware.SessionClaims {
	return middleware.SessionClaims{
		Handle: "alice",
		Email:  "alice@example.com",
		Roles:  []string{"admin"},
		Teams:  []string{"team-1"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "github:42",
			Issuer:    "dashboard",
			Audience:  []string{"dashboard-web"},
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func serve(t *testing.T, v *middleware.SessionVerifier, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	called := false
	handler := v.AuthMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true

		u, ok := middleware.UserFromContext(r.Context())
		if !ok {
			t.Fatal("user not found in context")
		}
		if u.Subject != "github:42" || u.Handle != "alice" || u.Email != "alice@example.com" {
			t.Fatalf("unexpected user: %+v", u)
		}
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, called
}

// Успех через Authorization
func TestAuthMiddleware_Bearer_OK(t *testing.T) {
	t.Parallel()
	v := middleware.NewSessionVerifier(sessionKey, "dashboard", "dashboard-web", "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, sessionKey, aliceSession(time.Now().Add(time.Minute))))

	rr, called := serve(t, v, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, called)
}

// Успех через cookie
func TestAuthMiddleware_Cookie_OK(t *testing.T) {
	t.Parallel()
	v := middleware.NewSessionVerifier(sessionKey, "", "", "dashboard_session")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "dashboard_session", Value: makeToken(t, sessionKey, aliceSession(time.Now().Add(time.Minute)))})

	rr, called := serve(t, v, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, called)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	t.Parallel()
	v := middleware.NewSessionVerifier(sessionKey, "dashboard", "dashboard-web", "dashboard_session")

	noHandle := aliceSession(time.Now().Add(time.Minute))
	noHandle.Handle = ""

	wrongIss := aliceSession(time.Now().Add(time.Minute))
	wrongIss.Issuer = "someone-else"

	wrongAud := aliceSession(time.Now().Add(time.Minute))
	wrongAud.Audience = []string{"other"}

	noExp := aliceSession(time.Now())
	noExp.ExpiresAt = nil

	cases := map[string]string{
		"missing":      "",
		"expired":      makeToken(t, sessionKey, aliceSession(time.Now().Add(-time.Minute))),
		"wrong key":    makeToken(t, "another-key-another-key-another-key", aliceSession(time.Now().Add(time.Minute))),
		"no handle":    makeToken(t, sessionKey, noHandle),
		"wrong issuer": makeToken(t, sessionKey, wrongIss),
		"wrong aud":    makeToken(t, sessionKey, wrongAud),
		"no expiry":    makeToken(t, sessionKey, noExp),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			rr, called := serve(t, v, req)
			require.Equal(t, http.StatusUnauthorized, rr.Code)
			require.False(t, called)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			require.Equal(t, true, body["reauth"])
			require.NotEmpty(t, body["error"])
		})
	}
}

// Проверка форматов принимаемого токена
func TestExtractBearer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hdr  string
		want string
	}{
		{"Bearer token", "token"},
		{"bearer token", "token"},
		{"Bearer    token", "token"},
		{"Token token", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := middleware.ExtractBearer(tt.hdr); got != tt.want {
			t.Errorf("ExtractBearer(%q) = %q, want %q", tt.hdr, got, tt.want)
		}
	}
}
