package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/ngamolsky/XtremeRepo/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// ----------------------------------------------------------------------------
// BearerAuth
// ----------------------------------------------------------------------------

func TestBearerAuth(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	token := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
		require.NoError(t, err)
		return s
	}

	valid := token(jwt.MapClaims{"sub": "u-1", "email": "a@b.c", "iss": "https://x.supabase.co/auth/v1", "exp": now.Add(time.Hour).Unix()})
	expired := token(jwt.MapClaims{"sub": "u-1", "iss": "https://x.supabase.co/auth/v1", "exp": now.Add(-time.Hour).Unix()})
	foreign := token(jwt.MapClaims{"sub": "u-1", "iss": "https://login.example.com"})

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantErr  string
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent, ""},
		{"missing", "", http.StatusUnauthorized, "AUTH001"},
		{"not bearer", "Token " + valid, http.StatusUnauthorized, "AUTH001"},
		{"garbage", "Bearer nope", http.StatusUnauthorized, "AUTH002"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "AUTH003"},
		{"foreign issuer", "Bearer " + foreign, http.StatusUnauthorized, "AUTH004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *auth.UnverifiedClaims
			h := BearerAuth("supabase.co", clock)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = auth.ClaimsFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr == "" {
				require.NotNil(t, seen)
				assert.Equal(t, "u-1", seen.UserID())
				assert.Equal(t, "a@b.c", seen.Email)
				return
			}
			assert.Nil(t, seen, "next handler must not run")
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantErr, body.Code)
			assert.Equal(t, "Unauthorized", body.Error)
		})
	}
}

// ----------------------------------------------------------------------------
// RateLimiter
// ----------------------------------------------------------------------------

func TestRateLimiter_AllowsBurstThenBlocks(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d", i)
	}
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "other clients have their own bucket")

	now = now.Add(20 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "one token refills every 20s at 3/min")
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	require.Equal(t, 2, rl.Len())

	now = now.Add(2 * time.Minute)
	rl.Allow("c")
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Middleware(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.1.1:5555"

	first := httptest.NewRecorder()
	h.ServeHTTP(first, req)
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.Equal(t, "RATE001", decodeError(t, second).Code)
}

// ----------------------------------------------------------------------------
// TrustedRealIP
// ----------------------------------------------------------------------------

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"no proxies ignores headers", nil, "203.0.113.9:1234", map[string]string{"X-Real-IP": "1.1.1.1"}, "203.0.113.9:1234"},
		{"untrusted source ignores headers", []string{"10.0.0.0/8"}, "203.0.113.9:1234", map[string]string{"X-Real-IP": "1.1.1.1"}, "203.0.113.9:1234"},
		{"trusted uses X-Real-IP", []string{"10.0.0.0/8"}, "10.0.0.5:1234", map[string]string{"X-Real-IP": "1.1.1.1"}, "1.1.1.1"},
		{"trusted uses first forwarded hop", []string{"10.0.0.5"}, "10.0.0.5:1234", map[string]string{"X-Forwarded-For": "2.2.2.2, 10.0.0.7"}, "2.2.2.2"},
		{"invalid header keeps remote", []string{"10.0.0.0/8"}, "10.0.0.5:1234", map[string]string{"X-Real-IP": "not-an-ip"}, "10.0.0.5:1234"},
		{"bad cidr skipped", []string{"bogus", "10.0.0.0/8"}, "10.0.0.5:1234", map[string]string{"X-Real-IP": "3.3.3.3"}, "3.3.3.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "192.0.2.1:8080"
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.RemoteAddr = "[::ffff:192.0.2.1]:8080"
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.RemoteAddr = "unix-socket"
	assert.Equal(t, "unix-socket", ClientIP(req))
}

// ----------------------------------------------------------------------------
// Logger
// ----------------------------------------------------------------------------

func TestLogger_PassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	Logger(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
