package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/htmlpage/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("info", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", seen)

	req.Header.Set(HeaderRequestID, strings.Repeat("x", maxRequestIDLen+1))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Len(t, seen, 36)

	assert.Empty(t, GetRequestID(context.Background()))
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	defer logger.Replace(zap.New(core))()

	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestLoggingRecordsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	defer logger.Replace(zap.New(core))()

	h := RequestID(Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("nope"))
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
	assert.EqualValues(t, 4, fields["bytes"])
	assert.Equal(t, "/x", fields["path"])
	assert.NotEmpty(t, fields["id"])
}

func serveFrom(h http.Handler, remote, xff string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := RateLimit(ctx, 1, 2, nil)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, serveFrom(h, "10.0.0.1:5555", ""))
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// a different client has its own bucket
	assert.Equal(t, http.StatusOK, serveFrom(h, "10.0.0.2:5555", ""))
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := RateLimit(ctx, 1, 1, nil)(okHandler)

	assert.Equal(t, http.StatusOK, serveFrom(h, "203.0.113.9:4000", "198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(h, "203.0.113.9:4000", "198.51.100.2"))
}

func TestRateLimitTrustsForwardedForFromProxy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	trusted, err := ParseTrustedProxies("10.0.0.0/8")
	require.NoError(t, err)
	h := RateLimit(ctx, 1, 1, trusted)(okHandler)

	assert.Equal(t, http.StatusOK, serveFrom(h, "10.1.2.3:4000", "198.51.100.1"))
	assert.Equal(t, http.StatusOK, serveFrom(h, "10.1.2.3:4000", "198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(h, "10.1.2.3:4000", "198.51.100.1"))
}

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies("10.0.0.0/8, 192.0.2.7")
	require.NoError(t, err)

	cases := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"no header", "203.0.113.9:4000", "", "203.0.113.9"},
		{"untrusted peer header ignored", "203.0.113.9:4000", "198.51.100.1", "203.0.113.9"},
		{"trusted peer", "10.1.2.3:4000", "198.51.100.1", "198.51.100.1"},
		{"spoofed leftmost hop skipped", "10.1.2.3:4000", "1.2.3.4, 198.51.100.1", "198.51.100.1"},
		{"trusted hops skipped", "192.0.2.7:4000", "198.51.100.1, 10.9.9.9", "198.51.100.1"},
		{"all hops trusted", "10.1.2.3:4000", "10.4.4.4", "10.1.2.3"},
		{"remote without port", "203.0.113.9", "", "203.0.113.9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			assert.Equal(t, tc.want, clientIP(req, trusted))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	got, err := ParseTrustedProxies(" 10.0.0.1/8 ,, 192.0.2.7,::1")
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.7/32"),
		netip.MustParsePrefix("::1/128"),
	}, got)

	got, err = ParseTrustedProxies("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseTrustedProxies("10.0.0.0/8,proxy.internal")
	require.Error(t, err)
}

func TestVisitorsGC(t *testing.T) {
	v := &visitors{entries: map[string]*limiterEntry{}, rps: 1, burst: 1}
	now := time.Now()
	v.allow("a", now.Add(-time.Hour))
	v.allow("b", now)

	v.gc(10*time.Minute, now)
	assert.NotContains(t, v.entries, "a")
	assert.Contains(t, v.entries, "b")
}

func signed(t *testing.T, secret []byte, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func TestAuth(t *testing.T) {
	secret := []byte("test-secret")
	var user string
	h := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	valid := signed(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "editor", "exp": time.Now().Add(time.Hour).Unix()})
	expired := signed(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "editor", "exp": time.Now().Add(-time.Hour).Unix()})
	wrongKey := signed(t, []byte("other"), jwt.SigningMethodHS256, jwt.MapClaims{"sub": "editor"})
	noSubject := signed(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	hs512 := signed(t, secret, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "editor"})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"no subject", "Bearer " + noSubject, http.StatusUnauthorized},
		{"unexpected alg", "Bearer " + hs512, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user = ""
			req := httptest.NewRequest(http.MethodDelete, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
			if tc.want == http.StatusNoContent {
				assert.Equal(t, "editor", user)
			}
		})
	}
}
