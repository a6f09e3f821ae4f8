package security

import (
	"crypto/tls"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	hash2, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2, "salted hashes should differ")

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct password", "s3cret-pass", true},
		{"incorrect password", "wrong-pass", false},
		{"empty password", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.password, hash))
		})
	}

	assert.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, issued, err := m.Issue(7, "pastor")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)

	session, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), session.ID)
	assert.Equal(t, "pastor", session.Username)
	assert.Equal(t, issued.TokenID, session.TokenID)
	assert.True(t, issued.ExpiresAt.Equal(session.ExpiresAt))
}

func TestTokenRejected(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, _, err := m.Issue(1, "admin")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other-secret", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokenManager("test-secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestCSRFToken(t *testing.T) {
	g := NewCSRFGenerator("test-secret")

	token, err := g.GenerateToken("token-id-1")
	require.NoError(t, err)

	again, err := g.GenerateToken("token-id-1")
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.True(t, g.ValidateToken("token-id-1", token))
	assert.False(t, g.ValidateToken("token-id-2", token))
	assert.False(t, g.ValidateToken("token-id-1", ""))
	assert.False(t, NewCSRFGenerator("other").ValidateToken("token-id-1", token))

	_, err = g.GenerateToken("")
	assert.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 3, 17, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per client")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("10.0.0.1"), "bucket refills after the window")

	now = now.Add(5 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.visitors)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.10:51234"
	assert.Equal(t, "192.0.2.10", GetClientIP(r, true))

	r.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", GetClientIP(r, true))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", GetClientIP(r, true))

	assert.Equal(t, "192.0.2.10", GetClientIP(r, false), "forwarding headers are ignored without a trusted proxy")
}

func TestSpoofedForwardedForKeepsBucket(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	allowed := 0
	for i := 0; i < 10; i++ {
		r := httptest.NewRequest("POST", "/api/auth/login", nil)
		r.RemoteAddr = "192.0.2.77:40000"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		r.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		if rl.Allow(GetClientIP(r, false)) {
			allowed++
		}
	}
	assert.Equal(t, 3, allowed)
}

func TestSessionCookieSecureFlag(t *testing.T) {
	expires := time.Now().Add(time.Hour)

	plain := httptest.NewRequest("GET", "http://example.com/", nil)
	cookie := CreateSessionCookie(plain, "tok", expires)
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)

	proxied := httptest.NewRequest("GET", "http://example.com/", nil)
	proxied.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, CreateSessionCookie(proxied, "tok", expires).Secure)

	direct := httptest.NewRequest("GET", "https://example.com/", nil)
	direct.TLS = &tls.ConnectionState{}
	deleted := CreateDeleteCookie(direct)
	assert.True(t, deleted.Secure)
	assert.Equal(t, -1, deleted.MaxAge)
}
