package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kanban-api/internal/config"
	jwtinfra "github.com/go-kanban-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestProvider generates a fresh RSA key pair, writes it to temp files,
// and returns a *jwtinfra.Provider.
func newTestProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	cfg := &config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiryDays:     1,
	}
	p, err := jwtinfra.NewProvider(cfg)
	require.NoError(t, err)
	return p
}

// captureIdentity runs the resolve middleware and records the identity
// the inner handler observed.
func captureIdentity(t *testing.T, provider *jwtinfra.Provider, mutate func(*http.Request)) (*Identity, bool) {
	t.Helper()
	var (
		got *Identity
		ok  bool
	)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	mutate(req)
	rr := httptest.NewRecorder()
	ResolveIdentity(provider)(inner).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	return got, ok
}

func TestResolveIdentity_NoCredentials(t *testing.T) {
	_, ok := captureIdentity(t, nil, func(*http.Request) {})
	assert.False(t, ok)
}

func TestResolveIdentity_CookieOnly_Unverified(t *testing.T) {
	ident, ok := captureIdentity(t, nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: CookieUserID, Value: "u1"})
	})
	require.True(t, ok)
	assert.Equal(t, "u1", ident.UserID)
	assert.False(t, ident.Verified)
}

func TestResolveIdentity_BearerJWT_Verified(t *testing.T) {
	p := newTestProvider(t)
	token, err := p.Sign("u1", "alice@example.com")
	require.NoError(t, err)

	ident, ok := captureIdentity(t, p, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	require.True(t, ok)
	assert.Equal(t, "u1", ident.UserID)
	assert.Equal(t, "alice@example.com", ident.Email)
	assert.True(t, ident.Verified)
}

func TestResolveIdentity_JWTOverridesCookie(t *testing.T) {
	p := newTestProvider(t)
	token, err := p.Sign("u1", "alice@example.com")
	require.NoError(t, err)

	ident, ok := captureIdentity(t, p, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: CookieUserID, Value: "someone-else"})
		r.Header.Set("Authorization", "Bearer "+token)
	})
	require.True(t, ok)
	assert.Equal(t, "u1", ident.UserID)
	assert.True(t, ident.Verified)
}

func TestResolveIdentity_TokenCookie_Verified(t *testing.T) {
	p := newTestProvider(t)
	token, err := p.Sign("u1", "alice@example.com")
	require.NoError(t, err)

	ident, ok := captureIdentity(t, p, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: CookieToken, Value: token})
	})
	require.True(t, ok)
	assert.True(t, ident.Verified)
}

func TestResolveIdentity_BadJWT_FallsBackToCookie(t *testing.T) {
	p := newTestProvider(t)
	ident, ok := captureIdentity(t, p, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: CookieUserID, Value: "u1"})
		r.Header.Set("Authorization", "Bearer not-a-token")
	})
	require.True(t, ok)
	assert.Equal(t, "u1", ident.UserID)
	assert.False(t, ident.Verified)
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestRequireIdentity_Rejects(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	RequireIdentity(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireVerified_CookieIdentityRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieUserID, Value: "u1"})
	rr := httptest.NewRecorder()
	ResolveIdentity(nil)(RequireVerified(false)(http.HandlerFunc(okHandler))).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireVerified_TrustCookie_Accepts(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieUserID, Value: "u1"})
	rr := httptest.NewRecorder()
	ResolveIdentity(nil)(RequireVerified(true)(http.HandlerFunc(okHandler))).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireVerified_JWTAccepted(t *testing.T) {
	p := newTestProvider(t)
	token, err := p.Sign("u1", "alice@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	ResolveIdentity(p)(RequireVerified(false)(http.HandlerFunc(okHandler))).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
