package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlog "gorm.io/gorm/logger"

	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

const testIssuer = "http://localhost:8080/oauth2"

func setupTestAuthn(t *testing.T) (jwk.Key, *gormw.DB, *gin.Engine) {
	t.Helper()

	database, err := gormw.Open(&gormw.Config{
		LogLevel: gormlog.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate())

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privateKey, err := jwk.Import(rsaKey)
	require.NoError(t, err)
	publicKey, err := privateKey.PublicKey()
	require.NoError(t, err)
	pubPem, err := jwk.Pem(publicKey)
	require.NoError(t, err)

	m := NewAuthnMiddleware(&AuthConfig{
		PublicKeyPEM: string(pubPem),
		Issuer:       testIssuer,
	}, database)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/whoami", func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, p.UserID)
	})

	return privateKey, database, router
}

func signToken(t *testing.T, key jwk.Key, issuer string, exp time.Time) string {
	t.Helper()

	tok, err := jwt.NewBuilder().
		Subject("user-1").
		Issuer(issuer).
		Expiration(exp).
		Claim("email", "alice@example.com").
		Claim("name", "Alice").
		Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256(), key))
	require.NoError(t, err)
	return string(signed)
}

func TestAuthnMiddleware(t *testing.T) {
	privateKey, db, router := setupTestAuthn(t)

	token := signToken(t, privateKey, testIssuer, time.Now().Add(time.Hour))

	// second round is served from the principal cache
	for range 2 {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Body.String())
	}

	user, err := storage.GetUserByID(db, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
}

func TestAuthnMiddleware_Error(t *testing.T) {
	privateKey, _, router := setupTestAuthn(t)

	otherRSAKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := jwk.Import(otherRSAKey)
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		expectedError string
	}{
		{
			name:          "Missing header",
			authorization: "",
			expectedError: "Missing bearer token",
		},
		{
			name:          "Not bearer",
			authorization: "Basic dXNlcjpwYXNz",
			expectedError: "Missing bearer token",
		},
		{
			name:          "Garbage",
			authorization: "Bearer not-a-jwt",
			expectedError: "Invalid token",
		},
		{
			name:          "Expired",
			authorization: "Bearer " + signToken(t, privateKey, testIssuer, time.Now().Add(-time.Hour)),
			expectedError: "Token expired",
		},
		{
			name:          "Wrong issuer",
			authorization: "Bearer " + signToken(t, privateKey, "http://evil.example.com", time.Now().Add(time.Hour)),
			expectedError: "Invalid token",
		},
		{
			name:          "Wrong signer",
			authorization: "Bearer " + signToken(t, otherKey, testIssuer, time.Now().Add(time.Hour)),
			expectedError: "Invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			got := map[string]string{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.expectedError, got["error"])
		})
	}
}
