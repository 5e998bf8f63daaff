package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/logging"
	"github.com/charleshuang3/teamcrm/internal/models"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

var (
	logger = logging.Component("middleware")
)

const (
	// KeyPrincipal is the gin context key of the authenticated *storage.Principal.
	KeyPrincipal = "principal"
)

type AuthConfig struct {
	// PublicKeyPEM verifies the RS256 bearer tokens issued by the auth
	// provider. Authentication is off when empty.
	PublicKeyPEM string `yaml:"public_key_pem"`

	// Issuer, if set, must match the iss claim.
	Issuer string `yaml:"issuer"`
}

func (c *AuthConfig) Enabled() bool {
	return c.PublicKeyPEM != ""
}

func (c *AuthConfig) Validate() {
	if !c.Enabled() {
		logger.Warn().Msg("Auth: PublicKeyPEM is missing, API is not authenticated")
		return
	}

	if _, err := jwk.ParseKey([]byte(c.PublicKeyPEM), jwk.WithPEM(true)); err != nil {
		logger.Fatal().Err(err).Msg("Auth: PublicKeyPEM is invalid")
	}
}

type AuthnMiddleware struct {
	config    *AuthConfig
	db        *gormw.DB
	publicKey jwk.Key

	principals *storage.PrincipalStorage
}

func NewAuthnMiddleware(config *AuthConfig, db *gormw.DB) *AuthnMiddleware {
	key, err := jwk.ParseKey([]byte(config.PublicKeyPEM), jwk.WithPEM(true))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to parse public key")
	}

	// accept a private key PEM as well.
	pub, err := key.PublicKey()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to generate public key")
	}

	return &AuthnMiddleware{
		config:     config,
		db:         db,
		publicKey:  pub,
		principals: storage.NewPrincipalStorage(),
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

func (m *AuthnMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		if p, ok := m.principals.Get(raw); ok {
			c.Set(KeyPrincipal, p)
			c.Next()
			return
		}

		p, err := m.verify(raw)
		if err != nil {
			if errors.Is(err, jwt.TokenExpiredError()) {
				abortUnauthorized(c, "Token expired")
				return
			}
			logger.Debug().Err(err).Msg("Bearer token rejected")
			abortUnauthorized(c, "Invalid token")
			return
		}

		// Mirror the account so team and invitation lookups find it.
		if p.Email != "" {
			err := storage.SyncUser(m.db.Ctx(c.Request.Context()), &models.User{
				ID:    p.UserID,
				Email: p.Email,
				Name:  p.Name,
			})
			if err != nil {
				logger.Error().Err(err).Str("user", p.UserID).Msg("Failed to sync user")
			}
		}

		m.principals.Set(raw, p)
		c.Set(KeyPrincipal, p)
		c.Next()
	}
}

func (m *AuthnMiddleware) verify(raw string) (*storage.Principal, error) {
	opts := []jwt.ParseOption{jwt.WithKey(jwa.RS256(), m.publicKey)}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}

	tok, err := jwt.Parse([]byte(raw), opts...)
	if err != nil {
		return nil, err
	}

	sub, ok := tok.Subject()
	if !ok || sub == "" {
		return nil, errors.New("token has no subject")
	}

	p := &storage.Principal{UserID: sub}
	if exp, ok := tok.Expiration(); ok {
		p.ExpiresAt = exp
	} else {
		p.ExpiresAt = time.Now().Add(time.Minute)
	}
	// optional claims
	_ = tok.Get("email", &p.Email)
	_ = tok.Get("name", &p.Name)

	return p, nil
}

// PrincipalFrom returns the principal set by AuthnMiddleware, if any.
func PrincipalFrom(c *gin.Context) (*storage.Principal, bool) {
	v, ok := c.Get(KeyPrincipal)
	if !ok {
		return nil, false
	}
	p, ok := v.(*storage.Principal)
	return p, ok
}
