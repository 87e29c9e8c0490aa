package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizhub/internal/config"
	"quizhub/internal/domain"
	"quizhub/internal/logger"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// tokenClaims are the claims the identity provider puts in its tokens.
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies identity tokens either against the provider's JWKS
// (RS256) or against a shared HS256 secret in local development.
type JWTVerifier struct {
	keyFunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
	parser  *jwt.Parser
}

// NewJWTVerifier builds a verifier from the identity section of the config.
// When a JWKS URL is configured its keys are refreshed in the background until Close.
func NewJWTVerifier(ctx context.Context, cfg config.IdentityConfig) (*JWTVerifier, error) {
	if cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Get().Warn("Failed to refresh identity provider JWKS", zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS from %s: %w", cfg.JWKSURL, err)
		}
		v := &JWTVerifier{
			keyFunc: jwks.Keyfunc,
			jwks:    jwks,
			parser:  jwt.NewParser(parserOptions(cfg, "RS256")...),
		}
		return v, nil
	}

	if cfg.HMACSecret == "" {
		return nil, errors.New("identity: either jwks_url or hmac_secret must be configured")
	}
	return NewHMACVerifier(cfg), nil
}

// NewHMACVerifier verifies HS256 tokens signed with cfg.HMACSecret.
func NewHMACVerifier(cfg config.IdentityConfig) *JWTVerifier {
	secret := []byte(cfg.HMACSecret)
	return &JWTVerifier{
		keyFunc: func(*jwt.Token) (interface{}, error) { return secret, nil },
		parser:  jwt.NewParser(parserOptions(cfg, "HS256")...),
	}
}

func parserOptions(cfg config.IdentityConfig, alg string) []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{alg}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return opts
}

// Verify implements domain.TokenVerifier.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*domain.IdentityClaims, error) {
	claims := &tokenClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, v.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewUnauthorizedError("Identity token has expired", err)
		}
		return nil, domain.NewUnauthorizedError("Invalid identity token", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, domain.NewUnauthorizedError("Invalid identity token", nil)
	}
	return &domain.IdentityClaims{AuthID: claims.Subject, Email: claims.Email}, nil
}

// Close stops the background JWKS refresh.
func (v *JWTVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
