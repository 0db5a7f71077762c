package security

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rameshsapkota900/Konnect/internal/domain"
	"github.com/rameshsapkota900/Konnect/internal/ports"
)

// JWTVerifier validates RS256 bearer tokens minted by the external identity
// provider. This service never signs tokens; it only checks them against the
// provider's published public key.
type JWTVerifier struct {
	publicKey *rsa.PublicKey
	issuer    string
	audience  string
}

// NewJWTVerifier builds a verifier from the configured PEM public key.
func NewJWTVerifier(publicKeyPEM, issuer, audience string) (*JWTVerifier, error) {
	if publicKeyPEM == "" {
		return nil, errors.New("identity provider public key is required")
	}
	pub, err := parseRSAPublic(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return &JWTVerifier{publicKey: pub, issuer: issuer, audience: audience}, nil
}

type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (v *JWTVerifier) ParseAndValidate(raw string) (ports.AuthClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	parsed, err := jwt.ParseWithClaims(raw, &identityClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return v.publicKey, nil
	}, opts...)
	if err != nil {
		return ports.AuthClaims{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*identityClaims)
	if !ok || !parsed.Valid {
		return ports.AuthClaims{}, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return ports.AuthClaims{}, fmt.Errorf("%w: token missing subject", domain.ErrUnauthorized)
	}

	out := ports.AuthClaims{
		SubjectID: claims.Subject,
		Email:     claims.Email,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}

func parseRSAPublic(raw string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, errors.New("invalid public PEM")
	}
	if key, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, errors.New("public key is not RSA")
		}
		return rsaKey, nil
	}
	return x509.ParsePKCS1PublicKey(block.Bytes)
}
