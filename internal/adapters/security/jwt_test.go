package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rameshsapkota900/Konnect/internal/domain"
)

type testKeypair struct {
	private   *rsa.PrivateKey
	publicPEM string
}

func newTestKeypair(t *testing.T) testKeypair {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return testKeypair{private: key, publicPEM: string(pemBytes)}
}

func (kp testKeypair) sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(kp.private)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestParseAndValidateAcceptsGoodToken(t *testing.T) {
	kp := newTestKeypair(t)
	verifier, err := NewJWTVerifier(kp.publicPEM, "https://idp.example.com", "konnect")
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}

	now := time.Now()
	raw := kp.sign(t, identityClaims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "firebase-uid-1",
			Issuer:    "https://idp.example.com",
			Audience:  jwt.ClaimStrings{"konnect"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})

	claims, err := verifier.ParseAndValidate(raw)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if claims.SubjectID != "firebase-uid-1" || claims.Email != "user@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt.IsZero() {
		t.Fatalf("expiry not carried through")
	}
}

func TestParseAndValidateRejections(t *testing.T) {
	kp := newTestKeypair(t)
	verifier, err := NewJWTVerifier(kp.publicPEM, "https://idp.example.com", "konnect")
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
	now := time.Now()
	base := func() identityClaims {
		return identityClaims{
			Email: "user@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "firebase-uid-1",
				Issuer:    "https://idp.example.com",
				Audience:  jwt.ClaimStrings{"konnect"},
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	expired := base()
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
	wrongIssuer := base()
	wrongIssuer.Issuer = "https://evil.example.com"
	wrongAudience := base()
	wrongAudience.Audience = jwt.ClaimStrings{"other-app"}
	noSubject := base()
	noSubject.Subject = ""

	cases := map[string]string{
		"expired":        kp.sign(t, expired),
		"wrong issuer":   kp.sign(t, wrongIssuer),
		"wrong audience": kp.sign(t, wrongAudience),
		"no subject":     kp.sign(t, noSubject),
		"garbage":        "not.a.token",
	}
	for name, raw := range cases {
		if _, err := verifier.ParseAndValidate(raw); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("%s: want ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestParseAndValidateRejectsWrongKey(t *testing.T) {
	kp := newTestKeypair(t)
	other := newTestKeypair(t)
	verifier, err := NewJWTVerifier(kp.publicPEM, "", "")
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
	raw := other.sign(t, identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "firebase-uid-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if _, err := verifier.ParseAndValidate(raw); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized for foreign signature, got %v", err)
	}
}

func TestParseAndValidateRejectsHMACToken(t *testing.T) {
	kp := newTestKeypair(t)
	verifier, err := NewJWTVerifier(kp.publicPEM, "", "")
	if err != nil {
		t.Fatalf("NewJWTVerifier: %v", err)
	}
	// Alg-confusion attempt: HS256 token keyed on the public PEM text.
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "firebase-uid-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(kp.publicPEM))
	if err != nil {
		t.Fatalf("sign hmac token: %v", err)
	}
	if _, err := verifier.ParseAndValidate(raw); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized for HS256 token, got %v", err)
	}
}

func TestNewJWTVerifierRejectsBadPEM(t *testing.T) {
	if _, err := NewJWTVerifier("", "", ""); err == nil {
		t.Fatalf("empty key accepted")
	}
	if _, err := NewJWTVerifier("-----BEGIN PUBLIC KEY-----\ngarbage\n-----END PUBLIC KEY-----", "", ""); err == nil {
		t.Fatalf("garbage key accepted")
	}
}
