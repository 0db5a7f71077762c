package ports

import "time"

// AuthClaims is the verified identity extracted from an external identity
// provider token. SubjectID is the provider's stable uid, not our user id.
type AuthClaims struct {
	SubjectID string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenVerifier interface {
	ParseAndValidate(raw string) (AuthClaims, error)
}
