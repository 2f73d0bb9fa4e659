// Package auth maps bearer credentials to caller identities. Token issuance
// lives in the auth collaborator; this side only verifies.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Yekna/dj-jukebox/internal/errs"
)

// Identity is a verified caller: a stable ID plus a display name.
type Identity struct {
	ID   string
	Name string
}

// Claims is the token payload: registered claims plus a display name.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for the shared HS256 secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a token string, returning the caller identity.
// Expired, malformed or foreign-signed tokens all come back as ErrInvalidToken.
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errs.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, errs.ErrInvalidToken
	}
	return &Identity{ID: claims.Subject, Name: claims.Name}, nil
}

// Issue signs a token for the given identity. Used by tests and the seed
// tooling; production tokens come from the auth collaborator.
func (v *Verifier) Issue(id, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
