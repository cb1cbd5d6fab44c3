package jwt

import (
	"errors"
	"time"

	jw "github.com/golang-jwt/jwt/v5"
)

type Signer struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string) *Signer {
	return &Signer{secret: []byte(secret), ttl: 24 * time.Hour}
}

// Sign issues an HS256 token carrying the user id in the "sub" claim.
func (s *Signer) Sign(userID string) (string, error) {
	claims := jw.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.ttl).Unix(),
	}
	return jw.NewWithClaims(jw.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates an HS256 token and returns the user id from the "sub" claim.
func (s *Signer) Parse(tok string) (string, error) {
	t, err := jw.Parse(tok, func(t *jw.Token) (any, error) {
		if _, ok := t.Method.(*jw.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !t.Valid {
		return "", errors.New("invalid token")
	}
	mc, ok := t.Claims.(jw.MapClaims)
	if !ok {
		return "", errors.New("bad claims")
	}
	uid, _ := mc["sub"].(string)
	if uid == "" {
		return "", errors.New("no subject")
	}
	return uid, nil
}
