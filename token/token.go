package token

import (
	"errors"
	"fmt"
	"time"

	"smarticket-api/model"
	"smarticket-api/repository"

	"github.com/dgrijalva/jwt-go"
)

const validity = time.Hour

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoSigningKey = errors.New("signing key not configured")
)

// Issuer signs time-limited bearer tokens. The claim set is re-read from the
// store on every issue, so role changes only show up on the next login or
// renew.
type Issuer struct {
	users  repository.UserRepository
	secret string
}

func NewIssuer(users repository.UserRepository, secret string) *Issuer {
	return &Issuer{users: users, secret: secret}
}

func (i *Issuer) Issue(email string) (*model.Auth, error) {
	if i.secret == "" {
		return nil, fmt.Errorf("issue: %w", ErrNoSigningKey)
	}

	user, found, err := i.users.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("issue: error looking up user %s: %w", email, err)
	}
	if !found {
		return nil, fmt.Errorf("issue: could not find user with email %s: %w", email, ErrUserNotFound)
	}

	expiration := time.Now().UTC().Add(validity)

	claims := jwt.MapClaims{
		"email": email,
		"exp":   expiration.Unix(),
	}
	for _, c := range user.Claims {
		claims[c.Type] = c.Value
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.secret))
	if err != nil {
		return nil, fmt.Errorf("issue: error signing token: %w", err)
	}

	return &model.Auth{
		Token:          signed,
		ExpirationDate: &expiration,
	}, nil
}

// Verify parses a compact token, checks its signature and expiry, and
// returns the embedded email and claim set.
func Verify(tokenString, secret string) (string, map[string]string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("verify: unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("verify: error parsing token: %w", err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", nil, errors.New("verify: token is not valid")
	}

	email, ok := mapClaims["email"].(string)
	if !ok || email == "" {
		return "", nil, errors.New("verify: token has no email claim")
	}

	claims := make(map[string]string)
	for k, v := range mapClaims {
		if k == "email" || k == "exp" {
			continue
		}
		if s, ok := v.(string); ok {
			claims[k] = s
		}
	}

	return email, claims, nil
}
