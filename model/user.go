package model

import (
	"time"
)

const (
	ClaimPromoter = "IsPromoter"
	ClaimStaff    = "IsStaff"

	// ClaimGranted is the conventional value of a role claim.
	ClaimGranted = "1"
)

type User struct {
	UserID        string     `json:"user_id,omitempty"`
	Email         string     `json:"email,omitempty"`
	PasswordHash  string     `json:"-"`
	WalletAddress string     `json:"wallet_address,omitempty"`
	CreatedDate   *time.Time `json:"created_date,omitempty"`

	Claims []Claim `json:"claims,omitempty"`
}

// Claim is a key/value attribute attached to a user, used as a role flag.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// HasClaim reports whether the claim set includes the given claim type.
func (u *User) HasClaim(claimType string) bool {
	for _, c := range u.Claims {
		if c.Type == claimType {
			return true
		}
	}
	return false
}

type UserCredentials struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	WalletAddress string `json:"wallet_address,omitempty"`
}
