package model

import (
	"time"
)

type Auth struct {
	Token          string     `json:"token,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}
