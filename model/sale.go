package model

import (
	"time"
)

type Sale struct {
	SaleID       string     `json:"sale_id,omitempty"`
	CreationDate *time.Time `json:"creation_date,omitempty"`
	UserID       string     `json:"user_id,omitempty"`
	EventID      string     `json:"event_id,omitempty"`
	Token        int        `json:"token"`
}

type SaleCreation struct {
	EventID                string `json:"event_id"`
	CustomerWalletPassword string `json:"customer_wallet_password"`
}

type Ownership struct {
	SaleID string `json:"sale_id"`
	Owned  bool   `json:"owned"`
}
