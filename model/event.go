package model

import (
	"time"
)

type Event struct {
	EventID         string     `json:"event_id,omitempty"`
	Name            string     `json:"name,omitempty"`
	Description     string     `json:"description,omitempty"`
	Type            string     `json:"type,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	ContractAddress string     `json:"contract_address,omitempty"`
	TicketPrice     float64    `json:"ticket_price,omitempty"`
	PromoterID      string     `json:"promoter_id,omitempty"`

	Sales []string `json:"sales,omitempty"`
}

type EventCreation struct {
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	Type               string     `json:"type"`
	Date               *time.Time `json:"date"`
	TicketPrice        float64    `json:"ticket_price"`
	UserWalletPassword string     `json:"user_wallet_password"`
}

type WalletRequest struct {
	UserWalletPassword string `json:"user_wallet_password"`
}

type EventBalance struct {
	Ether string `json:"ether"`
	Gwei  string `json:"gwei"`
	Mwei  string `json:"mwei"`
}
