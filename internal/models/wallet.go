package models

import "time"

const (
	DefaultWorkchain     = 0
	DefaultWalletVersion = "v4r2"
)

type Wallet struct {
	ID             int64     `json:"id"`
	SubscriptionID int64     `json:"subscription_id"`
	UserID         int64     `json:"user_id"`
	Address        string    `json:"address"`
	Mnemonics      string    `json:"-"`
	PublicKey      string    `json:"public_key"`
	PrivateKey     string    `json:"-"`
	TonAPIKey      string    `json:"-"`
	Workchain      int       `json:"workchain"`
	Version        string    `json:"version"`
	DateCreated    time.Time `json:"date_created"`
}

type WalletUpdate struct {
	Address    *string
	Mnemonics  *string
	PublicKey  *string
	PrivateKey *string
	TonAPIKey  *string
	Workchain  *int
	Version    *string
}

func (u WalletUpdate) Empty() bool {
	return u.Address == nil && u.Mnemonics == nil && u.PublicKey == nil &&
		u.PrivateKey == nil && u.TonAPIKey == nil && u.Workchain == nil && u.Version == nil
}

type WalletStats struct {
	Total     int64            `json:"total"`
	ByUser    map[string]int64 `json:"by_user"`
	ByProduct map[string]int64 `json:"by_product"`
}
