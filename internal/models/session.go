package models

import "time"

// FragmentSession is a captured fragment.com session for a user:
// the auth cookies plus the wallet state derived from them. At most one
// session per user is active at any time.
type FragmentSession struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	FragmentHash      string    `json:"fragment_hash"`
	FragmentPublicKey string    `json:"fragment_public_key"`
	FragmentWallets   string    `json:"fragment_wallets"`
	FragmentAddress   string    `json:"fragment_address"`
	StelSSID          string    `json:"-"`
	StelDT            string    `json:"-"`
	StelTonToken      string    `json:"-"`
	StelToken         string    `json:"-"`
	CfClearance       *string   `json:"-"`
	IsActive          bool      `json:"is_active"`
	DateCreated       time.Time `json:"date_created"`
	DateUpdated       time.Time `json:"date_updated"`
}

type FragmentSessionUpdate struct {
	FragmentHash      *string
	FragmentPublicKey *string
	FragmentWallets   *string
	FragmentAddress   *string
	StelSSID          *string
	StelDT            *string
	StelTonToken      *string
	StelToken         *string
	CfClearance       *string
	IsActive          *bool
}

func (u FragmentSessionUpdate) Empty() bool {
	return u.FragmentHash == nil && u.FragmentPublicKey == nil &&
		u.FragmentWallets == nil && u.FragmentAddress == nil &&
		u.StelSSID == nil && u.StelDT == nil && u.StelTonToken == nil &&
		u.StelToken == nil && u.CfClearance == nil && u.IsActive == nil
}

// SessionCookies is the cookie jar needed to replay the captured
// session against fragment.com.
type SessionCookies struct {
	StelSSID     string  `json:"stel_ssid"`
	StelDT       string  `json:"stel_dt"`
	StelTonToken string  `json:"stel_ton_token"`
	StelToken    string  `json:"stel_token"`
	CfClearance  *string `json:"cf_clearance,omitempty"`
}

// SessionWalletView is the wallet-side projection of an active session.
type SessionWalletView struct {
	FragmentHash      string `json:"fragment_hash"`
	FragmentPublicKey string `json:"fragment_public_key"`
	FragmentWallets   string `json:"fragment_wallets"`
	FragmentAddress   string `json:"fragment_address"`
}

type SessionStats struct {
	Total  int64            `json:"total"`
	Active int64            `json:"active"`
	ByUser map[string]int64 `json:"by_user"`
}
