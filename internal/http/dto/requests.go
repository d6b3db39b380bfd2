package dto

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	IsBanned *bool   `json:"is_banned"`
}

type CreateSubscriptionRequest struct {
	UserID  int64  `json:"user_id"`
	Product string `json:"product"`
	Plan    string `json:"plan"`
}

type UpdateSubscriptionRequest struct {
	Product *string `json:"product"`
	Plan    *string `json:"plan"`
}

type CreateWalletRequest struct {
	SubscriptionID int64  `json:"subscription_id"`
	UserID         int64  `json:"user_id"`
	Address        string `json:"address"`
	Mnemonics      string `json:"mnemonics"`
	PublicKey      string `json:"public_key"`
	PrivateKey     string `json:"private_key"`
	TonAPIKey      string `json:"ton_api_key"`
	Workchain      *int   `json:"workchain"`
	Version        string `json:"version"`
}

type UpdateWalletRequest struct {
	Address    *string `json:"address"`
	Mnemonics  *string `json:"mnemonics"`
	PublicKey  *string `json:"public_key"`
	PrivateKey *string `json:"private_key"`
	TonAPIKey  *string `json:"ton_api_key"`
	Workchain  *int    `json:"workchain"`
	Version    *string `json:"version"`
}

type CreateSessionRequest struct {
	UserID            int64   `json:"user_id"`
	FragmentHash      string  `json:"fragment_hash"`
	FragmentPublicKey string  `json:"fragment_public_key"`
	FragmentWallets   string  `json:"fragment_wallets"`
	FragmentAddress   string  `json:"fragment_address"`
	StelSSID          string  `json:"stel_ssid"`
	StelDT            string  `json:"stel_dt"`
	StelTonToken      string  `json:"stel_ton_token"`
	StelToken         string  `json:"stel_token"`
	CfClearance       *string `json:"cf_clearance"`
}

type UpdateSessionRequest struct {
	FragmentHash      *string `json:"fragment_hash"`
	FragmentPublicKey *string `json:"fragment_public_key"`
	FragmentWallets   *string `json:"fragment_wallets"`
	FragmentAddress   *string `json:"fragment_address"`
	StelSSID          *string `json:"stel_ssid"`
	StelDT            *string `json:"stel_dt"`
	StelTonToken      *string `json:"stel_ton_token"`
	StelToken         *string `json:"stel_token"`
	CfClearance       *string `json:"cf_clearance"`
	IsActive          *bool   `json:"is_active"`
}
