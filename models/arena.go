package models

import "time"

// Arena is one sports facility running tournaments on the platform.
type Arena struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	OwnerID string  `json:"owner_id"`
	Phone   *string `json:"phone,omitempty"`

	// Per-arena payment gateway credentials. The platform-level gateway account
	// is configured separately; both must be present for real billing.
	// Handlers strip these before responding.
	GatewayAPIKey   *string `json:"gateway_api_key,omitempty"`
	GatewayWalletID *string `json:"gateway_wallet_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasGatewayCredentials reports whether the arena supplied its own gateway key.
func (a *Arena) HasGatewayCredentials() bool {
	return a != nil && a.GatewayAPIKey != nil && *a.GatewayAPIKey != ""
}

func (a *Arena) APIKey() string {
	if a == nil || a.GatewayAPIKey == nil {
		return ""
	}
	return *a.GatewayAPIKey
}
