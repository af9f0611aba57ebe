package domain

import (
	"strings"
	"time"
)

// Identity is the authenticated operator record held by a session.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Valid reports whether the identity carries the fields a session needs.
func (i Identity) Valid() bool {
	return strings.TrimSpace(i.ID) != "" && strings.TrimSpace(i.Email) != ""
}

// ProviderSession is what an identity provider hands back on sign-in.
// Token is opaque to the console; it is only passed back to the same provider.
type ProviderSession struct {
	Identity  Identity
	Token     string
	ExpiresAt time.Time
}

// ClientSession maps a browser cookie to the provider credential that backs it.
type ClientSession struct {
	ID            string    `json:"id"`
	ProviderToken string    `json:"provider_token"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its absolute expiry.
func (c ClientSession) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// NormalizeEmail lower-cases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registration is a validated sign-up request forwarded to an identity provider.
type Registration struct {
	Email       string
	Password    string
	DisplayName string
}

// VerifyEmailMessage asks for a verification link to be delivered to an operator.
type VerifyEmailMessage struct {
	OperatorID  string `json:"operator_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	URL         string `json:"url"`
}
