package model

import "time"

// Mailbox is the provisioned disposable email identity. The zero value
// means no mailbox is live.
type Mailbox struct {
	// Address is the full email address (local@domain).
	Address string `json:"address"`

	// Password is the generated account password. It is written once at
	// provisioning time and never changed.
	Password string `json:"-"`

	// AccountID is the provider's identifier for the account.
	AccountID string `json:"account_id"`

	// Token is the bearer credential for authenticated calls.
	Token string `json:"-"`
}

// Active reports whether the mailbox holds a token.
func (m Mailbox) Active() bool {
	return m.Token != ""
}

// Account describes quota and usage of the live account.
type Account struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Quota     int64     `json:"quota"`
	Used      int64     `json:"used"`
	Disabled  bool      `json:"is_disabled"`
	CreatedAt time.Time `json:"created_at"`
}
