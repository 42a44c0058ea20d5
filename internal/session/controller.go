// Package session owns the disposable mailbox for one run of the program:
// provisioning it, listing and opening its messages, and tearing it down.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/nhle/tempmail/internal/credential"
	"github.com/nhle/tempmail/internal/model"
	"github.com/nhle/tempmail/internal/provider"
	"github.com/nhle/tempmail/internal/render"
)

// ErrUnknownMessage is returned when an id is not in the current list.
var ErrUnknownMessage = errors.New("message not in current list")

// Provider is the subset of the provider API the controller drives.
type Provider interface {
	FirstDomain(ctx context.Context) (string, error)
	CreateAccount(ctx context.Context, creds provider.Credentials) (*model.Account, error)
	Token(ctx context.Context, creds provider.Credentials) (string, error)
	Me(ctx context.Context, token string) (*model.Account, error)
	DeleteAccount(ctx context.Context, token, accountID string) error
	Messages(ctx context.Context, token string) ([]model.MessageSummary, error)
	Message(ctx context.Context, token, id string) (*model.MessageDetail, error)
	DeleteMessage(ctx context.Context, token, id string) error
	Source(ctx context.Context, token, id string) (string, error)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// ClipboardFunc adapts a function to the Clipboard interface.
type ClipboardFunc func(text string) error

// WriteAll calls f(text).
func (f ClipboardFunc) WriteAll(text string) error {
	return f(text)
}

// SystemClipboard writes to the OS clipboard.
var SystemClipboard Clipboard = ClipboardFunc(clipboard.WriteAll)

// Option configures a Controller.
type Option func(*Controller)

// WithGenerator replaces the credential generator.
func WithGenerator(g Generator) Option {
	return func(c *Controller) {
		c.generate = g
	}
}

// WithClipboard replaces the clipboard.
func WithClipboard(cb Clipboard) Option {
	return func(c *Controller) {
		c.clipboard = cb
	}
}

// WithVault replaces the credential vault.
func WithVault(v *credential.Vault) Option {
	return func(c *Controller) {
		c.vault = v
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// Controller is the session controller. It is safe for concurrent use:
// provider calls are serialized, so operations never interleave their
// state updates, and Snapshot may be called at any time.
type Controller struct {
	provider  Provider
	vault     *credential.Vault
	clipboard Clipboard
	generate  Generator
	log       *zap.Logger

	// opMu serializes provider operations.
	opMu sync.Mutex

	mu      sync.RWMutex
	state   State
	pending map[Op]int
}

// New creates a controller with no mailbox.
func New(p Provider, opts ...Option) *Controller {
	c := &Controller{
		provider:  p,
		vault:     credential.NewSessionVault(),
		clipboard: SystemClipboard,
		generate:  RandomCredentials,
		log:       zap.NewNop(),
		pending:   make(map[Op]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state, including the mailbox
// secrets held in the vault.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.state.clone()
	s.Mailbox.Token = c.secretLocked(credential.KeyToken)
	s.Mailbox.Password = c.secretLocked(credential.KeyPassword)
	return s
}

// HasMailbox reports whether a token is held.
func (c *Controller) HasMailbox() bool {
	return c.token() != ""
}

func (c *Controller) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.secretLocked(credential.KeyToken)
}

// secretLocked reads from the vault. The caller must hold mu; the vault
// itself is not synchronized.
func (c *Controller) secretLocked(key string) string {
	v, err := c.vault.Get(key)
	if err != nil {
		if !errors.Is(err, credential.ErrNotFound) {
			c.log.Warn("reading credential", zap.String("key", key), zap.Error(err))
		}
		return ""
	}
	return v
}

// begin marks op in flight and clears the last error. The returned
// function ends the operation: a non-empty msg becomes the surfaced error
// and the result is an *Error wrapping cause.
func (c *Controller) begin(op Op) func(msg string, cause error) error {
	c.mu.Lock()
	c.pending[op]++
	c.state.Error = ""
	c.state.Loading = true
	c.state.InFlight = sortedOps(c.pending)
	c.mu.Unlock()

	return func(msg string, cause error) error {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.pending[op]--
		if c.pending[op] <= 0 {
			delete(c.pending, op)
		}
		c.state.InFlight = sortedOps(c.pending)
		c.state.Loading = len(c.state.InFlight) > 0

		if msg == "" {
			return nil
		}

		c.state.Error = msg
		c.log.Warn("operation failed",
			zap.String("op", string(op)),
			zap.String("account_id", c.state.Mailbox.AccountID),
			zap.Error(cause),
		)
		return &Error{Op: op, Message: msg, Err: cause}
	}
}

// EnsureMailbox provisions a mailbox when none is held and then fetches
// its messages. It is the single startup entry point.
func (c *Controller) EnsureMailbox(ctx context.Context) error {
	if err := c.Provision(ctx); err != nil {
		return err
	}
	return c.FetchMessages(ctx)
}

// Provision creates a new mailbox: first domain, random credentials,
// account creation, token. It is a no-op while a token is held. The
// mailbox becomes visible only once every step has succeeded.
func (c *Controller) Provision(ctx context.Context) error {
	if c.HasMailbox() {
		return nil
	}

	done := c.begin(OpProvision)
	c.opMu.Lock()
	defer c.opMu.Unlock()

	// Another caller may have provisioned while we waited.
	if c.HasMailbox() {
		return done("", nil)
	}

	domain, err := c.provider.FirstDomain(ctx)
	if err != nil {
		return done(MsgCreateAccount, fmt.Errorf("choosing domain: %w", err))
	}

	local, password, err := c.generate()
	if err != nil {
		return done(MsgCreateAccount, err)
	}

	creds := provider.Credentials{
		Address:  local + "@" + domain,
		Password: password,
	}

	account, err := c.provider.CreateAccount(ctx, creds)
	if err != nil {
		return done(MsgCreateAccount, err)
	}

	token, err := c.provider.Token(ctx, creds)
	if err != nil {
		c.log.Warn("account created without token",
			zap.String("account_id", account.ID),
			zap.String("address", creds.Address),
		)
		return done(MsgGetToken, err)
	}

	address := account.Address
	if address == "" {
		address = creds.Address
	}

	c.mu.Lock()
	if err := c.storeSecretsLocked(creds.Password, token); err != nil {
		c.mu.Unlock()
		return done(MsgGetToken, err)
	}
	c.state.Mailbox = model.Mailbox{Address: address, AccountID: account.ID}
	c.state.Account = account
	c.state.Messages = nil
	c.state.Viewed = nil
	c.mu.Unlock()

	c.log.Info("mailbox provisioned",
		zap.String("account_id", account.ID),
		zap.String("address", address),
	)
	return done("", nil)
}

// FetchMessages replaces the message list with the provider's. Without a
// token it does nothing and issues no request. On failure the previous
// list stays.
func (c *Controller) FetchMessages(ctx context.Context) error {
	if !c.HasMailbox() {
		return nil
	}

	done := c.begin(OpFetch)
	c.opMu.Lock()
	defer c.opMu.Unlock()

	token := c.token()
	if token == "" {
		return done("", nil)
	}

	msgs, err := c.provider.Messages(ctx, token)
	if err != nil {
		return done(MsgFetchMessages, err)
	}

	c.mu.Lock()
	c.state.Messages = msgs
	c.mu.Unlock()

	c.log.Debug("messages fetched", zap.Int("count", len(msgs)))
	return done("", nil)
}

// ViewMessage fetches the full message and makes it the viewed item. The
// id must belong to the current list. On failure the viewed item is left
// unchanged.
func (c *Controller) ViewMessage(ctx context.Context, id string) error {
	if !c.HasMailbox() {
		return nil
	}

	done := c.begin(OpView)
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if !c.inList(id) {
		return done(MsgFetchEmail, fmt.Errorf("%w: %s", ErrUnknownMessage, id))
	}

	detail, err := c.provider.Message(ctx, c.token(), id)
	if err != nil {
		return done(MsgFetchEmail, err)
	}

	c.mu.Lock()
	c.state.Viewed = detail
	c.mu.Unlock()

	return done("", nil)
}

// DismissMessage clears the viewed item.
func (c *Controller) DismissMessage() {
	c.mu.Lock()
	c.state.Viewed = nil
	c.mu.Unlock()
}

// DeleteMailbox deletes the account and resets the session. On failure
// nothing changes.
func (c *Controller) DeleteMailbox(ctx context.Context) error {
	if !c.HasMailbox() {
		return nil
	}

	done := c.begin(OpDeleteMailbox)
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.RLock()
	accountID := c.state.Mailbox.AccountID
	c.mu.RUnlock()

	err := c.provider.DeleteAccount(ctx, c.token(), accountID)
	if err != nil {
		return done(MsgDeleteAccount, err)
	}

	// Secrets and state go together under the state lock so Snapshot
	// never observes a half-reset mailbox.
	c.mu.Lock()
	clearErr := c.vault.Clear()
	c.state.Mailbox = model.Mailbox{}
	c.state.Account = nil
	c.state.Messages = nil
	c.state.Viewed = nil
	c.mu.Unlock()

	if clearErr != nil {
		c.log.Error("clearing credentials", zap.Error(clearErr))
	}

	c.log.Info("mailbox deleted", zap.String("account_id", accountID))
	return done("", nil)
}

// DeleteMessage deletes one message and drops it from the list.
func (c *Controller) DeleteMessage(ctx context.Context, id string) error {
	if !c.HasMailbox() {
		return nil
	}

	done := c.begin(OpDeleteMessage)
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.provider.DeleteMessage(ctx, c.token(), id); err != nil {
		return done(MsgDeleteEmail, err)
	}

	c.mu.Lock()
	kept := c.state.Messages[:0:0]
	for _, m := range c.state.Messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	c.state.Messages = kept
	if c.state.Viewed != nil && c.state.Viewed.ID == id {
		c.state.Viewed = nil
	}
	c.mu.Unlock()

	return done("", nil)
}

// MessageSource fetches and parses the raw source of a message.
func (c *Controller) MessageSource(ctx context.Context, id string) (*model.MessageSource, error) {
	if !c.HasMailbox() {
		return nil, nil
	}

	done := c.begin(OpSource)
	c.opMu.Lock()
	defer c.opMu.Unlock()

	raw, err := c.provider.Source(ctx, c.token(), id)
	if err != nil {
		return nil, done(MsgFetchSource, err)
	}

	return render.ParseSource(id, raw), done("", nil)
}

// AccountInfo refreshes quota and usage for the live account.
func (c *Controller) AccountInfo(ctx context.Context) error {
	if !c.HasMailbox() {
		return nil
	}

	done := c.begin(OpAccount)
	c.opMu.Lock()
	defer c.opMu.Unlock()

	account, err := c.provider.Me(ctx, c.token())
	if err != nil {
		return done(MsgFetchAccount, err)
	}

	c.mu.Lock()
	c.state.Account = account
	c.mu.Unlock()

	return done("", nil)
}

// CopyAddress copies the mailbox address to the clipboard. Failures are
// logged and returned but never surfaced in the session status.
func (c *Controller) CopyAddress() error {
	c.mu.RLock()
	address := c.state.Mailbox.Address
	c.mu.RUnlock()

	if address == "" {
		return nil
	}

	if err := c.clipboard.WriteAll(address); err != nil {
		c.log.Debug("copy to clipboard failed", zap.Error(err))
		return fmt.Errorf("copying address: %w", err)
	}
	return nil
}

// storeSecretsLocked writes password and token to the vault, leaving it
// empty if either write fails. The caller must hold mu.
func (c *Controller) storeSecretsLocked(password, token string) error {
	if err := c.vault.Set(credential.KeyPassword, password); err != nil {
		return err
	}
	if err := c.vault.Set(credential.KeyToken, token); err != nil {
		if clearErr := c.vault.Clear(); clearErr != nil {
			c.log.Error("clearing credentials", zap.Error(clearErr))
		}
		return err
	}
	return nil
}

func (c *Controller) inList(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.state.Messages {
		if m.ID == id {
			return true
		}
	}
	return false
}
