package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nhle/tempmail/internal/model"
)

// Domains returns the domains on which accounts can be created, in the
// order the provider lists them.
func (c *Client) Domains(ctx context.Context) ([]Domain, error) {
	var resp collection[Domain]
	if err := c.do(ctx, http.MethodGet, "/domains", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}
	return resp.Members, nil
}

// FirstDomain returns the first listed domain name, or ErrNoDomains when
// the list is empty.
func (c *Client) FirstDomain(ctx context.Context) (string, error) {
	domains, err := c.Domains(ctx)
	if err != nil {
		return "", err
	}
	if len(domains) == 0 {
		return "", ErrNoDomains
	}
	return domains[0].Domain, nil
}

// CreateAccount registers a new account with the given credentials.
func (c *Client) CreateAccount(
	ctx context.Context,
	creds Credentials,
) (*model.Account, error) {
	var resp accountResponse
	if err := c.do(ctx, http.MethodPost, "/accounts", "", creds, &resp); err != nil {
		return nil, fmt.Errorf("creating account %s: %w", creds.Address, err)
	}
	return resp.toModel(), nil
}

// Token exchanges credentials for a bearer token.
func (c *Client) Token(ctx context.Context, creds Credentials) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/token", "", creds, &resp); err != nil {
		return "", fmt.Errorf("requesting token for %s: %w", creds.Address, err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("requesting token for %s: empty token", creds.Address)
	}
	return resp.Token, nil
}

// Me returns the account the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*model.Account, error) {
	var resp accountResponse
	if err := c.do(ctx, http.MethodGet, "/me", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching account: %w", err)
	}
	return resp.toModel(), nil
}

// DeleteAccount deletes the account with the given id.
func (c *Client) DeleteAccount(ctx context.Context, token, accountID string) error {
	path := "/accounts/" + url.PathEscape(accountID)
	if err := c.do(ctx, http.MethodDelete, path, token, nil, nil); err != nil {
		return fmt.Errorf("deleting account %s: %w", accountID, err)
	}
	return nil
}

// Messages lists message summaries in the order the provider returns them.
func (c *Client) Messages(
	ctx context.Context,
	token string,
) ([]model.MessageSummary, error) {
	var resp collection[messageResponse]
	if err := c.do(ctx, http.MethodGet, "/messages", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	out := make([]model.MessageSummary, 0, len(resp.Members))
	for _, m := range resp.Members {
		out = append(out, m.toSummary())
	}
	return out, nil
}

// Message fetches the full message with the given id.
func (c *Client) Message(
	ctx context.Context,
	token, id string,
) (*model.MessageDetail, error) {
	var resp messageResponse
	path := "/messages/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching message %s: %w", id, err)
	}
	return resp.toDetail(), nil
}

// DeleteMessage deletes a single message.
func (c *Client) DeleteMessage(ctx context.Context, token, id string) error {
	path := "/messages/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, path, token, nil, nil); err != nil {
		return fmt.Errorf("deleting message %s: %w", id, err)
	}
	return nil
}

// Source fetches the raw RFC 5322 source of a message.
func (c *Client) Source(ctx context.Context, token, id string) (string, error) {
	var resp sourceResponse
	path := "/sources/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return "", fmt.Errorf("fetching source %s: %w", id, err)
	}
	return resp.Data, nil
}
