package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/tempmail/internal/model"
)

// Credentials is the address/password pair used for account creation
// and token requests.
type Credentials struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

// Domain is a single entry from GET /domains.
type Domain struct {
	ID        string `json:"id"`
	Domain    string `json:"domain"`
	IsActive  bool   `json:"isActive"`
	IsPrivate bool   `json:"isPrivate"`
}

// collection decodes list endpoints. The provider answers with a JSON-LD
// object carrying "hydra:member" by default and with a bare array when
// asked for plain JSON; both shapes are accepted.
type collection[T any] struct {
	Members []T
}

func (c *collection[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &c.Members)
	}

	var ld struct {
		Members []T `json:"hydra:member"`
	}
	if err := json.Unmarshal(data, &ld); err != nil {
		return err
	}
	c.Members = ld.Members
	return nil
}

// accountResponse is the account object from POST /accounts and GET /me.
type accountResponse struct {
	ID         string    `json:"id"`
	Address    string    `json:"address"`
	Quota      int64     `json:"quota"`
	Used       int64     `json:"used"`
	IsDisabled bool      `json:"isDisabled"`
	IsDeleted  bool      `json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (a accountResponse) toModel() *model.Account {
	return &model.Account{
		ID:        a.ID,
		Address:   a.Address,
		Quota:     a.Quota,
		Used:      a.Used,
		Disabled:  a.IsDisabled,
		CreatedAt: a.CreatedAt,
	}
}

// tokenResponse is the response from POST /token.
type tokenResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

type addressResponse struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

func (a addressResponse) toModel() model.Address {
	return model.Address{Address: a.Address, Name: a.Name}
}

func addressesToModel(in []addressResponse) []model.Address {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.Address, len(in))
	for i, a := range in {
		out[i] = a.toModel()
	}
	return out
}

// messageResponse covers both list entries and the full message.
type messageResponse struct {
	ID             string               `json:"id"`
	From           addressResponse      `json:"from"`
	To             []addressResponse    `json:"to"`
	Cc             []addressResponse    `json:"cc"`
	Subject        string               `json:"subject"`
	Intro          string               `json:"intro"`
	Seen           bool                 `json:"seen"`
	HasAttachments bool                 `json:"hasAttachments"`
	Size           int64                `json:"size"`
	CreatedAt      time.Time            `json:"createdAt"`
	Text           string               `json:"text"`
	HTML           htmlParts            `json:"html"`
	Attachments    []attachmentResponse `json:"attachments"`
}

type attachmentResponse struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

func (m messageResponse) toSummary() model.MessageSummary {
	return model.MessageSummary{
		ID:             m.ID,
		From:           m.From.toModel(),
		Subject:        m.Subject,
		Intro:          m.Intro,
		Seen:           m.Seen,
		HasAttachments: m.HasAttachments,
		Size:           m.Size,
		CreatedAt:      m.CreatedAt,
	}
}

func (m messageResponse) toDetail() *model.MessageDetail {
	d := &model.MessageDetail{
		MessageSummary: m.toSummary(),
		To:             addressesToModel(m.To),
		Cc:             addressesToModel(m.Cc),
		HTML:           string(m.HTML),
		Text:           m.Text,
	}
	for _, a := range m.Attachments {
		d.Attachments = append(d.Attachments, model.Attachment{
			ID:          a.ID,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
		})
	}
	return d
}

// htmlParts accepts the html field as either a string or an array of
// strings; array parts are joined with newlines.
type htmlParts string

func (h *htmlParts) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*h = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*h = htmlParts(s)
		return nil
	case data[0] == '[':
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		*h = htmlParts(strings.Join(parts, "\n"))
		return nil
	default:
		return fmt.Errorf("unexpected html value %s", data)
	}
}

// sourceResponse is the response from GET /sources/{id}.
type sourceResponse struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

// errorResponse covers the provider's error shapes: API Platform
// problem documents and plain {code, message} bodies.
type errorResponse struct {
	Title       string `json:"hydra:title"`
	Description string `json:"hydra:description"`
	Detail      string `json:"detail"`
	Message     string `json:"message"`
}

func (e errorResponse) text() string {
	switch {
	case e.Description != "":
		return e.Description
	case e.Detail != "":
		return e.Detail
	case e.Message != "":
		return e.Message
	default:
		return e.Title
	}
}
