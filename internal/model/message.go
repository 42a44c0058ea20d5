package model

import "time"

// Address is a single sender or recipient.
type Address struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// String renders the address as "Name <addr>" or just the address.
func (a Address) String() string {
	if a.Name == "" {
		return a.Address
	}
	return a.Name + " <" + a.Address + ">"
}

// MessageSummary is the lightweight listing entry returned by the
// provider's message list.
type MessageSummary struct {
	ID             string    `json:"id"`
	From           Address   `json:"from"`
	Subject        string    `json:"subject"`
	Intro          string    `json:"intro"`
	Seen           bool      `json:"seen"`
	HasAttachments bool      `json:"has_attachments"`
	Size           int64     `json:"size"`
	CreatedAt      time.Time `json:"created_at"`
}

// Attachment holds metadata about a message attachment.
type Attachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// MessageDetail is the full message fetched on demand.
type MessageDetail struct {
	MessageSummary

	To          []Address    `json:"to"`
	Cc          []Address    `json:"cc"`
	HTML        string       `json:"html"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
}

// Body returns the HTML content if present, else the plain text.
func (d MessageDetail) Body() string {
	if d.HTML != "" {
		return d.HTML
	}
	return d.Text
}

// MessageSource is the raw RFC 5322 text of a message, parsed into the
// parts a terminal can show.
type MessageSource struct {
	ID          string
	Raw         string
	Headers     []Header
	TextBody    string
	Attachments []string
}

// Header is a single header field in source order.
type Header struct {
	Key   string
	Value string
}
