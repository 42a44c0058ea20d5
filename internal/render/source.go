package render

import (
	"errors"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/tempmail/internal/model"
)

// ParseSource parses a raw RFC 5322 message into its header fields, the
// first text body and the attachment file names. Unparseable input is
// returned as its own text body.
func ParseSource(id, raw string) *model.MessageSource {
	src := &model.MessageSource{ID: id, Raw: raw}

	mr, err := mail.CreateReader(strings.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		src.TextBody = Clean(raw)
		return src
	}
	defer mr.Close()

	fields := mr.Header.Fields()
	for fields.Next() {
		value, err := fields.Text()
		if err != nil {
			value = fields.Value()
		}
		src.Headers = append(src.Headers, model.Header{
			Key:   CleanLine(fields.Key()),
			Value: CleanLine(value),
		})
	}

	var htmlBody string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			if contentType == "" {
				contentType = "text/plain"
			}
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}

			switch {
			case strings.HasPrefix(contentType, "text/plain"):
				if src.TextBody == "" {
					src.TextBody = strings.TrimSpace(Clean(string(body)))
				}
			case strings.HasPrefix(contentType, "text/html"):
				if htmlBody == "" {
					htmlBody = string(body)
				}
			}

		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			if filename == "" {
				filename = "(unnamed)"
			}
			src.Attachments = append(src.Attachments, CleanLine(filename))
		}
	}

	if src.TextBody == "" && htmlBody != "" {
		src.TextBody = ToText(htmlBody)
	}

	return src
}

// Header returns the first value of the named header, case-insensitively.
func Header(src *model.MessageSource, key string) string {
	for _, h := range src.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value
		}
	}
	return ""
}
