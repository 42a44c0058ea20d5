// Package render turns provider message content into text a terminal can
// show. Remote HTML is always sanitized before anything else touches it.
package render

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/nhle/tempmail/internal/model"
)

var policy = bluemonday.UGCPolicy()

var (
	spaceRun     = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankLineRun = regexp.MustCompile(`\n{3,}`)
)

// blockTags break the text flow when opened or closed.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "blockquote": true, "pre": true,
	"hr": true, "section": true, "article": true, "header": true,
	"footer": true,
}

// cellTags are separated from the next cell on the same row.
var cellTags = map[string]bool{"td": true, "th": true}

// Sanitize strips scripts, event handlers and any markup outside the
// user-generated-content allowlist.
func Sanitize(markup string) string {
	return policy.Sanitize(markup)
}

// ToText sanitizes markup and converts it into wrapped-friendly plain
// text. Links keep their target in parentheses.
func ToText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	z := html.NewTokenizer(strings.NewReader(Sanitize(markup)))

	var b strings.Builder
	var href string
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tidy(Clean(b.String()))

		case html.TextToken:
			b.WriteString(spaceRun.ReplaceAllString(string(z.Text()), " "))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if blockTags[tag] {
				b.WriteString("\n")
			}
			switch tag {
			case "li":
				b.WriteString("• ")
			case "hr":
				b.WriteString("────────\n")
			case "a":
				href = ""
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" {
						href = string(val)
					}
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "a" && href != "" {
				b.WriteString(" (" + href + ")")
				href = ""
			}
			if blockTags[tag] {
				b.WriteString("\n")
			}
			if cellTags[tag] {
				b.WriteString(" ")
			}
		}
	}
}

// tidy trims each line and collapses runs of blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = blankLineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Body returns the displayable body of a message: the HTML part if
// present, else the plain text. HTML is sanitized, and converted to text
// unless raw is set. Control sequences never survive.
func Body(d model.MessageDetail, raw bool) string {
	if d.HTML == "" {
		return strings.TrimSpace(Clean(d.Text))
	}
	if raw {
		return Clean(Sanitize(d.HTML))
	}
	return ToText(d.HTML)
}
