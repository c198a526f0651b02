package transcript

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var quoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"′", "'", "‹", "'", "›", "'", "`", "'",
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	"″", `"`, "«", `"`, "»", `"`,
)

// Tags that end a line of text; their boundaries become whitespace so words
// on either side do not run together.
var breakingTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "th": true, "blockquote": true, "pre": true, "img": true,
}

// CleanBody strips markup from a message body, decodes entities, maps
// typographic quotes to ASCII and collapses whitespace.
func CleanBody(raw string) string {
	if raw == "" {
		return ""
	}

	text := stripTags(raw)
	text = quoteReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

func stripTags(raw string) string {
	var b strings.Builder
	skip := 0

	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return b.String()
			}
			return raw
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
				continue
			}
			if breakingTags[tag] {
				b.WriteByte(' ')
			}
		}
	}
}
