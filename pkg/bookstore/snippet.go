package bookstore

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSnippetBytes = 512

// responseSnippet trims body for logging. HTML error pages are reduced to their text.
func responseSnippet(body []byte, contentType string) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty>"
	}
	// Express labels JSON as text/html too, so sniff the body rather than the header.
	if strings.HasPrefix(s, "<") && (contentType == "" || strings.Contains(strings.ToLower(contentType), "html")) {
		if text := htmlText(body); text != "" {
			s = text
		}
	}
	if len(s) > maxSnippetBytes {
		return s[:maxSnippetBytes] + "..."
	}
	return s
}

func htmlText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("body").Text()), " ")
}
