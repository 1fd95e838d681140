package testutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses a storefront page or htmx fragment for goquery assertions.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// FieldErrors maps each customization field to the message rendered next
// to it on the product form.
func FieldErrors(doc *goquery.Document) map[string]string {
	out := map[string]string{}
	doc.Find(".field-error[data-field]").Each(func(_ int, s *goquery.Selection) {
		out[s.AttrOr("data-field", "")] = strings.TrimSpace(s.Text())
	})
	return out
}

// LineItemQuantities returns the "Qty: q × $p" line of every cart item on
// the order page, oldest first.
func LineItemQuantities(doc *goquery.Document) []string {
	var out []string
	doc.Find(".line-item .qty").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
