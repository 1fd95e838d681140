// Package format renders prices, ratings and product copy for display.
package format

import (
	"bytes"
	stdhtml "html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxRating is the top of the review scale.
const MaxRating = 5

var printer = message.NewPrinter(language.English)

// Price formats whole currency units with a dollar sign and grouped thousands.
// Example: Price(1290) => "$1,290"
func Price(amount int64) string {
	if amount < 0 {
		return "-$" + printer.Sprintf("%d", -amount)
	}
	return "$" + printer.Sprintf("%d", amount)
}

// Number groups thousands without a currency sign.
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Stars renders rating as filled and empty stars out of MaxRating.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > MaxRating {
		rating = MaxRating
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", MaxRating-rating)
}

var (
	mdOnce sync.Once
	md     goldmark.Markdown
	ugc    *bluemonday.Policy
)

// Markdown converts trusted catalog copy to sanitised HTML. Conversion errors
// fall back to the escaped source.
func Markdown(src string) template.HTML {
	mdOnce.Do(func() {
		md = goldmark.New()
		ugc = bluemonday.UGCPolicy()
	})
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(ugc.SanitizeBytes(buf.Bytes()))
}

// PlainText strips markup from rendered markdown, for meta descriptions and
// terminal output.
func PlainText(src string) string {
	html := string(Markdown(src))
	text := bluemonday.StrictPolicy().Sanitize(html)
	return strings.Join(strings.Fields(stdhtml.UnescapeString(text)), " ")
}
