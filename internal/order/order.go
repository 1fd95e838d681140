// Package order turns cart contents into the booking transcript and the
// mail-compose request handed to the customer's mail client.
package order

import (
	"fmt"
	"net/url"
	"strings"

	"keycraftcaps.com/keycraft-web/internal/cart"
)

// Subject is the fixed subject line of booking emails.
const Subject = "New Keycap Customization Booking"

const crlf = "\r\n"

// Summary is the derived view of a cart. It is never stored.
type Summary struct {
	Lines    []string
	Subtotal int64
}

// Text joins the transcript lines with newlines.
func (s Summary) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Format builds the numbered transcript and subtotal for items.
func Format(items []cart.LineItem) Summary {
	lines := make([]string, 0, len(items))
	for i, it := range items {
		lines = append(lines, SummaryLine(i+1, it))
	}
	return Summary{Lines: lines, Subtotal: cart.Subtotal(items)}
}

// SummaryLine renders one transcript entry. An empty artisan icon stays empty.
func SummaryLine(n int, it cart.LineItem) string {
	return fmt.Sprintf("%d. %s | Qty: %d | Theme: %s | Legends: %s | Icon: %s",
		n, it.ProductName, it.Quantity, it.ColorTheme, it.LegendText, it.ArtisanIcon)
}

// DisplayIcon is the on-screen policy for the artisan icon.
func DisplayIcon(icon string) string {
	if icon == "" {
		return "N/A"
	}
	return icon
}

// MailRequest is a ready-to-open booking draft.
type MailRequest struct {
	Recipient string
	Subject   string
	Body      string
}

// URI renders the draft as a mailto: link. Subject and body are fully
// percent-encoded so the draft survives any mail handler.
func (m MailRequest) URI() string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(url.PathEscape(m.Recipient))
	b.WriteString("?subject=")
	b.WriteString(EncodeComponent(m.Subject))
	b.WriteString("&body=")
	b.WriteString(EncodeComponent(m.Body))
	return b.String()
}

// EncodeComponent percent-encodes s for a URI query value, using %20 for
// spaces rather than '+'.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Composer builds booking drafts for a shop.
type Composer struct {
	ShopName       string
	Recipient      string
	CurrencySymbol string
}

// NewComposer returns a composer with the KeyCraft defaults for empty fields.
func NewComposer(shopName, recipient string) Composer {
	if shopName == "" {
		shopName = "KeyCraft"
	}
	return Composer{ShopName: shopName, Recipient: recipient, CurrencySymbol: "$"}
}

// Compose formats items into a mail request. It has no error conditions;
// callers decide whether an empty cart may be sent.
func (c Composer) Compose(items []cart.LineItem) MailRequest {
	sum := Format(items)
	symbol := c.CurrencySymbol
	if symbol == "" {
		symbol = "$"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s team,%s%s", c.ShopName, crlf, crlf)
	body.WriteString("Please confirm this custom keycap order:" + crlf)
	body.WriteString(strings.Join(sum.Lines, crlf))
	body.WriteString(crlf + crlf)
	fmt.Fprintf(&body, "Total: %s%d", symbol, sum.Subtotal)
	body.WriteString(crlf + crlf)
	body.WriteString("Thank you.")

	return MailRequest{
		Recipient: c.Recipient,
		Subject:   Subject,
		Body:      body.String(),
	}
}

// BuildMailRequest composes a KeyCraft booking draft addressed to ownerEmail.
func BuildMailRequest(ownerEmail string, items []cart.LineItem) MailRequest {
	return NewComposer("", ownerEmail).Compose(items)
}
