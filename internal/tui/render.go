package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/format"
	"keycraftcaps.com/keycraft-web/internal/nav"
	"keycraftcaps.com/keycraft-web/internal/order"
	"keycraftcaps.com/keycraft-web/internal/storefront"
)

// RenderHeader draws the shop name and the view tabs.
func RenderHeader(st Styles, shop catalog.Shop, snap storefront.Snapshot) string {
	tabs := make([]string, 0, len(nav.Main))
	for _, it := range nav.Build(snap.View, snap.CartCount()) {
		style := st.Tab
		if it.Active {
			style = st.ActiveTab
		}
		tabs = append(tabs, style.Render(it.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, st.Brand.Render(shop.Name), "  ", strings.Join(tabs, ""))
}

// RenderScreen draws the active view below the header.
func RenderScreen(st Styles, c *catalog.Catalog, snap storefront.Snapshot) string {
	var body string
	switch snap.View {
	case storefront.ViewProduct:
		body = RenderProduct(st, snap.SelectedProduct)
	case storefront.ViewOrder:
		body = RenderOrder(st, c.Shop(), snap)
	default:
		body = RenderHome(st, c, snap)
	}
	return lipgloss.JoinVertical(lipgloss.Left, RenderHeader(st, c.Shop(), snap), "", body)
}

// RenderHome draws the hero slide, gallery, testimonials and reviews.
func RenderHome(st Styles, c *catalog.Catalog, snap storefront.Snapshot) string {
	var b strings.Builder

	slide := c.Slide(snap.SlideIndex)
	dots := make([]string, c.SlideCount())
	for i := range dots {
		dots[i] = "○"
		if i == snap.SlideIndex {
			dots[i] = "●"
		}
	}
	b.WriteString(st.Title.Render(slide.Title) + "\n")
	b.WriteString(st.Muted.Render(slide.Subtitle) + "\n")
	b.WriteString(strings.Join(dots, " ") + "\n\n")

	b.WriteString(st.Title.Render("Product Gallery") + "\n")
	cards := make([]string, 0, len(c.Products()))
	for _, p := range c.Products() {
		cards = append(cards, st.Card.Render(fmt.Sprintf("%s\n%s\n%s",
			p.Name, st.Muted.Render(p.Profile+" · "+p.Material), st.Price.Render(format.Price(p.Price)))))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n\n")

	for _, t := range c.Testimonials() {
		fmt.Fprintf(&b, "“%s”\n  %s\n", t.Quote, st.Muted.Render(t.Name+" · "+t.Role))
	}
	b.WriteString("\n" + st.Title.Render("Latest Reviews") + "\n")
	for _, r := range c.Reviews() {
		fmt.Fprintf(&b, "%s %s · %s\n", st.Stars.Render(format.Stars(r.Rating)), r.Title, st.Muted.Render(r.Author))
	}
	return b.String()
}

// RenderProduct draws the product detail card.
func RenderProduct(st Styles, p catalog.Product) string {
	lines := []string{
		st.Title.Render(p.Name),
		format.PlainText(p.Description),
		st.Muted.Render(fmt.Sprintf("Profile: %s · Material: %s", p.Profile, p.Material)),
		st.Price.Render(format.Price(p.Price)),
	}
	return st.Card.Render(strings.Join(lines, "\n"))
}

// RenderOrder draws the line items, subtotal and payment details.
func RenderOrder(st Styles, shop catalog.Shop, snap storefront.Snapshot) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Book Your Order") + "\n")
	if len(snap.Items) == 0 {
		b.WriteString(st.Muted.Render("No customizations added yet. Go to Product page first.") + "\n")
	} else {
		for _, it := range snap.Items {
			b.WriteString(st.Card.Render(strings.Join([]string{
				it.ProductName,
				"Theme: " + it.ColorTheme,
				"Legends: " + it.LegendText,
				"Icon: " + order.DisplayIcon(it.ArtisanIcon),
				fmt.Sprintf("Qty: %d × %s", it.Quantity, format.Price(it.UnitPrice)),
			}, "\n")) + "\n")
		}
		b.WriteString(st.Price.Render("Subtotal: "+format.Price(snap.Subtotal)) + "\n")
	}
	b.WriteString("\n" + st.Title.Render("Scan to Pay") + "\n")
	b.WriteString("Use any UPI/Wallet app to scan and pay.\n")
	b.WriteString(st.Muted.Render(shop.PaymentQR) + "\n")
	b.WriteString(st.Muted.Render("Owner Email: "+shop.OwnerEmail) + "\n")
	return b.String()
}
