package seo

import (
	"html/template"

	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/format"
	"keycraftcaps.com/keycraft-web/internal/storefront"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	JSONLD      []template.JS
}

// ForSnapshot builds page metadata for the active view. baseURL may be empty,
// in which case canonical links are left relative.
func ForSnapshot(c *catalog.Catalog, snap storefront.Snapshot, canonicalPath, baseURL string) Meta {
	shop := c.Shop()
	org := Organization(shop.Name, baseURL, "")
	canonical := baseURL + canonicalPath

	switch snap.View {
	case storefront.ViewProduct:
		p := snap.SelectedProduct
		desc := format.PlainText(p.Description)
		return Meta{
			Title:       p.Name + " | " + shop.Name,
			Description: desc,
			Canonical:   canonical,
			OG:          OpenGraph{Title: p.Name, Description: desc, Image: p.Image, Type: "product"},
			JSONLD: []template.JS{
				JSON(Product(p, canonical, c.Reviews())),
				JSON(org),
			},
		}
	case storefront.ViewOrder:
		return Meta{
			Title:       "Your order | " + shop.Name,
			Description: "Review your keycap customizations and send the booking to " + shop.Name + ".",
			Canonical:   canonical,
			OG:          OpenGraph{Title: "Your order", Type: "website"},
			JSONLD:      []template.JS{JSON(org)},
		}
	default:
		slide := c.Slide(snap.SlideIndex)
		return Meta{
			Title:       shop.Name + " | " + slide.Title,
			Description: slide.Subtitle,
			Canonical:   canonical,
			OG:          OpenGraph{Title: shop.Name, Description: slide.Subtitle, Image: slide.Image, Type: "website"},
			JSONLD:      []template.JS{JSON(org)},
		}
	}
}
