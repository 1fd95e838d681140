package nav

import (
	"fmt"
	"strings"

	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/storefront"
)

// Item represents a top-level navigation tab.
type Item struct {
	View  storefront.View
	Path  string
	Label string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	View   storefront.View
	Active bool
}

// Crumb is one breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Main is the primary navigation definition, in display order.
var Main = []Item{
	{View: storefront.ViewHome, Path: "/", Label: "Home"},
	{View: storefront.ViewProduct, Path: "/product", Label: "Product"},
	{View: storefront.ViewOrder, Path: "/order", Label: "Order"},
}

// PathFor returns the canonical path of v. Unknown views map to "/".
func PathFor(v storefront.View) string {
	for _, it := range Main {
		if it.View == v {
			return it.Path
		}
	}
	return "/"
}

// ViewFor maps a request path back to its tab.
func ViewFor(p string) (storefront.View, bool) {
	if p == "" {
		p = "/"
	}
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	for _, it := range Main {
		if it.Path == p {
			return it.View, true
		}
	}
	return "", false
}

// Build renders the tabs with the active flag set and the cart count
// appended to the order label.
func Build(active storefront.View, cartCount int) []RenderedItem {
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		label := it.Label
		if it.View == storefront.ViewOrder {
			label = fmt.Sprintf("%s (%d)", it.Label, cartCount)
		}
		items = append(items, RenderedItem{
			Href:   it.Path,
			Label:  label,
			View:   it.View,
			Active: it.View == active,
		})
	}
	return items
}

// Breadcrumbs builds the trail for the active view. The product view
// includes the selected product when one is given.
func Breadcrumbs(active storefront.View, selected *catalog.Product) []Crumb {
	crumbs := []Crumb{{Href: "/", Label: "Home", Active: active == storefront.ViewHome}}
	switch active {
	case storefront.ViewProduct:
		if selected == nil {
			crumbs = append(crumbs, Crumb{Href: "/product", Label: "Product", Active: true})
			break
		}
		crumbs = append(crumbs,
			Crumb{Href: "/product", Label: "Product"},
			Crumb{Href: "/products/" + selected.ID, Label: selected.Name, Active: true},
		)
	case storefront.ViewOrder:
		crumbs = append(crumbs, Crumb{Href: "/order", Label: "Order", Active: true})
	}
	return crumbs
}
