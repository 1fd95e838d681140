package storefront

import "keycraftcaps.com/keycraft-web/internal/catalog"

// View is one of the three storefront screens.
type View string

const (
	ViewHome    View = "home"
	ViewProduct View = "product"
	ViewOrder   View = "order"
)

// Views lists the screens in tab order.
var Views = []View{ViewHome, ViewProduct, ViewOrder}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewProduct, ViewOrder:
		return true
	default:
		return false
	}
}

// ParseView maps a string to a View.
func ParseView(s string) (View, bool) {
	v := View(s)
	return v, v.Valid()
}

// Navigation tracks the active view, selected product and hero slide.
type Navigation struct {
	View              View
	SelectedProductID string
	SlideIndex        int
}

// NewNavigation returns the start state: home, first product, first slide.
func NewNavigation(c *catalog.Catalog) Navigation {
	return Navigation{
		View:              ViewHome,
		SelectedProductID: c.First().ID,
	}
}

// GoTo switches to v. Unknown views are ignored.
func (n *Navigation) GoTo(v View) bool {
	if !v.Valid() {
		return false
	}
	n.View = v
	return true
}

// SelectProduct selects id and opens the product view. Ids missing from the
// catalog leave the navigation unchanged.
func (n *Navigation) SelectProduct(c *catalog.Catalog, id string) bool {
	if !c.Contains(id) {
		return false
	}
	n.SelectedProductID = id
	n.View = ViewProduct
	return true
}

// SetSlide moves the carousel to index, clamped into [0, count-1].
func (n *Navigation) SetSlide(index, count int) {
	if count <= 0 {
		n.SlideIndex = 0
		return
	}
	switch {
	case index < 0:
		index = 0
	case index >= count:
		index = count - 1
	}
	n.SlideIndex = index
}
