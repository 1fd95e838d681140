package templates

import (
	"errors"
	"strconv"
	"time"

	"keycraftcaps.com/keycraft-web/internal/cart"
	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/nav"
	"keycraftcaps.com/keycraft-web/internal/seo"
	"keycraftcaps.com/keycraft-web/internal/storefront"
)

// PageData is the view model shared by every page.
type PageData struct {
	Meta      seo.Meta
	Shop      catalog.Shop
	Nav       []nav.RenderedItem
	Crumbs    []nav.Crumb
	Snapshot  storefront.Snapshot
	CSRFToken string
	Year      int

	// home
	Slide          catalog.HeroSlide
	Slides         []catalog.HeroSlide
	FirstProductID string
	Products       []catalog.Product
	Testimonials   []catalog.Testimonial
	Reviews        []catalog.Review

	// product
	Form FormState
}

// FormState echoes the customization form back after a failed submit.
type FormState struct {
	ColorTheme  string
	LegendText  string
	ArtisanIcon string
	Quantity    string
	Errors      map[string]string
}

// EmptyForm is the form shown before any input.
func EmptyForm() FormState {
	return FormState{Quantity: "1"}
}

// FormFromCustomization echoes cz with messages for each failed field.
func FormFromCustomization(cz cart.Customization, rawQuantity string, err error) FormState {
	f := FormState{
		ColorTheme:  cz.ColorTheme,
		LegendText:  cz.LegendText,
		ArtisanIcon: cz.ArtisanIcon,
		Quantity:    rawQuantity,
	}
	if f.Quantity == "" {
		f.Quantity = strconv.Itoa(cart.ParseQuantity(""))
	}
	if err == nil {
		return f
	}
	f.Errors = map[string]string{}
	var verr *cart.ValidationError
	if errors.As(err, &verr) {
		if verr.Has(cart.FieldColorTheme) {
			f.Errors[cart.FieldColorTheme] = "Color theme is required."
		}
		if verr.Has(cart.FieldLegendText) {
			f.Errors[cart.FieldLegendText] = "Legend text is required."
		}
		return f
	}
	f.Errors["form"] = err.Error()
	return f
}

// NewPageData assembles the view model for snap.
func NewPageData(c *catalog.Catalog, snap storefront.Snapshot, csrfToken, baseURL string, now time.Time) PageData {
	canonical := nav.PathFor(snap.View)
	var selected *catalog.Product
	if snap.View == storefront.ViewProduct {
		p := snap.SelectedProduct
		selected = &p
		canonical = "/products/" + p.ID
	}
	data := PageData{
		Meta:      seo.ForSnapshot(c, snap, canonical, baseURL),
		Shop:      c.Shop(),
		Nav:       nav.Build(snap.View, snap.CartCount()),
		Crumbs:    nav.Breadcrumbs(snap.View, selected),
		Snapshot:  snap,
		CSRFToken: csrfToken,
		Year:      now.Year(),
		Form:      EmptyForm(),
	}
	if snap.View == storefront.ViewHome {
		data.Slide = c.Slide(snap.SlideIndex)
		data.Slides = c.Slides()
		data.FirstProductID = c.First().ID
		data.Products = c.Products()
		data.Testimonials = c.Testimonials()
		data.Reviews = c.Reviews()
	}
	return data
}
