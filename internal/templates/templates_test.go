package templates

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"keycraftcaps.com/keycraft-web/internal/cart"
	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/storefront"
)

var fixedNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func render(t *testing.T, r *Renderer, p Page, data PageData, fragment bool) *goquery.Document {
	t.Helper()
	comp, err := r.Component(p, data, fragment)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, comp.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestHomePage(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)
	c := catalog.MustDefault()
	st := storefront.NewState(c)
	snap := st.SetSlide(1)

	doc := render(t, r, PageHome, NewPageData(c, snap, "tok", "", fixedNow), false)

	require.Equal(t, c.Slide(1).Title, strings.TrimSpace(doc.Find(".hero h1").Text()))
	require.Equal(t, 3, doc.Find(".dots .dot").Length())
	require.True(t, doc.Find(".dots .dot").Eq(1).HasClass("active"))
	require.Equal(t, 3, doc.Find(".product-card").Length())
	require.Equal(t, "$129", doc.Find(`.product-card[data-product-id="retro-wave"] .price`).Text())
	require.Equal(t, "★★★★☆", doc.Find(".review .stars").Last().Text())
	require.Equal(t, "Order (0)", doc.Find(`.tabs a[data-view="order"]`).Text())
	require.True(t, doc.Find(`.tabs a[data-view="home"]`).HasClass("active"))
	require.Equal(t, "tok", doc.Find(`meta[name="csrf-token"]`).AttrOr("content", ""))
	href, _ := doc.Find("#customize-now").Attr("href")
	require.Equal(t, "/products/nebula-mx", href)
	require.Contains(t, doc.Find("footer.site-footer").Text(), "2026")
}

func TestHomeFragmentOmitsLayout(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)
	c := catalog.MustDefault()

	doc := render(t, r, PageHome, NewPageData(c, storefront.NewState(c).Snapshot(), "tok", "", fixedNow), true)
	require.Equal(t, 0, doc.Find("header.site-header").Length())
	require.Equal(t, 1, doc.Find(".hero").Length())
}

func TestProductPageWithErrors(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)
	c := catalog.MustDefault()
	st := storefront.NewState(c)
	snap := st.SelectProduct("minimal-sand")

	cz := cart.Customization{ColorTheme: "Sand", Quantity: 2}
	data := NewPageData(c, snap, "tok", "https://shop.test", fixedNow)
	data.Form = FormFromCustomization(cz, "2", cz.Validate())

	doc := render(t, r, PageProduct, data, false)
	require.Equal(t, "Minimal Sand Pro", doc.Find(".product-detail h3").Text())
	require.Equal(t, "$74", doc.Find(".product-detail .price").Text())
	require.Equal(t, "Sand", doc.Find(`input[name="colorTheme"]`).AttrOr("value", ""))
	require.Equal(t, "2", doc.Find(`input[name="quantity"]`).AttrOr("value", ""))
	require.Equal(t, "999", doc.Find(`input[name="quantity"]`).AttrOr("max", ""))
	require.Equal(t, 1, doc.Find(`.field-error[data-field="legendText"]`).Length())
	require.Equal(t, 0, doc.Find(`.field-error[data-field="colorTheme"]`).Length())
	require.Equal(t, "tok", doc.Find(`input[name="csrf_token"]`).AttrOr("value", ""))
	require.Equal(t, "https://shop.test/products/minimal-sand", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	require.Equal(t, 2, doc.Find(`script[type="application/ld+json"]`).Length())
	require.Equal(t, "Minimal Sand Pro", doc.Find(".breadcrumbs span").Text())
}

func TestOrderPage(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)
	c := catalog.MustDefault()

	t.Run("empty", func(t *testing.T) {
		snap := storefront.NewState(c).GoTo(storefront.ViewOrder)
		doc := render(t, r, PageOrder, NewPageData(c, snap, "tok", "", fixedNow), false)
		require.Equal(t, "No customizations added yet. Go to Product page first.", doc.Find(".empty-state").Text())
		_, disabled := doc.Find("#send-order").Attr("disabled")
		require.True(t, disabled)
		require.Equal(t, "Owner Email: orders@keycraftcaps.com", doc.Find(".owner-email").Text())
	})

	t.Run("with items", func(t *testing.T) {
		st := storefront.NewState(c)
		st.SelectProduct("nebula-mx")
		snap, err := st.SubmitCustomization(cart.Customization{ColorTheme: "Black+Gold", LegendText: "WASD", Quantity: 2})
		require.NoError(t, err)

		doc := render(t, r, PageOrder, NewPageData(c, snap, "tok", "", fixedNow), false)
		item := doc.Find(".line-item")
		require.Equal(t, 1, item.Length())
		require.Equal(t, "Qty: 2 × $89", item.Find(".qty").Text())
		require.Contains(t, item.Text(), "Icon: N/A")
		require.Equal(t, "Subtotal: $178", doc.Find(".subtotal").Text())
		_, disabled := doc.Find("#send-order").Attr("disabled")
		require.False(t, disabled)
		require.Equal(t, "Order (1)", doc.Find(`.tabs a[data-view="order"]`).Text())
	})
}

func TestDevDirReparses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0o755))
	layout, err := embedded.ReadFile(layoutFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, layoutFile), layout, 0o644))
	for _, p := range Pages {
		page := []byte(`{{define "content"}}<p id="v">one</p>{{end}}`)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", string(p)+".tmpl"), page, 0o644))
	}

	r, err := New(WithDevDir(dir))
	require.NoError(t, err)
	c := catalog.MustDefault()
	data := NewPageData(c, storefront.NewState(c).Snapshot(), "tok", "", fixedNow)

	require.Equal(t, "one", render(t, r, PageHome, data, true).Find("#v").Text())

	edited := []byte(`{{define "content"}}<p id="v">two</p>{{end}}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "home.tmpl"), edited, 0o644))
	require.Equal(t, "two", render(t, r, PageHome, data, true).Find("#v").Text())
}

func TestUnknownPage(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)
	_, err = r.Component(Page("checkout"), PageData{}, false)
	require.Error(t, err)
}
