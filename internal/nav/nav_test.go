package nav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/storefront"
)

func TestBuildMarksActiveAndCountsCart(t *testing.T) {
	t.Parallel()

	items := Build(storefront.ViewOrder, 3)
	require.Len(t, items, 3)
	require.Equal(t, "Home", items[0].Label)
	require.False(t, items[0].Active)
	require.Equal(t, "Order (3)", items[2].Label)
	require.Equal(t, "/order", items[2].Href)
	require.True(t, items[2].Active)

	items = Build(storefront.ViewHome, 0)
	require.True(t, items[0].Active)
	require.Equal(t, "Order (0)", items[2].Label)
}

func TestPathAndViewRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range storefront.Views {
		got, ok := ViewFor(PathFor(v))
		require.True(t, ok)
		require.Equal(t, v, got)
	}
	require.Equal(t, "/", PathFor(storefront.View("nope")))

	v, ok := ViewFor("/order/")
	require.True(t, ok)
	require.Equal(t, storefront.ViewOrder, v)

	_, ok = ViewFor("/checkout")
	require.False(t, ok)
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	home := Breadcrumbs(storefront.ViewHome, nil)
	require.Equal(t, []Crumb{{Href: "/", Label: "Home", Active: true}}, home)

	p, ok := catalog.MustDefault().Product("retro-wave")
	require.True(t, ok)
	crumbs := Breadcrumbs(storefront.ViewProduct, &p)
	require.Len(t, crumbs, 3)
	require.Equal(t, "/products/retro-wave", crumbs[2].Href)
	require.True(t, crumbs[2].Active)
	require.False(t, crumbs[1].Active)

	order := Breadcrumbs(storefront.ViewOrder, &p)
	require.Equal(t, "Order", order[1].Label)
	require.Len(t, order, 2)
}
