package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/require"

	"keycraftcaps.com/keycraft-web/internal/cart"
	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/mailer"
	"keycraftcaps.com/keycraft-web/internal/order"
	"keycraftcaps.com/keycraft-web/internal/storefront"
)

// scripted replays a fixed sequence of answers.
type scripted struct {
	actions   []Action
	products  []string
	customize []cart.Customization
	offered   [][]Action
}

func (s *scripted) Action(_ context.Context, _ storefront.Snapshot, choices []Action) (Action, error) {
	s.offered = append(s.offered, choices)
	if len(s.actions) == 0 {
		return "", huh.ErrUserAborted
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a, nil
}

func (s *scripted) Product(context.Context, []catalog.Product, string) (string, error) {
	id := s.products[0]
	s.products = s.products[1:]
	return id, nil
}

func (s *scripted) Customize(context.Context, catalog.Product) (cart.Customization, error) {
	cz := s.customize[0]
	s.customize = s.customize[1:]
	return cz, nil
}

func TestShopFullBooking(t *testing.T) {
	t.Parallel()

	st := storefront.NewState(catalog.MustDefault())
	prompt := &scripted{
		actions:   []Action{ActionNextSlide, ActionChooseProduct, ActionCustomize, ActionSend, ActionQuit},
		products:  []string{"nebula-mx"},
		customize: []cart.Customization{{ColorTheme: "Black+Gold", LegendText: "WASD", Quantity: 2}},
	}
	var sent []order.MailRequest
	dispatch := mailer.DispatcherFunc(func(_ context.Context, req order.MailRequest) error {
		sent = append(sent, req)
		return nil
	})
	var out bytes.Buffer

	require.NoError(t, New(st, prompt, dispatch, &out).Run(context.Background()))

	require.Len(t, sent, 1)
	require.Contains(t, sent[0].Body, "1. Nebula MX Set | Qty: 2 | Theme: Black+Gold | Legends: WASD | Icon: ")
	require.Contains(t, out.String(), "Booking email drafted for orders@keycraftcaps.com.")

	snap := st.Snapshot()
	require.Equal(t, storefront.ViewOrder, snap.View)
	require.Equal(t, 1, snap.SlideIndex)
	require.Equal(t, int64(178), snap.Subtotal)

	require.Equal(t, ActionSend, prompt.offered[3][0], "send is offered once the cart has items")
}

func TestShopInvalidCustomizationStaysOnProduct(t *testing.T) {
	t.Parallel()

	st := storefront.NewState(catalog.MustDefault())
	st.SelectProduct("retro-wave")
	prompt := &scripted{
		actions:   []Action{ActionCustomize, ActionQuit},
		customize: []cart.Customization{{ColorTheme: "Neon"}},
	}
	var out bytes.Buffer

	require.NoError(t, New(st, prompt, mailer.WriterDispatcher{W: &out}, &out).Run(context.Background()))
	require.Contains(t, out.String(), "legend text is required")
	require.Equal(t, storefront.ViewProduct, st.Snapshot().View)
	require.Empty(t, st.Snapshot().Items)
}

func TestShopAbortIsCleanExit(t *testing.T) {
	t.Parallel()

	st := storefront.NewState(catalog.MustDefault())
	var out bytes.Buffer
	require.NoError(t, New(st, &scripted{}, mailer.WriterDispatcher{W: &out}, &out).Run(context.Background()))
}

func TestShopDispatchFailurePrintsLink(t *testing.T) {
	t.Parallel()

	st := storefront.NewState(catalog.MustDefault())
	_, err := st.SubmitCustomization(cart.Customization{ColorTheme: "Red", LegendText: "ABC"})
	require.NoError(t, err)

	prompt := &scripted{actions: []Action{ActionSend, ActionQuit}}
	failing := mailer.DispatcherFunc(func(context.Context, order.MailRequest) error { return errors.New("no handler") })
	var out bytes.Buffer

	require.NoError(t, New(st, prompt, failing, &out).Run(context.Background()))
	require.Contains(t, out.String(), "Could not open your mail client")
	require.Contains(t, out.String(), "mailto:orders@keycraftcaps.com?subject=")
}

func TestChoices(t *testing.T) {
	t.Parallel()

	st := storefront.NewState(catalog.MustDefault())
	require.Equal(t, ActionChooseProduct, Choices(st.Snapshot())[0])

	onOrder := Choices(st.GoTo(storefront.ViewOrder))
	require.NotContains(t, onOrder, ActionSend, "send is hidden for an empty cart")
	require.Contains(t, onOrder, ActionQuit)

	require.Equal(t, ActionCustomize, Choices(st.GoTo(storefront.ViewProduct))[0])
}

func TestRenderOrder(t *testing.T) {
	t.Parallel()

	c := catalog.MustDefault()
	st := storefront.NewState(c)
	styles := DefaultStyles()

	empty := RenderOrder(styles, c.Shop(), st.GoTo(storefront.ViewOrder))
	require.Contains(t, empty, "No customizations added yet. Go to Product page first.")
	require.Contains(t, empty, "Owner Email: orders@keycraftcaps.com")

	snap, err := st.SubmitCustomization(cart.Customization{ColorTheme: "Red", LegendText: "ABC", Quantity: 3})
	require.NoError(t, err)
	out := RenderOrder(styles, c.Shop(), snap)
	require.Contains(t, out, "Qty: 3 × $89")
	require.Contains(t, out, "Icon: N/A")
	require.Contains(t, out, "Subtotal: $267")
}

func TestRenderHomeReviews(t *testing.T) {
	t.Parallel()

	c := catalog.MustDefault()
	out := RenderHome(DefaultStyles(), c, storefront.NewState(c).Snapshot())

	for _, r := range c.Reviews() {
		require.Contains(t, out, r.Title+" · "+r.Author)
	}
	require.NotContains(t, out, "—")
}

func TestRenderScreenHeader(t *testing.T) {
	t.Parallel()

	c := catalog.MustDefault()
	st := storefront.NewState(c)
	out := RenderScreen(DefaultStyles(), c, st.Snapshot())
	require.Contains(t, out, "KeyCraft")
	require.Contains(t, out, "Order (0)")
	require.Contains(t, out, c.Slide(0).Title)
	require.True(t, strings.Contains(out, "●"))

	out = RenderScreen(DefaultStyles(), c, st.SelectProduct("minimal-sand"))
	require.Contains(t, out, "Minimal Sand Pro")
	require.Contains(t, out, "$74")
}
