package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"keycraftcaps.com/keycraft-web/internal/cart"
	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/format"
	"keycraftcaps.com/keycraft-web/internal/storefront"
)

// Action is one menu entry of the terminal shop.
type Action string

const (
	ActionHome          Action = "home"
	ActionProduct       Action = "product"
	ActionOrder         Action = "order"
	ActionNextSlide     Action = "next-slide"
	ActionPrevSlide     Action = "prev-slide"
	ActionChooseProduct Action = "choose-product"
	ActionCustomize     Action = "customize"
	ActionSend          Action = "send"
	ActionQuit          Action = "quit"
)

var actionLabels = map[Action]string{
	ActionHome:          "Go to Home",
	ActionProduct:       "Go to Product",
	ActionOrder:         "Go to Order",
	ActionNextSlide:     "Next slide",
	ActionPrevSlide:     "Previous slide",
	ActionChooseProduct: "View a product",
	ActionCustomize:     "Add Custom Order",
	ActionSend:          "Send Booking Details via Email",
	ActionQuit:          "Quit",
}

// Label is the menu text for a.
func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

// Prompter collects user input for the shop loop.
type Prompter interface {
	Action(ctx context.Context, snap storefront.Snapshot, choices []Action) (Action, error)
	Product(ctx context.Context, products []catalog.Product, current string) (string, error)
	Customize(ctx context.Context, p catalog.Product) (cart.Customization, error)
}

// HuhPrompter asks with charmbracelet/huh forms.
type HuhPrompter struct {
	Accessible bool
}

func (h HuhPrompter) run(ctx context.Context, groups ...*huh.Group) error {
	return huh.NewForm(groups...).
		WithShowHelp(true).
		WithShowErrors(true).
		WithAccessible(h.Accessible).
		RunWithContext(ctx)
}

// Action shows the menu for the current view.
func (h HuhPrompter) Action(ctx context.Context, snap storefront.Snapshot, choices []Action) (Action, error) {
	opts := make([]huh.Option[Action], 0, len(choices))
	for _, a := range choices {
		opts = append(opts, huh.NewOption(a.Label(), a))
	}
	var picked Action
	err := h.run(ctx, huh.NewGroup(
		huh.NewSelect[Action]().
			Title("What next?").
			Options(opts...).
			Value(&picked),
	))
	return picked, err
}

// Product lets the user pick a product; the current selection is preselected.
func (h HuhPrompter) Product(ctx context.Context, products []catalog.Product, current string) (string, error) {
	opts := make([]huh.Option[string], 0, len(products))
	for _, p := range products {
		opts = append(opts, huh.NewOption(p.Name+"  "+format.Price(p.Price), p.ID).Selected(p.ID == current))
	}
	picked := current
	err := h.run(ctx, huh.NewGroup(
		huh.NewSelect[string]().
			Title("Product Gallery").
			Options(opts...).
			Value(&picked),
	))
	return picked, err
}

// Customize collects the customization fields for p.
func (h HuhPrompter) Customize(ctx context.Context, p catalog.Product) (cart.Customization, error) {
	var theme, legend, icon string
	qty := "1"
	err := h.run(ctx, huh.NewGroup(
		huh.NewInput().
			Title("Color theme").
			Placeholder("e.g., Black + Gold").
			Validate(required("color theme")).
			Value(&theme),
		huh.NewInput().
			Title("Legend text").
			Placeholder("e.g., WASD, your initials").
			Validate(required("legend text")).
			Value(&legend),
		huh.NewInput().
			Title("Artisan icon style (optional)").
			Value(&icon),
		huh.NewInput().
			Title("Quantity").
			Value(&qty),
	).Title("Customize "+p.Name).Description(format.Price(p.Price)+" per set"))
	if err != nil {
		return cart.Customization{}, err
	}
	return cart.Customization{
		ColorTheme:  theme,
		LegendText:  legend,
		ArtisanIcon: icon,
		Quantity:    cart.ParseQuantity(qty),
	}, nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}
