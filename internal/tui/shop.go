// Package tui runs the storefront as an interactive terminal session for a
// single local shopper.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"keycraftcaps.com/keycraft-web/internal/cart"
	"keycraftcaps.com/keycraft-web/internal/mailer"
	"keycraftcaps.com/keycraft-web/internal/storefront"
)

// Shop drives one storefront State from terminal prompts.
type Shop struct {
	state    *storefront.State
	prompt   Prompter
	dispatch mailer.Dispatcher
	out      io.Writer
	styles   Styles
	logger   *zap.Logger
}

// Option customises a Shop.
type Option func(*Shop)

// WithStyles overrides the default palette.
func WithStyles(st Styles) Option {
	return func(s *Shop) { s.styles = st }
}

// WithLogger sets the logger for dispatch failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Shop) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a shop bound to state.
func New(state *storefront.State, prompt Prompter, dispatch mailer.Dispatcher, out io.Writer, opts ...Option) *Shop {
	s := &Shop{
		state:    state,
		prompt:   prompt,
		dispatch: dispatch,
		out:      out,
		styles:   DefaultStyles(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Choices lists the actions offered on the current view.
func Choices(snap storefront.Snapshot) []Action {
	switch snap.View {
	case storefront.ViewProduct:
		return []Action{ActionCustomize, ActionChooseProduct, ActionHome, ActionOrder, ActionQuit}
	case storefront.ViewOrder:
		out := make([]Action, 0, 4)
		if snap.CanSendOrder() {
			out = append(out, ActionSend)
		}
		return append(out, ActionHome, ActionProduct, ActionQuit)
	default:
		return []Action{ActionChooseProduct, ActionNextSlide, ActionPrevSlide, ActionProduct, ActionOrder, ActionQuit}
	}
}

// Run renders the current view and applies the chosen action until the user
// quits or aborts.
func (s *Shop) Run(ctx context.Context) error {
	for {
		snap := s.state.Snapshot()
		fmt.Fprintln(s.out, RenderScreen(s.styles, s.state.Catalog(), snap))

		action, err := s.prompt.Action(ctx, snap, Choices(snap))
		if err != nil {
			return quitErr(err)
		}
		done, err := s.apply(ctx, action)
		if err != nil {
			return quitErr(err)
		}
		if done {
			return nil
		}
	}
}

func (s *Shop) apply(ctx context.Context, a Action) (bool, error) {
	c := s.state.Catalog()
	switch a {
	case ActionHome:
		s.state.GoTo(storefront.ViewHome)
	case ActionProduct:
		s.state.GoTo(storefront.ViewProduct)
	case ActionOrder:
		s.state.GoTo(storefront.ViewOrder)
	case ActionNextSlide:
		snap := s.state.Snapshot()
		s.state.SetSlide((snap.SlideIndex + 1) % c.SlideCount())
	case ActionPrevSlide:
		snap := s.state.Snapshot()
		n := c.SlideCount()
		s.state.SetSlide((snap.SlideIndex - 1 + n) % n)
	case ActionChooseProduct:
		id, err := s.prompt.Product(ctx, c.Products(), s.state.Snapshot().SelectedProductID)
		if err != nil {
			return false, err
		}
		s.state.SelectProduct(id)
	case ActionCustomize:
		cz, err := s.prompt.Customize(ctx, s.state.Snapshot().SelectedProduct)
		if err != nil {
			return false, err
		}
		if _, err := s.state.SubmitCustomization(cz); err != nil {
			s.printFieldErrors(err)
		}
	case ActionSend:
		s.send(ctx)
	case ActionQuit:
		return true, nil
	}
	return false, nil
}

func (s *Shop) send(ctx context.Context) {
	req, err := s.state.SendOrder(s.state.Composer())
	if errors.Is(err, storefront.ErrEmptyCart) {
		fmt.Fprintln(s.out, s.styles.Muted.Render("Add a customization before sending the order."))
		return
	}
	if err != nil {
		fmt.Fprintln(s.out, s.styles.Error.Render(err.Error()))
		return
	}
	if err := s.dispatch.Dispatch(ctx, req); err != nil {
		s.logger.Warn("mail dispatch failed", zap.Error(err))
		fmt.Fprintln(s.out, s.styles.Error.Render("Could not open your mail client. Send this link manually:"))
		fmt.Fprintln(s.out, req.URI())
		return
	}
	fmt.Fprintln(s.out, s.styles.Success.Render("Booking email drafted for "+req.Recipient+"."))
}

func (s *Shop) printFieldErrors(err error) {
	printed := false
	for _, fieldErr := range []error{cart.ErrColorThemeRequired, cart.ErrLegendTextRequired} {
		if errors.Is(err, fieldErr) {
			fmt.Fprintln(s.out, s.styles.Error.Render(fieldErr.Error()))
			printed = true
		}
	}
	if !printed {
		fmt.Fprintln(s.out, s.styles.Error.Render(err.Error()))
	}
}

// quitErr treats a user abort (ctrl+c) as a clean exit.
func quitErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}
