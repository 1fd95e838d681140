// Package mailer hands booking drafts to the customer's mail client.
package mailer

import (
	"context"
	"fmt"
	"io"

	"github.com/cli/browser"

	"keycraftcaps.com/keycraft-web/internal/order"
)

// Dispatcher delivers a draft to an external mail handler. Delivery is
// fire-and-forget: a nil error only means the hand-off was started.
type Dispatcher interface {
	Dispatch(ctx context.Context, req order.MailRequest) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(context.Context, order.MailRequest) error

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, req order.MailRequest) error {
	return f(ctx, req)
}

// BrowserDispatcher opens the mailto: URI with the operating system handler.
type BrowserDispatcher struct {
	open func(string) error
}

// NewBrowserDispatcher returns a dispatcher backed by github.com/cli/browser.
func NewBrowserDispatcher(stdout, stderr io.Writer) *BrowserDispatcher {
	if stdout != nil {
		browser.Stdout = stdout
	}
	if stderr != nil {
		browser.Stderr = stderr
	}
	return &BrowserDispatcher{open: browser.OpenURL}
}

// Dispatch opens the draft.
func (d *BrowserDispatcher) Dispatch(ctx context.Context, req order.MailRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.open(req.URI()); err != nil {
		return fmt.Errorf("open mail client: %w", err)
	}
	return nil
}

// WriterDispatcher prints the draft URI instead of opening it.
type WriterDispatcher struct {
	W io.Writer
}

// Dispatch writes the URI followed by a newline.
func (d WriterDispatcher) Dispatch(ctx context.Context, req order.MailRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(d.W, req.URI()); err != nil {
		return fmt.Errorf("write mail link: %w", err)
	}
	return nil
}
