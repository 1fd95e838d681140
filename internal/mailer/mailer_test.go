package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"keycraftcaps.com/keycraft-web/internal/order"
)

var draft = order.MailRequest{Recipient: "orders@keycraftcaps.com", Subject: order.Subject, Body: "Total: $1"}

func TestWriterDispatcher(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriterDispatcher{W: &buf}.Dispatch(context.Background(), draft))
	require.Equal(t, draft.URI()+"\n", buf.String())
}

func TestBrowserDispatcherOpensURI(t *testing.T) {
	t.Parallel()

	var opened string
	d := &BrowserDispatcher{open: func(u string) error { opened = u; return nil }}
	require.NoError(t, d.Dispatch(context.Background(), draft))
	require.Equal(t, draft.URI(), opened)
}

func TestBrowserDispatcherWrapsErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("no handler")
	d := &BrowserDispatcher{open: func(string) error { return boom }}
	err := d.Dispatch(context.Background(), draft)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "open mail client")
}

func TestDispatchHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	d := &BrowserDispatcher{open: func(string) error { called = true; return nil }}
	require.ErrorIs(t, d.Dispatch(ctx, draft), context.Canceled)
	require.False(t, called)

	var buf bytes.Buffer
	require.ErrorIs(t, WriterDispatcher{W: &buf}.Dispatch(ctx, draft), context.Canceled)
	require.Zero(t, buf.Len())
}

func TestDispatcherFunc(t *testing.T) {
	t.Parallel()

	var got order.MailRequest
	d := DispatcherFunc(func(_ context.Context, req order.MailRequest) error { got = req; return nil })
	require.NoError(t, d.Dispatch(context.Background(), draft))
	require.Equal(t, draft, got)
}
