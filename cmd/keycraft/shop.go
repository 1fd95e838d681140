package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"keycraftcaps.com/keycraft-web/internal/mailer"
	"keycraftcaps.com/keycraft-web/internal/observability"
	"keycraftcaps.com/keycraft-web/internal/storefront"
	"keycraftcaps.com/keycraft-web/internal/tui"
)

func newShopCmd(root *rootOptions) *cobra.Command {
	var (
		printOnly  bool
		accessible bool
	)
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Browse, customise and book keycaps in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(nil)
			if err != nil {
				return err
			}
			logger, err := observability.NewLogger(shopLogLevel(cfg.Log.Level), "stderr")
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			c, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			var dispatch mailer.Dispatcher = mailer.NewBrowserDispatcher(cmd.ErrOrStderr(), cmd.ErrOrStderr())
			if printOnly {
				dispatch = mailer.WriterDispatcher{W: cmd.OutOrStdout()}
			}

			shop := tui.New(
				storefront.NewState(c),
				tui.HuhPrompter{Accessible: accessible},
				dispatch,
				cmd.OutOrStdout(),
				tui.WithLogger(logger),
			)
			return shop.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the booking mailto: link instead of opening the mail client")
	cmd.Flags().BoolVar(&accessible, "accessible", false, "use plain line prompts for screen readers")
	return cmd
}

// shopLogLevel keeps the terminal quiet: nothing below warn reaches stderr.
func shopLogLevel(configured string) string {
	lvl, err := zapcore.ParseLevel(configured)
	if err != nil || lvl < zapcore.WarnLevel {
		return zapcore.WarnLevel.String()
	}
	return lvl.String()
}
