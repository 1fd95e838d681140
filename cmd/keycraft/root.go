package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/config"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "keycraft",
		Short: "KeyCraft custom keycap storefront",
		Long: `KeyCraft sells custom mechanical keyboard keycap sets. Shoppers browse
the catalog, customise a set (colour theme, legends, artisan icon, quantity),
collect line items in a cart and book the order through a prefilled email.

Configuration is read from an optional YAML file and KEYCRAFT_* environment
variables, e.g. KEYCRAFT_SERVER_ADDR or KEYCRAFT_SESSION_SIGNING_KEY.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newShopCmd(opts),
		newCatalogCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load resolves configuration from file, environment, flags and the extra
// per-command overrides, in increasing precedence.
func (o *rootOptions) load(extra map[string]any) (config.Config, error) {
	overrides := map[string]any{}
	if o.logLevel != "" {
		overrides["log.level"] = o.logLevel
	}
	for k, v := range extra {
		overrides[k] = v
	}

	var opts []config.Option
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	if len(overrides) > 0 {
		opts = append(opts, config.WithOverrides(overrides))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	c, err := catalog.LoadFile(cfg.Shop.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return c.WithOwnerEmail(cfg.Shop.OwnerEmail), nil
}
