package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/format"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the keycap sets on sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(nil)
			if err != nil {
				return err
			}
			c, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), catalogTable(c))
			return err
		},
	}
}

func catalogTable(c *catalog.Catalog) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "PROFILE", "MATERIAL", "PRICE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, p := range c.Products() {
		t.Row(p.ID, p.Name, p.Profile, p.Material, format.Price(p.Price))
	}
	return t.String() + "\nOrders are booked by email to " + c.Shop().OwnerEmail
}
