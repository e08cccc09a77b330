package app

import (
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/ordering"
)

// NewRenameCommand overrides an item's display name.
func (a *App) NewRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rename <id> <name>",
		GroupID: "edit",
		Short:   "Override the display name of an item",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.Rename(cmd.Context(), catalogs.ID(args[0]), args[1]); err != nil {
				return err
			}
			a.logger.Info().Str("id", args[0]).Str("name", args[1]).Msg("Renamed item")
			return nil
		},
	}
}

// NewStockCommand overrides an item's stock.
func (a *App) NewStockCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "stock <id> <value>",
		GroupID: "edit",
		Short:   "Override the stock of an item",
		Long: `Stock overrides the stock of an item. The value may use a dot or a
comma as decimal separator and may be negative to record a deficit.`,
		Example: `  shelf stock 2 12,5
  shelf stock 2 -3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.SetStock(cmd.Context(), catalogs.ID(args[0]), args[1]); err != nil {
				return err
			}
			a.logger.Info().Str("id", args[0]).Str("stock", args[1]).Msg("Updated stock")
			return nil
		},
	}
}

// NewClearCommand drops overrides, restoring the catalog values.
func (a *App) NewClearCommand() *cobra.Command {
	var name, stock bool
	cmd := &cobra.Command{
		Use:     "clear <id>",
		GroupID: "edit",
		Short:   "Drop name and stock overrides of an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}
			id := catalogs.ID(args[0])
			if !name && !stock {
				name, stock = true, true
			}
			if name {
				if err := client.ClearName(cmd.Context(), id); err != nil {
					return err
				}
			}
			if stock {
				if err := client.ClearStock(cmd.Context(), id); err != nil {
					return err
				}
			}
			a.logger.Info().Str("id", args[0]).Bool("name", name).Bool("stock", stock).Msg("Cleared overrides")
			return nil
		},
	}
	cmd.Flags().BoolVar(&name, "name", false, "clear only the name override")
	cmd.Flags().BoolVar(&stock, "stock", false, "clear only the stock override")
	return cmd
}

// NewRemoveCommand drops an item from the overlay.
func (a *App) NewRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		GroupID: "edit",
		Short:   "Hide an item and drop its overrides",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}
			return client.Remove(cmd.Context(), catalogs.ID(args[0]))
		},
	}
}

// NewIncludeCommand brings a hidden catalog item back.
func (a *App) NewIncludeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "include <id>",
		GroupID: "edit",
		Short:   "Show a hidden catalog item again, at the end",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}
			return client.Include(cmd.Context(), catalogs.ID(args[0]))
		},
	}
}

// NewAddCommand records a locally created item.
func (a *App) NewAddCommand() *cobra.Command {
	var sku, stock string
	cmd := &cobra.Command{
		Use:     "add <id> <name>",
		GroupID: "edit",
		Short:   "Add a local item and submit it to the remote writer",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := catalogs.Item{ID: catalogs.ID(args[0]), Name: args[1], SKU: sku}
			if stock != "" {
				value, err := catalogs.ParseStock(stock)
				if err != nil {
					return err
				}
				item.Stock = catalogs.Float(value)
			}

			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.Add(cmd.Context(), item); err != nil {
				return err
			}
			a.logger.Info().Str("id", args[0]).Msg("Added item")
			return nil
		},
	}
	cmd.Flags().StringVar(&sku, "sku", "", "stock keeping unit")
	cmd.Flags().StringVar(&stock, "stock", "", "initial stock")
	return cmd
}

// NewMoveCommand moves one visible item to a position by running a drag
// session over a layout of unit rows.
func (a *App) NewMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "move <id> <position>",
		GroupID: "edit",
		Short:   "Move a visible item to a position, counted from 1",
		Long: `Move drags a visible item to a position in the visible list. Members
hidden because the catalog no longer lists them keep their place.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(args[1])
			if err != nil || position < 1 {
				return errors.NewValidationError("position", args[1], "must be a positive integer")
			}
			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}

			id := catalogs.ID(args[0])
			ids := make([]catalogs.ID, 0)
			for _, item := range client.Visible("") {
				ids = append(ids, item.ID)
			}
			if !slices.Contains(ids, id) {
				return errors.NewNotFoundError("member", args[0])
			}

			layout := ordering.UniformLayout(ids, 1)
			if err := client.BeginDrag(id, layout); err != nil {
				return err
			}
			if _, err := client.DragMove(dropPoint(ids, id, position-1), layout); err != nil {
				client.CancelDrag()
				return err
			}
			return client.ReleaseDrag(cmd.Context())
		},
	}
}

// dropPoint returns the pointer height that drops id before the at-th of
// the other rows, or below every row.
func dropPoint(ids []catalogs.ID, id catalogs.ID, at int) float64 {
	row := 0
	for i, other := range ids {
		if other == id {
			continue
		}
		if row == at {
			return float64(i) + 0.25
		}
		row++
	}
	return float64(len(ids)) + 1
}

// NewOrderCommand replaces the whole manual order.
func (a *App) NewOrderCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "order <id>...",
		GroupID: "edit",
		Short:   "Replace the manual order",
		Long: `Order replaces the manual order. Every member must be listed exactly
once; use "shelf list -o json" or "shelf missing" to see them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}
			ids := make([]catalogs.ID, len(args))
			for i, arg := range args {
				ids[i] = catalogs.ID(arg)
			}
			return client.Reorder(cmd.Context(), ids)
		},
	}
}

// NewPruneCommand drops members the catalog no longer lists.
func (a *App) NewPruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "prune",
		GroupID: "edit",
		Short:   "Forget members the catalog no longer lists",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}
			pruned, err := client.Prune(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info().Int("pruned", len(pruned)).Msg("Pruned overlay")
			return nil
		},
	}
}
