package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/shelf/internal/cmd/output"
	"github.com/agentstation/shelf/internal/cmd/table"
	"github.com/agentstation/shelf/pkg/catalogs"
)

// NewListCommand lists visible items in manual order.
func (a *App) NewListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "list [query]",
		GroupID: "core",
		Short:   "List visible items, optionally filtered",
		Aliases: []string{"ls"},
		Args:    cobra.MaximumNArgs(1),
		Example: `  shelf list                  # All visible items in manual order
  shelf list engate           # Items whose name or SKU contains "engate"
  shelf list -o wide          # Include override markers`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}

			var query string
			if len(args) == 1 {
				query = args[0]
			}
			items := client.Visible(query)
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			a.logger.Debug().Int("count", len(items)).Str("query", query).Msg("Listing items")

			format := a.format()
			return output.Write(a.out, format, table.ItemsToTableData(items, format == output.FormatWide), items)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of items to show")
	return cmd
}

// NewShowCommand shows one item, member or not.
func (a *App) NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		GroupID: "core",
		Short:   "Show one item with its overrides",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}
			item, err := client.Item(catalogs.ID(args[0]))
			if err != nil {
				return err
			}
			return output.Write(a.out, a.format(), table.ItemToTableData(item), item)
		},
	}
}

// NewMissingCommand lists members the catalog no longer has.
func (a *App) NewMissingCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "missing",
		GroupID: "core",
		Short:   "List members no longer present in the catalog",
		Long: `Missing lists members of the overlay that the current catalog does not
contain. They stay hidden until the catalog lists them again or they are
removed with prune.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Load(cmd.Context())
			if err != nil {
				return err
			}
			missing := client.Missing()
			if missing == nil {
				missing = []catalogs.ID{}
			}
			data := table.Data{Headers: []string{"ID"}}
			for _, id := range missing {
				data.Rows = append(data.Rows, []string{string(id)})
			}
			return output.Write(a.out, a.format(), data, missing)
		},
	}
}

// NewReloadCommand fetches the catalog and reports what changed.
func (a *App) NewReloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "reload",
		GroupID: "core",
		Short:   "Fetch the catalog and show what changed",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client(cmd.Context())
			if err != nil {
				return err
			}
			changes, err := client.Reload(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info().
				Int("items", len(client.Items())).
				Int("visible", len(client.Visible(""))).
				Msg("Catalog reloaded")
			return output.Write(a.out, a.format(), table.ChangesetToTableData(changes), changes)
		},
	}
}

// NewVersionCommand prints build information.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.out, "shelf %s (commit %s, built %s by %s)\n", a.version, a.commit, a.date, a.builtBy)
			return err
		},
	}
}

// format resolves the output format, falling back to terminal detection.
func (a *App) format() output.Format {
	return output.DetectFormat(a.config.Format)
}
