package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/shelf/internal/cmd/output"
	"github.com/agentstation/shelf/pkg/constants"
)

// Execute runs the shelf CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
	defer cancel()

	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.out)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "shelf",
		Short:   "Local overlay for a remote item catalog",
		Version: a.version,
		Long: `Shelf keeps a personal view of a remote item catalog.

The catalog is fetched from a URL or file and never modified. Renames,
stock overrides, the manual order and membership live in a local overlay
that survives restarts. Additions and edits can be forwarded to a remote
endpoint on a best-effort basis.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "edit",
		Title: "Edit Commands:",
	})

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml, wide")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")

	// Overlay flags
	flags.StringVar(&a.config.Source, "source", a.config.Source, "catalog URL or JSON/YAML file")
	flags.StringVar(&a.config.Backend, "backend", a.config.Backend, "overlay backend: memory:, file://dir, sqlite://path, redis://...")
	flags.StringVarP(&a.config.Area, "area", "a", a.config.Area, "overlay area")

	rootCmd.SetVersionTemplate("shelf {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	format := mustGetString(cmd, "format")
	if _, err := output.ParseFormat(format); err != nil {
		return err
	}
	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		format,
		mustGetString(cmd, "log-level"),
	)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(a.NewListCommand())
	rootCmd.AddCommand(a.NewShowCommand())
	rootCmd.AddCommand(a.NewMissingCommand())
	rootCmd.AddCommand(a.NewReloadCommand())

	// Edit commands
	rootCmd.AddCommand(a.NewRenameCommand())
	rootCmd.AddCommand(a.NewStockCommand())
	rootCmd.AddCommand(a.NewClearCommand())
	rootCmd.AddCommand(a.NewRemoveCommand())
	rootCmd.AddCommand(a.NewIncludeCommand())
	rootCmd.AddCommand(a.NewAddCommand())
	rootCmd.AddCommand(a.NewMoveCommand())
	rootCmd.AddCommand(a.NewOrderCommand())
	rootCmd.AddCommand(a.NewPruneCommand())

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
	rootCmd.AddCommand(a.NewCompletionCommand())
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
