package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/gdlookup/internal/config"
	"github.com/roach88/gdlookup/internal/logging"
)

// RootOptions holds global flags for all commands. After PersistentPreRunE
// the fields reflect flags, environment and config file combined.
type RootOptions struct {
	InstallPath string
	Expansion   *int   // nil selects every pack
	Format      string // "text" | "json" | "yaml"
	Verbose     bool
	NoColor     bool
	ConfigFile  string
	Suggestions int

	xpac int
	log  *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the gdlookup CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gdlookup",
		Short: "Look up records in Grim Dawn's game database",
		Long: `Look up records in Grim Dawn's game database.

Queries read the record stores and item name tables of every installed
content pack (base game and expansions) and treat them as one namespace.

Examples:
  gdlookup -i ~/games/GrimDawn ls records/items
  gdlookup -i ~/games/GrimDawn item Relic of the Ancients
  gdlookup -i ~/games/GrimDawn -x 1 show records/items/gearrelic/a01_relic.dbr`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.InstallPath, "install-path", "i", "", "path to the game installation")
	cmd.PersistentFlags().IntVarP(&opts.xpac, "xpac", "x", 0, "restrict lookup to the nth expansion's database (0 = base game)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored diagnostics")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default $XDG_CONFIG_HOME/gdlookup/config.cue)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "", err)
	})

	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewItemCommand(opts))
	cmd.AddCommand(NewLsCommand(opts))
	cmd.AddCommand(NewLootTableCommand(opts))

	return cmd
}

// load merges config sources into opts and builds the logger.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: o.ConfigFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "", err)
	}

	o.InstallPath = cfg.InstallPath
	o.Expansion = cfg.ExpansionIndex()
	o.Format = cfg.Format
	o.Verbose = cfg.Verbose
	o.NoColor = cfg.NoColor
	o.Suggestions = cfg.Suggestions

	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	o.log = logging.New(cmd.ErrOrStderr(), o.Verbose, o.NoColor)
	if cfg.File != "" {
		o.log.Debug("loaded config", "file", cfg.File)
	}
	return nil
}

// logger returns the configured logger, or a silent one before load.
func (o *RootOptions) logger() *slog.Logger {
	if o.log == nil {
		return logging.Discard()
	}
	return o.log
}

// formatter returns an OutputFormatter writing to cmd's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Styles:    NewStyles(cmd.ErrOrStderr(), o.NoColor),
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// usageArgs turns positional argument errors into usage exit codes.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "", err)
		}
		return nil
	}
}
