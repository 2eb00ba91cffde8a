package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gdlookup/internal/query"
)

// RecordResult is the structured form of a printed record.
type RecordResult struct {
	ID      string         `json:"id" yaml:"id"`
	Kind    string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Matches int            `json:"matches" yaml:"matches"`
	Fields  map[string]any `json:"fields" yaml:"fields"`
}

func recordResult(loc query.Located) RecordResult {
	return RecordResult{
		ID:      loc.Record.ID,
		Kind:    loc.Record.Kind,
		Matches: loc.Matches,
		Fields:  loc.Record.Data.Plain(),
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <identifier>",
		Short: "Print the specified database record",
		Long: `Print a database record with inheritance applied.

When several installed packs define the same record, the one from the
latest pack is shown and a warning is printed.

Examples:
  gdlookup -i ~/games/GrimDawn show records/items/gearrelic/a01_relic.dbr
  gdlookup -i ~/games/GrimDawn show records/items/gearrelic/a01_relic.dbr --format json`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, cmd, args[0])
		},
	}
}

func runShow(opts *RootOptions, cmd *cobra.Command, id string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer sess.Close()

	loc, err := query.Locate(ctx, sess.sel, id)
	if err != nil {
		return classify(err)
	}

	out := opts.formatter(cmd)
	if loc.Duplicated() {
		out.Warnf("%d records found for %s; showing latest", loc.Matches, id)
	}

	return out.Success(recordResult(loc), func(w io.Writer) error {
		_, err := io.WriteString(w, loc.Record.String())
		return err
	})
}
