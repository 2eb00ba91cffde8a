package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gdlookup/internal/query"
)

// LsResult is the structured form of a directory listing.
type LsResult struct {
	Prefix   string   `json:"prefix" yaml:"prefix"`
	Children []string `json:"children" yaml:"children"`
}

// NewLsCommand creates the ls command.
func NewLsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [prefix]",
		Short: "Show the next level of the record tree below a path",
		Long: `Show the next level of the record tree below a path.

Record identifiers are slash-separated paths. Entries ending in "/" have
further records beneath them.

Examples:
  gdlookup -i ~/games/GrimDawn ls
  gdlookup -i ~/games/GrimDawn ls records/items`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return runLs(rootOpts, cmd, prefix)
		},
	}
}

func runLs(opts *RootOptions, cmd *cobra.Command, prefix string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer sess.Close()

	children, err := query.ListChildren(ctx, sess.sel, prefix)
	if err != nil {
		return classify(err)
	}

	return opts.formatter(cmd).Success(LsResult{Prefix: prefix, Children: children}, func(w io.Writer) error {
		for _, c := range children {
			fmt.Fprintln(w, c)
		}
		return nil
	})
}
