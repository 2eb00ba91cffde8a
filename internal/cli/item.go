package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gdlookup/internal/query"
)

// ItemResult is the structured form of an item lookup.
type ItemResult struct {
	Query       string   `json:"query" yaml:"query"`
	Outcome     string   `json:"outcome" yaml:"outcome"`
	Tag         string   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	References  []string `json:"references,omitempty" yaml:"references,omitempty"`
	Candidates  []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// NewItemCommand creates the item command.
func NewItemCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "item <name...>",
		Short: "Look up an item by name and list the records it appears in",
		Long: `Look up an item by its display name and list every item record that
uses it.

All words must appear in the item's name (case-sensitive, any order).
When several names match and none equals the query exactly, the
candidates are listed so the query can be refined.

Examples:
  gdlookup -i ~/games/GrimDawn item Relic of the Ancients
  gdlookup -i ~/games/GrimDawn item Ancients Relic`,
		Args:          usageArgs(cobra.MinimumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItem(rootOpts, cmd, strings.Join(args, " "))
		},
	}
}

func runItem(opts *RootOptions, cmd *cobra.Command, name string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer sess.Close()

	out := opts.formatter(cmd)
	res := query.ResolveItem(sess.tags, name)
	result := ItemResult{Query: name, Outcome: res.Outcome.String()}

	switch res.Outcome {
	case query.NoMatch:
		out.Notice("No matching items found")
		result.Suggestions = query.Suggest(sess.tags, name, opts.Suggestions)
		out.Hint("Did you mean:", result.Suggestions)
		return out.Success(result, nil)

	case query.Ambiguous:
		result.Candidates = res.Candidates
		return out.Success(result, func(w io.Writer) error {
			fmt.Fprintln(w, "Multiple item tags found, please disambiguate:")
			for _, c := range res.Candidates {
				fmt.Fprintf(w, "  %s\n", c)
			}
			return nil
		})
	}

	refs, err := query.FindReferences(ctx, sess.sel, res.Tag)
	if err != nil {
		return classify(err)
	}
	sess.log.Debug("resolved item", "tag", res.Tag, "references", len(refs))

	result.Tag = res.Tag
	result.Name = res.Name
	result.References = refs
	return out.Success(result, func(w io.Writer) error {
		fmt.Fprintf(w, "%s is referenced in the following database records:\n", res.Name)
		for _, id := range refs {
			fmt.Fprintf(w, "  %s\n", id)
		}
		return nil
	})
}
