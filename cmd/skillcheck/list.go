package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillcheck/pkg/presenter"
	"github.com/jingkaihe/skillcheck/pkg/skills"
)

const maxDescriptionWidth = 60

var listCmd = &cobra.Command{
	Use:   "list [root...]",
	Short: "List skill directories",
	Long: `List every skill directory below the given roots (default: the current
directory) with its name, directory and description. When two skills share
a name the one under the earlier root is listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []skills.Option
		if len(args) > 0 {
			opts = append(opts, skills.WithRoots(args...))
		}

		discovery, err := skills.NewDiscovery(opts...)
		if err != nil {
			return usageError(err)
		}

		found, err := discovery.ListSkills()
		if err != nil {
			return usageError(err)
		}

		if len(found) == 0 {
			presenter.Info("No skills found")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDIRECTORY\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t---------\t-----------")
		for _, s := range found {
			description := s.Description
			if s.Err != nil {
				description = "(invalid frontmatter)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Directory, truncate(description, maxDescriptionWidth))
		}
		return tw.Flush()
	},
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
