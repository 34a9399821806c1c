package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillcheck/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version information of skillcheck in JSON format.`,
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := version.Get().JSON()
		if err != nil {
			return &exitError{code: exitFail, err: err}
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}
