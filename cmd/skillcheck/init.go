package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillcheck/pkg/presenter"
	"github.com/jingkaihe/skillcheck/pkg/scaffold"
	"github.com/jingkaihe/skillcheck/pkg/skills"
)

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a new skill directory",
	Long: `Create a new skill directory with a SKILL.md, a starter test scenario and
the standard references/, templates/, examples/, scripts/ and tests/ folders.
The name is converted to kebab-case.

Examples:
  skillcheck init "PDF Tools"
  skillcheck init release-notes --parent-dir skills/`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, _ := cmd.Flags().GetString("parent-dir")

		res, err := scaffold.Init(parent, args[0])
		if err != nil {
			return &exitError{code: exitFail, err: err}
		}

		presenter.Success(fmt.Sprintf("Initialized skill: %s", res.Dir))
		for _, f := range res.Files {
			presenter.Info(fmt.Sprintf("  Created %s", f))
		}
		for _, sub := range skills.SupportDirs {
			presenter.Info(fmt.Sprintf("  Created %s/", sub))
		}
		presenter.Info("\nNext steps:")
		presenter.Info(fmt.Sprintf("  1. Edit %s: fill in the description, triggers and instructions", filepath.Join(res.Dir, skills.FileName)))
		presenter.Info(fmt.Sprintf("  2. Add reference docs to %s", filepath.Join(res.Dir, "references")+string(filepath.Separator)))
		presenter.Info(fmt.Sprintf("  3. Validate with: skillcheck validate %s", res.Dir))
		return nil
	},
}

func init() {
	initCmd.Flags().String("parent-dir", ".", "Directory in which the skill directory is created")
}
