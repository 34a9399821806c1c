package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillcheck/pkg/config"
	"github.com/jingkaihe/skillcheck/pkg/logger"
	"github.com/jingkaihe/skillcheck/pkg/presenter"
	"github.com/jingkaihe/skillcheck/pkg/report"
	"github.com/jingkaihe/skillcheck/pkg/validator"
)

// ValidateConfig holds the per-invocation validate flags that are not part
// of the persistent configuration.
type ValidateConfig struct {
	All     bool
	Watch   bool
	Quiet   bool
	Verbose bool
}

// NewValidateConfig creates a ValidateConfig with default values
func NewValidateConfig() *ValidateConfig {
	return &ValidateConfig{}
}

var validateCmd = &cobra.Command{
	Use:   "validate <skill-dir>",
	Short: "Validate a skill directory",
	Long: `Validate a skill directory against the structural and heuristic rules and
print a report. With --all the argument is a root that is searched for
skill directories, and every skill found is validated.

Examples:
  skillcheck validate skills/pdf-tools
  skillcheck validate --all skills/
  skillcheck validate --format json --strict skills/pdf-tools
  skillcheck validate --disable tests-present --disable 'name-*' skills/pdf-tools`,
	Args: exactArgs(1),
	RunE: runValidate,
}

func init() {
	addValidateFlags(validateCmd)
}

func addValidateFlags(cmd *cobra.Command) {
	defaults := NewValidateConfig()
	cmd.Flags().Bool("all", defaults.All, "Treat the argument as a root and validate every skill below it")
	cmd.Flags().Bool("watch", defaults.Watch, "Re-validate whenever files change, until interrupted")
	cmd.Flags().BoolP("quiet", "q", defaults.Quiet, "Hide passed findings and informational messages in text output")
	cmd.Flags().BoolP("verbose", "v", defaults.Verbose, "Enable debug logging")
	cmd.Flags().Bool("strict", false, "Exit non-zero on warnings as well as failures")
	cmd.Flags().String("format", config.FormatText, "Output format (text or json)")
	cmd.Flags().StringSlice("disable", nil, "Rule id or glob pattern to skip (repeatable)")
	cmd.Flags().Int("concurrency", 0, "Maximum number of skills validated at once with --all")
}

func getValidateConfigFromFlags(cmd *cobra.Command) *ValidateConfig {
	vc := NewValidateConfig()
	if all, err := cmd.Flags().GetBool("all"); err == nil {
		vc.All = all
	}
	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		vc.Watch = watch
	}
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
		vc.Quiet = quiet
	}
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil {
		vc.Verbose = verbose
	}
	return vc
}

func runValidate(cmd *cobra.Command, args []string) error {
	vc := getValidateConfigFromFlags(cmd)
	target := args[0]
	presenter.SetQuiet(vc.Quiet)

	ctx := logger.WithFields(cmd.Context(), logrus.Fields{"run_id": uuid.NewString()})

	v, err := validator.New(cfg.ValidatorOptions()...)
	if err != nil {
		return usageError(err)
	}

	if vc.Watch {
		return watchAndValidate(ctx, cmd.OutOrStdout(), v, target, vc)
	}

	code, err := validateOnce(ctx, cmd.OutOrStdout(), v, target, vc)
	if err != nil {
		return err
	}
	if code != exitOK {
		return &exitError{code: code}
	}
	return nil
}

// validateOnce validates target, renders the result to w and returns the
// exit code it implies.
func validateOnce(ctx context.Context, w io.Writer, v *validator.Validator, target string, vc *ValidateConfig) (int, error) {
	var reports []*report.Report
	if vc.All {
		all, err := v.ValidateAll(ctx, target)
		if err != nil {
			return exitUsage, usageError(err)
		}
		reports = all
	} else {
		reports = []*report.Report{v.Validate(ctx, target)}
	}

	if err := render(w, reports); err != nil {
		return exitFail, &exitError{code: exitFail, err: err}
	}
	return report.ExitCode(reports, cfg.Strict), nil
}

func render(w io.Writer, reports []*report.Report) error {
	if cfg.Format == config.FormatJSON {
		return report.RenderJSON(w, reports)
	}

	if len(reports) == 0 {
		presenter.Warning("no skills found")
		return nil
	}

	opts := report.TextOptions{Color: presenter.ColorEnabled(), HidePassed: presenter.IsQuiet()}
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := report.RenderText(w, r, opts); err != nil {
			return err
		}
	}

	if len(reports) > 1 {
		fmt.Fprintln(w)
		presenter.Section("Summary")
		return report.RenderSummary(w, reports, opts)
	}
	return nil
}
