package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillcheck/pkg/config"
	"github.com/jingkaihe/skillcheck/pkg/logger"
	"github.com/jingkaihe/skillcheck/pkg/presenter"
)

// Exit codes
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

// exitError carries a process exit code through cobra. A nil err means the
// command already reported its outcome.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}

// exactArgs is cobra.ExactArgs reported as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// cfg is the resolved configuration, loaded before any command runs.
var cfg config.Config

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"strict":      "strict",
	"format":      "format",
	"disable":     "disable",
	"concurrency": "concurrency",
	"log-level":   "log_level",
	"log-format":  "log_format",
	"profile":     "profile",
}

var rootCmd = &cobra.Command{
	Use:   "skillcheck [skill-dir]",
	Short: "Validate agent skill directories",
	Long: `skillcheck statically validates skill directories: a SKILL.md with YAML
frontmatter and a markdown body, plus optional references/, templates/,
examples/, scripts/ and tests/ folders.

Running skillcheck with a directory is the same as "skillcheck validate".

Exit codes: 0 no failures, 1 failures (or warnings with --strict),
2 invalid invocation or configuration.`,
	Args:              maximumArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			cmd.Usage()
			return usageError(errors.New("a skill directory is required"))
		}
		return runValidate(cmd, args)
	},
}

func maximumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: .skillcheck/config.yaml or $HOME/.skillcheck/config.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "Named configuration profile to apply")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text or json)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.Usage()
		return usageError(err)
	})

	addValidateFlags(rootCmd)

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration for the command being run and applies the
// logging settings.
func setup(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config")

	v, err := config.New(configFile)
	if err != nil {
		return usageError(err)
	}
	bindFlags(cmd, v)

	c, err := config.Load(v)
	if err != nil {
		return usageError(err)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		c.LogLevel = "debug"
	}
	if err := c.Validate(); err != nil {
		return usageError(errors.Wrap(err, "invalid configuration"))
	}
	if err := logger.Configure(c.LogLevel, c.LogFormat); err != nil {
		return usageError(err)
	}

	cfg = c
	logger.G(cmd.Context()).WithField("command", cmd.Name()).Debug("configuration loaded")
	return nil
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			v.BindPFlag(key, f)
		}
	}
}

func run() int {
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			presenter.Error(exit.err, "")
		}
		return exit.code
	}

	presenter.Error(err, "")
	return exitUsage
}

func main() {
	os.Exit(run())
}
