// Package cli implements the formguard command line.
package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Azhovan/formguard"
	"github.com/Azhovan/formguard/config"
	"github.com/Azhovan/formguard/internal/logging"
)

// app is the state shared by all commands, filled in before any command runs.
type app struct {
	configPath string
	lang       string
	jsonOut    bool

	cfg     *config.Config
	logger  *zap.Logger
	bundle  *formguard.Bundle
	catalog *formguard.Catalog

	now      func() time.Time
	prompter prompter
}

// NewRootCommand creates the formguard command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{now: time.Now, prompter: surveyPrompter{}})
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formguard",
		Short: "formguard - blood donation form validation",
		Long: `formguard validates blood donation forms (donor registration, health
screening, accounts, hospitals, events, blood requests), checks donor
eligibility and serves both over HTTP.

Messages are Vietnamese by default; use --lang en or set locale: en in the
config file for English.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (YAML, JSON or TOML)")
	cmd.PersistentFlags().StringVar(&a.lang, "lang", "", "Message language (vi, en); overrides the configured locale")
	cmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Output in JSON format")

	cmd.AddCommand(
		newValidateCommand(a),
		newEligibilityCommand(a),
		newFillCommand(a),
		newFormsCommand(a),
		newSubmitCommand(a),
		newServeCommand(a),
		newConfigCommand(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, a.configPath)
	if err != nil {
		return usageError("load configuration", err)
	}
	a.cfg = cfg

	if cfg.Log.File != "" {
		a.logger, err = logging.New(cfg.Log)
	} else {
		a.logger, err = logging.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
	}
	if err != nil {
		return usageError("create logger", err)
	}

	a.bundle, err = cfg.Bundle(ctx)
	if err != nil {
		return usageError("load messages", err)
	}
	a.catalog = a.bundle.Match(a.lang)
	return nil
}

func (a *app) validator() *formguard.Validator {
	return formguard.New(formguard.WithCatalog(a.catalog), formguard.WithClock(a.now))
}
