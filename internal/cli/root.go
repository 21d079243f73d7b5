// Package cli implements the formbuilder command line.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/config"
)

// rootState is shared between subcommands. The app is assembled lazily so
// commands that need no configuration (schema) never touch the filesystem.
type rootState struct {
	configPath string
	logLevel   string
	prompter   Prompter
	logOut     io.Writer

	cfg   *config.Config
	built *app
}

func (s *rootState) app(ctx context.Context) (*app, error) {
	if s.built != nil {
		return s.built, nil
	}
	cfg := s.cfg
	if cfg == nil {
		loaded, err := config.Load(s.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if s.logLevel != "" {
		cfg.Log.Level = s.logLevel
	}
	logger, err := newLogger(s.logOut, cfg.Log)
	if err != nil {
		return nil, err
	}
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	s.built = a
	return a, nil
}

// NewRootCmd returns the formbuilder command tree.
func NewRootCmd(version string) *cobra.Command {
	state := &rootState{prompter: surveyPrompter{}, logOut: os.Stderr}
	return newRootCmd(version, state)
}

func newRootCmd(version string, state *rootState) *cobra.Command {
	root := &cobra.Command{
		Use:     "formbuilder",
		Short:   "Build form descriptors from templates",
		Version: version,
		Long: `formbuilder turns form templates into descriptors with resolved action
routes, translated labels and validated field metadata.

Configuration is read from formbuilder.yaml (or --config) and FORMBUILDER_*
environment variables.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&state.configPath, "config", "c", "", "config file (default ./formbuilder.yaml)")
	root.PersistentFlags().StringVar(&state.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(buildCmd(state))
	root.AddCommand(schemaCmd())
	root.AddCommand(serveCmd(state))
	return root
}
