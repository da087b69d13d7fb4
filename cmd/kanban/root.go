package main

import (
	"github.com/kanban-dev/kanban/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "Multi-tenant kanban board server",
		Long: `Kanban serves boards, columns and ordered tasks over HTTP.

Configuration is read from a YAML file (--config, KANBAN_CONFIG or kanban.yaml)
and then overridden by .env and the process environment.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log every SQL statement")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(config.ConfigPath(o.configPath))
	if err != nil {
		return nil, err
	}

	if o.debug {
		cfg.Debug = true
	}

	return cfg, nil
}
