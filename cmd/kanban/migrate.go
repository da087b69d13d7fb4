package main

import (
	"log"

	"github.com/kanban-dev/kanban/db"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			conn, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			defer db.Close(conn)

			if err := db.MigrateDatabase(conn); err != nil {
				return err
			}

			log.Printf("[migrate] schema up to date (%s)", cfg.Database.Driver)
			return nil
		},
	}
}
