package main

import (
	"fmt"
	"log"
	"time"

	"github.com/kanban-dev/kanban/db"
	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/kanban-dev/kanban/internal/kanban"
	"github.com/kanban-dev/kanban/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		email       string
		fixturePath string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample boards for an existing user",
		Long: `Seed replaces the user's boards named in the fixture with fresh copies.
Without --fixture the built-in sample board is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			fixture, err := loadFixture(fixturePath)
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

			user, err := auth.NewUsers(conn).FindByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("failed to find user %s: %w", email, err)
			}

			result, err := seed.Apply(cmd.Context(), kanban.NewService(conn), user.ID, fixture, time.Now())
			if err != nil {
				return err
			}

			log.Printf("[seed] seeded %d board(s) and %d task(s) for %s", result.Boards, result.Tasks, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email of the user who will own the boards")
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "Path to a YAML fixture")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.Load(path)
}
