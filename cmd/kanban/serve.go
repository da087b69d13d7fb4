package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/db"
	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/kanban-dev/kanban/internal/handlers"
	"github.com/kanban-dev/kanban/internal/kanban"
	"github.com/kanban-dev/kanban/internal/router"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.GinMode != "" {
				gin.SetMode(cfg.GinMode)
			}

			conn, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			defer db.Close(conn)

			if err := db.MigrateDatabase(conn); err != nil {
				return err
			}

			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}

			issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret)
			if err != nil {
				return err
			}

			users := auth.NewUsers(conn)
			hub := handlers.NewHub(cfg.AllowsOrigin)
			h := handlers.NewHandler(kanban.NewService(conn), users, issuer, hub, sqlDB, cfg)

			srv := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: router.NewRouter(cfg, h, issuer, users),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("[server] listening on :%s", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Println("[server] shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return srv.Shutdown(shutdownCtx)
		},
	}
}
