package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bikatr7/folio"
)

var staticDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&staticDir, "static", "", "static asset directory (default $STATIC_DIR or public)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := configFromEnv()
	if err != nil {
		return err
	}
	if staticDir == "" {
		staticDir = folio.EnvOr("STATIC_DIR", "public")
	}

	app := folio.New(cfg,
		folio.WithStaticDir(staticDir),
		folio.WithLogger(logger),
	)
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Setup(ctx); err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}
