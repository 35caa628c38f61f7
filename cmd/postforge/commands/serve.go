// ABOUTME: Serve command runs the HTTP API
// ABOUTME: Shuts down gracefully on SIGINT and SIGTERM

package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/server"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Endpoints:
  POST   /api/generate-post      generate or refine a post
  POST   /api/documents          upload a document (multipart)
  DELETE /api/conversation/{id}  clear a conversation
  GET    /                       health check`,
		RunE: runServe,
		Example: `  # Listen on the default address (:8080)
  postforge serve

  # Listen elsewhere
  POSTFORGE_ADDR=:9000 postforge serve`,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	srv := server.New(svc.cfg.HTTPAddr, svc.orch, svc.cfg.MaxUploadBytes, svc.logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		svc.logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
