package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/cli/config"
	httpctrl "github.com/secmon-lab/mnemosyne/pkg/controller/http"
	"github.com/secmon-lab/mnemosyne/pkg/service/moderation"
	"github.com/secmon-lab/mnemosyne/pkg/usecase"
	"github.com/secmon-lab/mnemosyne/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var ledgerCfg config.Ledger
	var vaultCfg config.Vault

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":3000",
			Sources:     cli.EnvVars("MNEMOSYNE_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, ledgerCfg.Flags()...)
	flags = append(flags, vaultCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			// Moderation gate is mandatory: without a verdict no memory
			// may proceed through the pipeline
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure moderation LLM")
			}
			moderator, err := moderation.New(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to create moderation client")
			}
			logger.Info("Moderation gate enabled", "config", slog.GroupValue(geminiCfg.LogAttrs()...))

			// Ledger anchoring is mandatory: it is the precondition for
			// every persisted record
			ledgerClient, err := ledgerCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure ledger client")
			}
			logger.Info("Ledger anchoring enabled", "config", slog.GroupValue(ledgerCfg.LogAttrs()...))

			ucOpts := []usecase.Option{}

			// Vault replication is best effort and optional
			vaultClient, err := vaultCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure vault client")
			}
			if vaultClient != nil {
				ucOpts = append(ucOpts, usecase.WithVault(vaultClient))
				logger.Info("Vault replication enabled", "config", slog.GroupValue(vaultCfg.LogAttrs()...))
			} else {
				logger.Info("Vault not configured, replication disabled")
			}

			uc := usecase.New(repo, moderator, ledgerClient, ucOpts...)

			httpHandler := httpctrl.New(uc, httpctrl.WithVersion(version))
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				// In-flight vault replications are deliberately not
				// awaited; work still queued at this point is lost
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
