package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-studio/backend/internal/api"
	"ai-studio/backend/internal/commands"
	"ai-studio/backend/internal/config"
	"ai-studio/backend/internal/logging"
	"ai-studio/backend/internal/mcp"
	"ai-studio/backend/internal/repository"
	"ai-studio/backend/internal/services"
	"ai-studio/backend/internal/tls"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the command server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "Path to config file (default ./config.yaml)")
	return cmd
}

func serve(cfg *config.Config) error {
	// Initialize logging
	logger := logging.New(logging.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	logger.Info("Configuration loaded",
		"config_file", cfg.File,
		"bridge_url", cfg.Bridge.URL,
		"bridge_dispatch", cfg.Bridge.Dispatch,
		"version", cfg.App.Version,
	)

	// The registry lives as long as the server; it is handed to the services
	// rather than kept in a global.
	store := repository.NewMemoryWorkflowStore()

	// Initialize service layer
	bridge := services.NewHTTPBridgeClient(cfg.Bridge.URL, cfg.Bridge.Timeout)
	workflowService := services.NewWorkflowService(store, logger.With("component", "workflows"))
	commandService := services.NewCommandService(bridge, cfg.Bridge.Dispatch, logger.With("component", "bridge"))
	systemService := services.NewSystemService(cfg.App.Version)

	dispatcher := commands.NewDispatcher(logger.With("component", "commands"))
	commands.RegisterBuiltins(dispatcher, commands.Services{
		Workflows: workflowService,
		Commands:  commandService,
		System:    systemService,
	})

	logger.Info("Service layer initialized", "commands", len(dispatcher.Commands()))

	// Mount REST API handlers
	e := api.NewRouter(api.NewServer(dispatcher, workflowService, cfg.App.Version), logger)

	// Mount MCP protocol handlers next to echo so the long-lived streams get
	// the raw connection.
	mcpServer := mcp.NewServer(dispatcher, cfg.App.Version)
	root := http.NewServeMux()
	mcp.MountHTTPHandlers(root, mcpServer.GetMCPServer())
	root.Handle("/", e)

	logger.Info("MCP protocol handlers mounted", "streamable", "/mcp", "sse", "/mcp/sse")

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Bridge.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", cfg.Server.Addr, "tls", cfg.Server.TLS.Enable)
		if !cfg.Server.TLS.Enable {
			serverErrors <- server.ListenAndServe()
			return
		}

		generated, err := tls.EnsureCertificate(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile, cfg.Server.TLS.Hostnames)
		if err != nil {
			serverErrors <- err
			return
		}
		if generated {
			logger.Info("Generated self-signed certificate", "cert_file", cfg.Server.TLS.CertFile)
		}
		serverErrors <- server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			return err
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}

		logger.Info("Server stopped gracefully", "workflows", store.Len())
	}
	return nil
}
