// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/stowage-dev/stowage/catalog"
	"github.com/stowage-dev/stowage/lib/config"
	"github.com/stowage-dev/stowage/lib/process"
	"github.com/stowage-dev/stowage/lib/service"
	"github.com/stowage-dev/stowage/lib/version"
	"github.com/stowage-dev/stowage/mcp"
	"github.com/stowage-dev/stowage/storage"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	flags := pflag.NewFlagSet("stowage", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to a YAML config file (replaces the environment base)")
	transport := flags.String("transport", "", "MCP transport: stdio, http, or streamable-http")
	host := flags.String("host", "", "bind host for the HTTP transport")
	port := flags.Int("port", 0, "bind port for the HTTP transport")
	showVersion := flags.Bool("version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		version.Print("stowage")
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags overlay whichever base the config came from, but only
	// when actually set: an untouched flag must not clobber a value
	// from the file or the environment.
	if flags.Changed("transport") {
		cfg.Server.Transport = *transport
	}
	if flags.Changed("host") {
		cfg.Server.Host = *host
	}
	if flags.Changed("port") {
		cfg.Server.Port = *port
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := service.NewLogger()

	gateway, err := storage.NewMinioGateway(storage.MinioGatewayConfig{
		Endpoint:   cfg.Minio.Endpoint,
		AccessKey:  cfg.Minio.AccessKey,
		SecretKey:  cfg.Minio.SecretKey,
		Secure:     cfg.Minio.UseSSL,
		Region:     cfg.Minio.Region,
		MaxBuckets: cfg.Catalog.MaxBuckets,
		MaxKeys:    cfg.Catalog.MaxKeys,
	})
	if err != nil {
		return fmt.Errorf("configuring object store client for %s: %w", cfg.Minio.Endpoint, err)
	}

	cat := catalog.New(gateway, catalog.Options{
		MaxKeys:           cfg.Catalog.MaxKeys,
		BucketConcurrency: cfg.Catalog.BucketConcurrency,
		Logger:            logger,
	})

	server := mcp.NewServer(gateway, cat, mcp.Options{
		MaxBuckets: cfg.Catalog.MaxBuckets,
		MaxKeys:    cfg.Catalog.MaxKeys,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.HTTPTransport() {
		return serveHTTP(ctx, cfg, server, logger)
	}

	logger.Info("serving on stdio",
		"endpoint", cfg.Minio.Endpoint,
		"version", version.Short(),
	)
	return server.Serve(ctx)
}

// serveHTTP runs the MCP server behind the HTTP transport: JSON-RPC
// POST exchanges on the configured path, everything else 404.
func serveHTTP(ctx context.Context, cfg *config.Config, server *mcp.Server, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(cfg.Server.Path, server.Handler())

	httpServer := service.NewHTTPServer(service.HTTPServerConfig{
		Address: cfg.ListenAddress(),
		Handler: mux,
		Logger:  logger,
	})

	done := make(chan error, 1)
	go func() {
		done <- httpServer.Serve(ctx)
	}()

	select {
	case <-httpServer.Ready():
		logger.Info("serving on http",
			"address", httpServer.Addr().String(),
			"path", cfg.Server.Path,
			"endpoint", cfg.Minio.Endpoint,
			"version", version.Short(),
		)
	case <-ctx.Done():
		return <-done
	}

	return <-done
}
