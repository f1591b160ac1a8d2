// Package main is the entry point for the social network API server.
//
// main stays minimal: load configuration, build the runtime dependencies
// whose construction depends on that configuration (logger, token service,
// file store), and hand everything to internal/server.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/social-network/internal/auth"
	"github.com/sakif/social-network/internal/config"
	"github.com/sakif/social-network/internal/server"
	"github.com/sakif/social-network/internal/storage"
	"github.com/sakif/social-network/internal/storage/local"
	"github.com/sakif/social-network/internal/storage/s3"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// JWT_SECRET has no default: a guessable signing key would make every
	// issued token forgeable.
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		logger.Error("failed to configure token signing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	var files storage.Store
	serveUploadsFrom := ""
	switch cfg.StorageBackend {
	case config.StorageBackendS3:
		files, err = s3.New(context.Background(), s3.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			logger.Error("failed to connect to object storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("using s3 storage backend",
			slog.String("endpoint", cfg.S3Endpoint),
			slog.String("bucket", cfg.S3Bucket),
		)
	default:
		files, err = local.New(cfg.UploadDir)
		if err != nil {
			logger.Error("failed to create upload directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
		serveUploadsFrom = cfg.UploadDir
		logger.Info("using local storage backend", slog.String("dir", cfg.UploadDir))
	}

	srv, err := server.New(server.Config{
		Port:             cfg.Port,
		DBPath:           cfg.DBPath,
		ServeUploadsFrom: serveUploadsFrom,
	}, tokens, files, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
