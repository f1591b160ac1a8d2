// Package config loads server configuration from environment variables.
//
// The composition root (cmd/server) calls Load once and passes the result
// down; nothing else reads the environment. Every setting has a development
// default so `go run ./cmd/server` works out of the box — except JWT_SECRET,
// which is validated at startup because running with a guessable signing key
// would silently break all authentication guarantees.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// StorageBackendLocal and StorageBackendS3 are the valid STORAGE_BACKEND
// values. Local writes uploads to a directory on disk and serves them from
// /uploads/; s3 stores them in a MinIO/S3 bucket.
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

// Config holds all server configuration.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	StorageBackend string
	UploadDir      string // local backend: directory for uploaded files

	// S3 backend settings (MinIO-compatible).
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           8080,
		DBPath:         getEnv("DB_PATH", "data/social.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		StorageBackend: getEnv("STORAGE_BACKEND", StorageBackendLocal),
		UploadDir:      getEnv("UPLOAD_DIR", "data/uploads"),
		S3Endpoint:     getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", "minio"),
		S3SecretKey:    getEnv("S3_SECRET_KEY", "minio123"),
		S3Bucket:       getEnv("S3_BUCKET_NAME", "social-uploads"),
		S3UseSSL:       getEnv("S3_USE_SSL", "false") == "true",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT value %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if cfg.StorageBackend != StorageBackendLocal && cfg.StorageBackend != StorageBackendS3 {
		return nil, fmt.Errorf("config: unknown STORAGE_BACKEND %q (want %q or %q)",
			cfg.StorageBackend, StorageBackendLocal, StorageBackendS3)
	}

	return cfg, nil
}

// getEnv returns the value of key, or fallback if it is unset or empty.
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
