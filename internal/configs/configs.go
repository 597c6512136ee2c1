/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, the persistence
backend, and the broadcast policy.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backend identifiers accepted by STORAGE_BACKEND.
const (
	StorageFile   = "file"
	StorageS3     = "s3"
	StorageMemory = "none"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int
	StaticPage  string

	// Security Settings
	AllowedOrigins []string

	// Persistence Settings
	StorageBackend string
	DataFile       string

	// S3 Storage Settings (required when StorageBackend is "s3")
	S3BucketName      string
	S3ObjectKey       string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// Broadcast Policy
	EchoSender bool
	ChatOnly   bool
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type conversions and validation.
// It returns a pointer to the AppConfig struct and any error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// StaticPage
	cfg.StaticPage = os.Getenv("STATIC_PAGE")
	if cfg.StaticPage == "" {
		cfg.StaticPage = "web/index.html"
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Persistence Settings ---
	cfg.StorageBackend = os.Getenv("STORAGE_BACKEND")
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = StorageFile
	}

	switch cfg.StorageBackend {
	case StorageFile:
		cfg.DataFile = os.Getenv("DATA_FILE")
		if cfg.DataFile == "" {
			cfg.DataFile = "users.json"
		}

	case StorageS3:
		cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
		if cfg.S3BucketName == "" {
			return nil, fmt.Errorf("S3_BUCKET_NAME environment variable is required for S3 storage connection")
		}

		cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
		if cfg.S3Endpoint == "" {
			return nil, fmt.Errorf("S3_ENDPOINT environment variable is required for S3 storage connection")
		}

		cfg.S3AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
		if cfg.S3AccessKeyID == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY_ID environment variable is required for S3 authentication")
		}

		cfg.S3SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
		if cfg.S3SecretAccessKey == "" {
			return nil, fmt.Errorf("S3_SECRET_ACCESS_KEY environment variable is required for S3 authentication")
		}

		cfg.S3ObjectKey = os.Getenv("S3_OBJECT_KEY")
		if cfg.S3ObjectKey == "" {
			cfg.S3ObjectKey = "users.json"
		}

	case StorageMemory:
		// In-memory only. State is lost on restart.

	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q (expected %q, %q or %q)", cfg.StorageBackend, StorageFile, StorageS3, StorageMemory)
	}

	// --- Broadcast Policy ---
	echo, err := boolEnv("ECHO_SENDER", true)
	if err != nil {
		return nil, err
	}
	cfg.EchoSender = echo

	chatOnly, err := boolEnv("CHAT_ONLY", false)
	if err != nil {
		return nil, err
	}
	cfg.ChatOnly = chatOnly

	return cfg, nil
}

// boolEnv parses an optional boolean environment variable, returning def when unset.
func boolEnv(name string, def bool) (bool, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}

	return value, nil
}
