package config

import "os"

const (
	defaultAddr       = ":8080"
	defaultDSN        = "csvviewer.db"
	defaultUploadsDir = "./uploads"
)

type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string

	// DatabaseURL is either a postgres:// DSN or a SQLite file path.
	DatabaseURL string

	// UploadsDir is the root of the blob store. CSV files live directly
	// under it, images under an images/ subdirectory.
	UploadsDir string
}

func Load() Config {
	return Config{
		Addr:        getEnvOrDefault("ADDR", defaultAddr),
		DatabaseURL: getEnvOrDefault("DATABASE_URL", defaultDSN),
		UploadsDir:  getEnvOrDefault("UPLOADS_DIR", defaultUploadsDir),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
