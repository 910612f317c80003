package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Source       string
	SnapshotPath string
	ArchivePath  string
	LayoutPath   string
	DataDir      string
	DockerHost   string
	LogLevel     string
	LogFormat    string
	Concurrency  int
}

// Load loads configuration from environment variables
// Automatically loads .env file if present
func Load() *Config {
	// Try to load .env file (fail silently if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Source:       getEnv("IMAGETREE_SOURCE", "docker"),
		SnapshotPath: getEnv("IMAGETREE_SNAPSHOT", ""),
		ArchivePath:  getEnv("IMAGETREE_ARCHIVE", ""),
		LayoutPath:   getEnv("IMAGETREE_LAYOUT", "default"),
		DataDir:      getEnv("DATA_DIR", defaultDataDir()),
		DockerHost:   getEnv("DOCKER_HOST", ""),
		LogLevel:     getEnv("LOG_LEVEL", "warn"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		Concurrency:  getEnvInt("IMAGETREE_CONCURRENCY", 8),
	}

	return cfg
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".imagetree"
	}
	return filepath.Join(home, ".imagetree")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return defaultValue
	}
	return n
}
