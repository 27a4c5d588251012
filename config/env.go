package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv() {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	} else if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = strings.Split(origins, ",")
	}

	if dir := os.Getenv("KARAOKE_DATA_DIR"); dir != "" {
		c.Catalogue.DataDir = dir
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

// GinMode returns the gin mode, release unless GIN_MODE says otherwise
func GinMode() string {
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		return mode
	}
	return "release"
}

// DataPath joins a catalogue file name onto the data directory
func (c *CatalogueConfig) DataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
