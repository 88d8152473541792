package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type ClientConfig struct {
	HomeDir   string
	ServerURL string
	Language  string
	LogLevel  string
	Debug     bool
}

func (config *ClientConfig) DBPath() string {
	return filepath.Join(config.HomeDir, "local.db")
}

func LoadClient() *ClientConfig {
	_ = godotenv.Load()

	home := getEnv("POSTURA_HOME", "")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			userHome = "."
		}
		home = filepath.Join(userHome, ".postura")
	}

	return &ClientConfig{
		HomeDir:   home,
		ServerURL: getEnv("POSTURA_SERVER", "http://localhost:8080"),
		Language:  getEnv("POSTURA_LANG", "en"),
		LogLevel:  getEnv("LOG_LEVEL", "warn"),
		Debug:     getEnvBool("POSTURA_DEBUG", false),
	}
}
