package config

import (
	"log/slog"
	"os"

	"github.com/subosito/gotenv"
)

const envDir = "config/envs/.env."

// AppEnv returns APP_ENV, defaulting to "dev".
func AppEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "dev"
}

func LoadEnv(env string) {
	envFile := envDir + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}
