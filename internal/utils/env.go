package utils

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv populates the process environment from .env files. Missing files
// are not an error: the config layer falls back to defaults.
func LoadEnv(logger *zap.Logger, files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Warn("ENV file not found or failed to load, using defaults", zap.Strings("files", files))
	} else {
		logger.Info("ENV file loaded successfully")
	}
}
