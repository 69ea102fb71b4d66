package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds the process logger. Development-style output everywhere except prod-like environments.
func New(appEnv string) (*zap.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(appEnv)) {
	case "prod", "production", "release":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}

// Nop is used by tests and tools that do not care about logs.
func Nop() *zap.Logger {
	return zap.NewNop()
}
