package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New creates the zap logger for the given environment. production gets the
// JSON encoder at info level, development the console encoder at debug level,
// and anything else the example logger used in tests and local runs.
func New(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	default:
		return zap.NewExample(), nil
	}
}

// GormWriter forwards gorm's logger output to the global zap logger
type GormWriter struct{}

// Printf satisfies gorm's logger.Writer
func (GormWriter) Printf(format string, args ...interface{}) {
	zap.S().Warnw(fmt.Sprintf(format, args...), "component", "gorm")
}
