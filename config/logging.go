package config

import (
	"go.uber.org/zap"

	"github.com/nyayasankalan/case-api/logging"
)

// setLogger builds the logger for env and makes it the global zap logger
func setLogger(env string) (*zap.Logger, error) {
	logger, err := logging.New(env)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
