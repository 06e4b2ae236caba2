package config

import (
	"fmt"

	"github.com/loykin/apicheck/internal/common"
	"github.com/loykin/apicheck/internal/util"
)

// LogLevel parses logging.level.
func (c *Config) LogLevel() (common.LogLevel, error) {
	level := util.TrimAndLower(c.Logging.Level)
	switch level {
	case "error":
		return common.LogLevelError, nil
	case "warn", "warning":
		return common.LogLevelWarn, nil
	case "info", "":
		return common.LogLevelInfo, nil
	case "debug":
		return common.LogLevelDebug, nil
	default:
		return common.LogLevelInfo, fmt.Errorf("invalid logging level: %s (valid: error, warn, info, debug)", c.Logging.Level)
	}
}

// NewLogger builds the logger described by the logging section.
func (c *Config) NewLogger() (*common.Logger, error) {
	level, err := c.LogLevel()
	if err != nil {
		return nil, err
	}

	format := util.TrimAndLower(c.Logging.Format)
	useColor := false
	if c.Logging.Color != nil {
		useColor = *c.Logging.Color
	} else if format == "color" || format == "colour" {
		useColor = true
	}

	var logger *common.Logger
	switch format {
	case "json":
		logger = common.NewJSONLogger(level)
	case "color", "colour":
		if useColor {
			logger = common.NewColorLogger(level)
		} else {
			logger = common.NewLogger(level)
		}
	case "text", "":
		if useColor {
			logger = common.NewColorLogger(level)
		} else {
			logger = common.NewLogger(level)
		}
	default:
		return nil, fmt.Errorf("invalid logging format: %s (valid: text, json, color)", c.Logging.Format)
	}

	maskingEnabled := true
	if c.Logging.MaskSensitive != nil {
		maskingEnabled = *c.Logging.MaskSensitive
	}
	logger.EnableMasking(maskingEnabled)
	return logger, nil
}

// SetupLogging installs the configured logger as the process default.
func (c *Config) SetupLogging() error {
	logger, err := c.NewLogger()
	if err != nil {
		return err
	}
	common.SetDefaultLogger(logger)

	logger.Debug("logging configured",
		"level", logger.Level().String(),
		"format", util.TrimWithDefault(util.TrimAndLower(c.Logging.Format), "text"),
		"mask_sensitive", c.Logging.MaskSensitive == nil || *c.Logging.MaskSensitive)
	return nil
}
