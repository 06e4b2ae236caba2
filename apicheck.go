package apicheck

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/apicheck/internal/common"
	"github.com/loykin/apicheck/internal/httpc"
	"github.com/loykin/apicheck/internal/plan"
	"github.com/loykin/apicheck/internal/task"
	"github.com/loykin/apicheck/pkg/config"
	"github.com/loykin/apicheck/pkg/orchestrator"
	"github.com/loykin/apicheck/pkg/status"
)

// Re-export commonly used types for public API

// Config is a loaded configuration file.
type Config = config.Config

// Environment is a named base URL.
type Environment = config.Environment

// ClientConfig holds the HTTP client settings of a config.
type ClientConfig = config.ClientConfig

// Target is one (environment, URL) pair of a plan.
type Target = task.Target

// Result is the classified outcome of one target.
type Result = task.Result

// ErrorPolicy configures the application error check on 2xx bodies.
type ErrorPolicy = task.ErrorPolicy

// ResultSet is the aggregated outcome of a run.
type ResultSet = status.ResultSet

var (
	ErrUnknownEnvironment = plan.ErrUnknownEnvironment
	ErrNoConfig           = plan.ErrNoConfig
	ErrIncomplete         = orchestrator.ErrIncomplete
	ErrInvalidConfig      = config.ErrInvalidConfig
)

// LoadConfig reads a .yaml, .yml, .toml or .json configuration file.
func LoadConfig(path string) (*Config, error) { return config.Load(path) }

// Plan expands cfg into targets; envFilter selects a single environment when non-empty.
func Plan(cfg *Config, envFilter string) ([]Target, error) { return plan.Plan(cfg, envFilter) }

// Classify decides whether a raw result passes under policy.
func Classify(r Result, policy ErrorPolicy) (bool, *string) { return task.Classify(r, policy) }

// Options tune a Check call. The zero value uses the client settings of the config.
type Options struct {
	// Concurrency overrides client.concurrency when > 0.
	Concurrency int
	// Client replaces the HTTP client built from the config.
	Client *resty.Client
}

// Check plans, executes and classifies every target of cfg.
func Check(ctx context.Context, cfg *Config, envFilter string, opts Options) (*ResultSet, error) {
	targets, err := plan.Plan(cfg, envFilter)
	if err != nil {
		return nil, err
	}
	client := opts.Client
	if client == nil {
		if client, err = NewHTTPClient(cfg); err != nil {
			return nil, err
		}
	}
	concurrency := cfg.Client.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}
	e := &orchestrator.Engine{Client: client, Policy: cfg.ErrorPolicy(), Concurrency: concurrency}
	return e.Run(ctx, targets)
}

// NewHTTPClient builds the shared client described by the client section of cfg.
func NewHTTPClient(cfg *Config) (*resty.Client, error) {
	timeout, err := cfg.HTTPTimeout()
	if err != nil {
		return nil, err
	}
	tlsCfg, err := cfg.ClientTLS()
	if err != nil {
		return nil, err
	}
	return NewHTTPClientWith(tlsCfg, timeout), nil
}

// NewHTTPClientWith builds a client from explicit TLS settings and timeout.
func NewHTTPClientWith(tlsCfg *tls.Config, timeout time.Duration) *resty.Client {
	h := httpc.Httpc{TlsConfig: tlsCfg, Timeout: timeout}
	return h.New()
}

// Logging API

type Logger = common.Logger

type LogLevel = common.LogLevel

const (
	LogLevelError = common.LogLevelError
	LogLevelWarn  = common.LogLevelWarn
	LogLevelInfo  = common.LogLevelInfo
	LogLevelDebug = common.LogLevelDebug
)

// NewLogger creates a text logger writing to stderr.
func NewLogger(level LogLevel) *Logger { return common.NewLogger(level) }

// NewJSONLogger creates a JSON logger writing to stderr.
func NewJSONLogger(level LogLevel) *Logger { return common.NewJSONLogger(level) }

// NewColorLogger creates a colorized text logger writing to stderr.
func NewColorLogger(level LogLevel) *Logger { return common.NewColorLogger(level) }

// SetDefaultLogger replaces the logger used by every package.
func SetDefaultLogger(logger *Logger) { common.SetDefaultLogger(logger) }

// GetLogger returns the current default logger.
func GetLogger() *Logger { return common.GetLogger() }
