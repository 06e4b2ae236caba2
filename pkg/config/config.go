package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/loykin/apicheck/internal/constants"
	"github.com/loykin/apicheck/internal/httpc"
	"github.com/loykin/apicheck/internal/task"
	"github.com/loykin/apicheck/internal/util"
)

// ErrInvalidConfig marks configuration problems detected after decoding.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment is a named deployment target.
type Environment struct {
	Name    string
	BaseURL string
}

type ClientConfig struct {
	// Timeout is a Go duration string; empty means the 10s default, "0" disables it.
	Timeout       string `mapstructure:"timeout" yaml:"timeout"`
	Insecure      bool   `mapstructure:"insecure" yaml:"insecure"`
	MinTLSVersion string `mapstructure:"min_tls_version" yaml:"min_tls_version"`
	MaxTLSVersion string `mapstructure:"max_tls_version" yaml:"max_tls_version"`
	// Concurrency caps in-flight requests; 0 dispatches every target at once.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level"`                   // error, warn, info, debug
	Format        string `mapstructure:"format" yaml:"format"`                 // text, json, color
	MaskSensitive *bool  `mapstructure:"mask_sensitive" yaml:"mask_sensitive"` // enable/disable sensitive data masking
	Color         *bool  `mapstructure:"color" yaml:"color"`                   // enable/disable colorized output
}

// Config is the loaded settings of a check run. It is not modified after Load.
type Config struct {
	Paths []string
	// AppErrorKey is the top-level JSON key checked on 2xx bodies.
	AppErrorKey string
	// AppErrorCode is the value that marks an application error; nil disables the check.
	AppErrorCode *string
	// Environments keep the order they are declared in.
	Environments []Environment
	Client       ClientConfig
	Logging      LoggingConfig
}

// Environment returns the environment with the given name.
func (c *Config) Environment(name string) (Environment, bool) {
	for _, e := range c.Environments {
		if e.Name == name {
			return e, true
		}
	}
	return Environment{}, false
}

// EnvironmentNames lists environment names in plan order.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for _, e := range c.Environments {
		names = append(names, e.Name)
	}
	return names
}

// ErrorPolicy returns the classification policy described by the config.
func (c *Config) ErrorPolicy() task.ErrorPolicy {
	return task.ErrorPolicy{
		Key:   util.TrimWithDefault(c.AppErrorKey, constants.DefaultAppErrorKey),
		Value: c.AppErrorCode,
	}
}

// HTTPTimeout parses client.timeout.
func (c *Config) HTTPTimeout() (time.Duration, error) {
	s, ok := util.TrimEmptyCheck(c.Client.Timeout)
	if !ok {
		return constants.DefaultHTTPTimeout, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("client.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("client.timeout must not be negative: %s", s)
	}
	return d, nil
}

// ClientTLS builds the TLS settings of the shared HTTP client.
func (c *Config) ClientTLS() (*tls.Config, error) {
	return httpc.TLSConfig(c.Client.Insecure, c.Client.MinTLSVersion, c.Client.MaxTLSVersion)
}

// Validate checks the settings that would otherwise only fail at request time.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(c.Environments))
	for i, e := range c.Environments {
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Errorf("environments[%d]: missing name", i))
			continue
		}
		if _, dup := seen[e.Name]; dup {
			errs = append(errs, fmt.Errorf("environment %q: declared twice", e.Name))
		}
		seen[e.Name] = struct{}{}
		if err := validateBaseURL(e.BaseURL); err != nil {
			errs = append(errs, fmt.Errorf("environment %q: %w", e.Name, err))
		}
	}
	if _, err := c.HTTPTimeout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ClientTLS(); err != nil {
		errs = append(errs, fmt.Errorf("client: %w", err))
	}
	if c.Client.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("client.concurrency must not be negative: %d", c.Client.Concurrency))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func validateBaseURL(raw string) error {
	s, ok := util.TrimEmptyCheck(raw)
	if !ok {
		return errors.New("missing baseurl")
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid baseurl %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("baseurl %q must be an absolute http(s) URL", raw)
	}
	return nil
}
