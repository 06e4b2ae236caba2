package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/loykin/apicheck/internal/task"
	"github.com/loykin/apicheck/pkg/config"
)

// ErrUnknownEnvironment is returned when the environment filter names no
// configured environment.
var ErrUnknownEnvironment = errors.New("unknown environment")

// ErrNoConfig is returned when Plan is given a nil configuration.
var ErrNoConfig = errors.New("no configuration")

// Plan expands cfg into the cross product of environments and paths.
// Environments come in configuration order and, within one environment,
// paths in configuration order. An empty envFilter selects every environment.
func Plan(cfg *config.Config, envFilter string) ([]task.Target, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	envs := cfg.Environments
	if envFilter != "" {
		e, ok := cfg.Environment(envFilter)
		if !ok {
			return nil, fmt.Errorf("%w: %q (configured: %s)", ErrUnknownEnvironment, envFilter, strings.Join(cfg.EnvironmentNames(), ", "))
		}
		envs = []config.Environment{e}
	}

	targets := make([]task.Target, 0, len(envs)*len(cfg.Paths))
	for _, e := range envs {
		for _, p := range cfg.Paths {
			targets = append(targets, task.Target{
				Index:       len(targets),
				Environment: e.Name,
				// plain concatenation; the path is sent exactly as configured
				URL: e.BaseURL + p,
			})
		}
	}
	return targets, nil
}
