package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/loykin/apicheck/internal/common"
	"github.com/loykin/apicheck/internal/plan"
	"github.com/loykin/apicheck/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newValidateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file and print the request plan",
		Long: `Validate the configuration file without sending any request. This command checks:
- File format and syntax (.yaml, .yml, .toml, .json)
- Environment base URLs (absolute http or https)
- Client timeout and TLS settings
- The --env filter, when given
and prints every planned URL. Sensitive query values are masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := strings.TrimSpace(v.GetString("config"))
			if configPath == "" {
				return errors.New("--config is required (or set APICHECK_CONFIG)")
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Validating configuration: %s\n", configPath)

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			return printPlan(out, cfg, strings.TrimSpace(v.GetString("env")))
		},
	}
}

// configWarnings lists settings that are valid but probably not intended.
func configWarnings(cfg *config.Config) []string {
	var warnings []string
	seen := make(map[string]struct{}, len(cfg.Paths))
	for _, p := range cfg.Paths {
		if p != "" && !strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "?") {
			warnings = append(warnings, fmt.Sprintf("path %q does not start with '/' and is appended to the base URL as is", p))
		}
		if _, dup := seen[p]; dup {
			warnings = append(warnings, fmt.Sprintf("path %q is listed more than once", p))
		}
		seen[p] = struct{}{}
	}
	for _, e := range cfg.Environments {
		if strings.HasSuffix(e.BaseURL, "/") {
			warnings = append(warnings, fmt.Sprintf("environment %q: baseurl ends with '/', URLs will contain '//'", e.Name))
		}
	}
	if cfg.AppErrorCode == nil && strings.TrimSpace(cfg.AppErrorKey) != "" {
		warnings = append(warnings, "app_error_key_to_fail is set but app_error_code_to_fail is not; the application error check is disabled")
	}
	return warnings
}

func printPlan(out io.Writer, cfg *config.Config, envFilter string) error {
	targets, err := plan.Plan(cfg, envFilter)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	for _, w := range configWarnings(cfg) {
		_, _ = fmt.Fprintf(out, "warning: %s\n", w)
	}

	policy := cfg.ErrorPolicy()
	if policy.Enabled() {
		_, _ = fmt.Fprintf(out, "Application error check: %s == %q\n", policy.Key, *policy.Value)
	} else {
		_, _ = fmt.Fprintln(out, "Application error check: disabled")
	}
	_, _ = fmt.Fprintf(out, "Environments: %d, paths: %d, requests: %d\n", len(cfg.Environments), len(cfg.Paths), len(targets))

	masker := common.NewMasker()
	for _, t := range targets {
		_, _ = fmt.Fprintf(out, "  %-10s GET %s\n", t.Environment, masker.MaskURL(t.URL))
	}
	_, _ = fmt.Fprintln(out, "\nConfiguration is valid!")
	return nil
}
