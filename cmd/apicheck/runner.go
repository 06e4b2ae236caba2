package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/loykin/apicheck/internal/common"
	"github.com/loykin/apicheck/internal/httpc"
	"github.com/loykin/apicheck/internal/plan"
	"github.com/loykin/apicheck/pkg/config"
	"github.com/loykin/apicheck/pkg/orchestrator"
	"github.com/loykin/apicheck/pkg/report"
	"github.com/loykin/apicheck/pkg/status"
	"github.com/spf13/viper"
)

// ErrChecksFailed is returned with --fail-on-error when any check failed.
var ErrChecksFailed = errors.New("one or more checks failed")

// CheckOptions holds the command line settings of a run
type CheckOptions struct {
	ConfigPath string
	OutputPath string
	Env        string
	// Concurrency overrides client.concurrency when >= 0.
	Concurrency int
	FailOnError bool
	NoColor     bool
}

// CheckRunner loads the configuration, runs every check and reports the results
type CheckRunner struct {
	opts   CheckOptions
	ctx    context.Context
	out    io.Writer
	cfg    *config.Config
	logger *common.Logger
}

// NewCheckRunner creates a runner writing its reports to out
func NewCheckRunner(ctx context.Context, out io.Writer) *CheckRunner {
	if ctx == nil {
		ctx = context.Background()
	}
	return &CheckRunner{ctx: ctx, out: out, opts: CheckOptions{Concurrency: -1}}
}

// InitializeFromViper reads the command line settings from v
func (r *CheckRunner) InitializeFromViper(v *viper.Viper) error {
	r.opts = CheckOptions{
		ConfigPath:  strings.TrimSpace(v.GetString("config")),
		OutputPath:  strings.TrimSpace(v.GetString("output")),
		Env:         strings.TrimSpace(v.GetString("env")),
		Concurrency: v.GetInt("concurrency"),
		FailOnError: v.GetBool("fail_on_error"),
		NoColor:     v.GetBool("no_color"),
	}

	// Initialize basic logger until the config file says otherwise
	logger := common.NewLogger(common.LogLevelInfo)
	common.SetDefaultLogger(logger)
	r.logger = logger.WithComponent("main")

	if r.opts.ConfigPath == "" {
		return errors.New("--config is required (or set APICHECK_CONFIG)")
	}
	return nil
}

// LoadConfiguration loads the configuration file and applies its logging settings
func (r *CheckRunner) LoadConfiguration() error {
	_, _ = fmt.Fprintf(r.out, "Loading configuration from: %s\n", r.opts.ConfigPath)

	cfg, err := config.Load(r.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration file '%s': %w", r.opts.ConfigPath, err)
	}
	if err := cfg.SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging from config: %w", err)
	}
	r.logger = common.GetLogger().WithComponent("main")
	r.cfg = cfg
	return nil
}

// Execute plans and runs the checks. A nil result set with a nil error means
// there was nothing to check.
func (r *CheckRunner) Execute() (*status.ResultSet, error) {
	if len(r.cfg.Environments) == 0 {
		_, _ = fmt.Fprintln(r.out, "No environments found in the configuration file. Exiting.")
		return nil, nil
	}
	if len(r.cfg.Paths) == 0 {
		_, _ = fmt.Fprintln(r.out, "No paths found in the configuration file. Exiting.")
		return nil, nil
	}

	targets, err := plan.Plan(r.cfg, r.opts.Env)
	if err != nil {
		return nil, err
	}
	if r.opts.Env != "" {
		_, _ = fmt.Fprintf(r.out, "\nRunning tests for specific environment: %s\n", r.opts.Env)
	} else {
		_, _ = fmt.Fprintln(r.out, "\nRunning tests for ALL environments found in config.")
	}

	engine, err := r.newEngine()
	if err != nil {
		return nil, err
	}
	_, _ = fmt.Fprintf(r.out, "Initiating %d requests...\n", len(targets))
	return engine.Run(r.ctx, targets)
}

func (r *CheckRunner) newEngine() (*orchestrator.Engine, error) {
	timeout, err := r.cfg.HTTPTimeout()
	if err != nil {
		return nil, err
	}
	tlsCfg, err := r.cfg.ClientTLS()
	if err != nil {
		return nil, err
	}
	concurrency := r.cfg.Client.Concurrency
	if r.opts.Concurrency >= 0 {
		concurrency = r.opts.Concurrency
	}

	h := httpc.Httpc{TlsConfig: tlsCfg, Timeout: timeout, Logger: common.GetLogger()}
	r.logger.Debug("http client configured",
		"timeout", timeout,
		"insecure", r.cfg.Client.Insecure,
		"concurrency", concurrency)

	return &orchestrator.Engine{
		Client:      h.New(),
		Policy:      r.cfg.ErrorPolicy(),
		Concurrency: concurrency,
	}, nil
}

// Report prints the console tables and writes the CSV report when requested
func (r *CheckRunner) Report(rs *status.ResultSet) error {
	if err := report.NewConsole(r.out, r.opts.NoColor).Write(rs); err != nil {
		return err
	}
	if r.opts.OutputPath != "" {
		_, _ = fmt.Fprintf(r.out, "\nSaving report to CSV: %s\n", r.opts.OutputPath)
		if err := report.WriteCSVFile(r.opts.OutputPath, rs.Results); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(r.out, "CSV report saved successfully.")
	}
	r.logger.Info("check run finished", "run_id", rs.RunID, "summary", rs.FormatHuman())
	return nil
}

// Run executes the complete check process
func (r *CheckRunner) Run() error {
	if err := r.LoadConfiguration(); err != nil {
		return err
	}
	rs, err := r.Execute()
	if err != nil {
		return err
	}
	if rs == nil {
		return nil
	}
	if err := r.Report(rs); err != nil {
		return err
	}
	if r.opts.FailOnError && rs.HasFailures() {
		return fmt.Errorf("%w: %d of %d", ErrChecksFailed, rs.FailedCount(), rs.Total())
	}
	return nil
}
