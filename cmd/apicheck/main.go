package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apicheck",
		Short: "Check API endpoints across environments and report pass/fail",
		Long: `apicheck requests every configured path on every configured environment,
classifies each response by HTTP status and an optional JSON error code,
and prints passing and failing tables. Use --output to also write a CSV report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := NewCheckRunner(cmd.Context(), cmd.OutOrStdout())
			if err := r.InitializeFromViper(v); err != nil {
				return err
			}
			return r.Run()
		},
	}

	v.SetDefault("config", "")
	v.SetDefault("output", "")
	v.SetDefault("env", "")
	v.SetDefault("concurrency", -1)
	v.SetDefault("fail_on_error", false)
	v.SetDefault("no_color", false)

	// Environment variables support: APICHECK_CONFIG, APICHECK_ENV, ...
	v.SetEnvPrefix("APICHECK")
	v.AutomaticEnv()

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", v.GetString("config"), "path to the configuration file (.yaml, .yml, .toml or .json)")
	pf.String("env", v.GetString("env"), "only check the named environment")

	f := cmd.Flags()
	f.StringP("output", "o", v.GetString("output"), "optional path of the CSV report")
	f.Int("concurrency", v.GetInt("concurrency"), "maximum in-flight requests (0 = unbounded, -1 = use client.concurrency)")
	f.Bool("fail-on-error", v.GetBool("fail_on_error"), "exit with status 1 when any check fails")
	f.Bool("no-color", v.GetBool("no_color"), "disable colored PASS/FAIL output")

	_ = v.BindPFlag("config", pf.Lookup("config"))
	_ = v.BindPFlag("env", pf.Lookup("env"))
	_ = v.BindPFlag("output", f.Lookup("output"))
	_ = v.BindPFlag("concurrency", f.Lookup("concurrency"))
	_ = v.BindPFlag("fail_on_error", f.Lookup("fail-on-error"))
	_ = v.BindPFlag("no_color", f.Lookup("no-color"))

	cmd.AddCommand(newValidateCmd(v))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(viper.GetViper()).ExecuteContext(ctx)
	stop()
	if err != nil {
		exitHandler.LogFatalError(err, "command execution failed")
	}
}
