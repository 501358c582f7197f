package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:   "log-sentinel",
		Short: "Watch authentication logs and report suspicious activity",
		Long: `log-sentinel reads syslog-style authentication lines from a file or standard
input, applies a fixed set of detection rules and prints one alert per line.

Rules:
- auth_failure  failed passwords, invalid users, PAM authentication failures
- ssh_success   accepted SSH logins
- sudo_usage    sudo commands and failed sudo authentication
- brute_force   too many failures from one address inside the window`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSentinel(cmd, opts)
		},
	}

	bindRunFlags(rootCmd, opts)
	rootCmd.AddCommand(newHistoryCmd())
	return rootCmd
}

func bindRunFlags(cmd *cobra.Command, opts *runOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	flags.StringVar(&opts.file, "file", "", "Read lines from this file")
	flags.BoolVar(&opts.stdin, "stdin", false, "Read lines from standard input")
	flags.BoolVar(&opts.follow, "follow", false, "Keep reading the file as it grows (requires --file)")
	flags.BoolVar(&opts.poll, "poll", true, "Poll the followed file instead of using inotify")
	flags.BoolVar(&opts.json, "json", false, "Write alerts as JSON Lines")
	flags.BoolVar(&opts.summary, "summary", false, "Print counts by rule and top addresses at exit")
	flags.IntVar(&opts.bruteThreshold, "brute-threshold", 0, "Failures from one address that raise a brute-force alert (default 8)")
	flags.IntVar(&opts.bruteWindowSecs, "brute-window-secs", 0, "Brute-force sliding window in seconds (default 60)")
	flags.IntVar(&opts.maxTracked, "max-tracked", 0, "Maximum addresses with brute-force state (default 5000)")
	flags.StringVar(&opts.auditLog, "audit-log", "", "Append every alert as JSON to this file")
	flags.StringVar(&opts.archive, "archive", "", "Store every alert in this SQLite database")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}
