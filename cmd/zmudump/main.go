// zmudump captures a process memory snapshot into a .zmu artifact and
// inspects existing artifacts.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"zmudump/internal/artifact"
	"zmudump/internal/config"
	"zmudump/internal/procmaps"
	"zmudump/internal/snapshot"
)

// Version information injected by GoReleaser at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		flagCfg    config.Config
	)

	root := &cobra.Command{
		Use:     "zmudump",
		Short:   "Capture a memory snapshot of a running process",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, cfg, &flagCfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runSnapshot(cfg)
		},
	}

	root.Flags().IntVarP(&flagCfg.PID, "pid", "p", 0, "target process id")
	root.Flags().StringVarP(&flagCfg.Output, "output", "o", "", "artifact path (default memory_dump.zmu)")
	root.Flags().IntVarP(&flagCfg.Verbosity, "verbosity", "v", 0, "log verbosity (0 warn, 1 info, 2 debug)")
	root.Flags().BoolVar(&flagCfg.NoColor, "no-color", false, "disable bold region diagnostics")
	root.Flags().BoolVarP(&flagCfg.Quiet, "quiet", "q", false, "suppress per-region diagnostics")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")

	root.AddCommand(newInspectCmd())
	return root
}

// applyFlagOverrides lets explicitly-set flags win over file and
// environment configuration.
func applyFlagOverrides(cmd *cobra.Command, cfg, flags *config.Config) {
	if cmd.Flags().Changed("pid") {
		cfg.PID = flags.PID
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = flags.Output
	}
	if cmd.Flags().Changed("verbosity") {
		cfg.Verbosity = flags.Verbosity
	}
	if cmd.Flags().Changed("no-color") {
		cfg.NoColor = flags.NoColor
	}
	if cmd.Flags().Changed("quiet") {
		cfg.Quiet = flags.Quiet
	}
}

func runSnapshot(cfg *config.Config) error {
	log, err := newLogger(cfg.Verbosity)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	proc, err := procmaps.Open(cfg.PID)
	if err != nil {
		return err
	}
	defer func() {
		_ = proc.Close()
	}()

	opts := snapshot.Options{
		NoColor: cfg.NoColor,
		Logger:  log,
	}
	if cfg.Quiet {
		opts.DiagnosticWriter = io.Discard
	}

	snap := snapshot.New(proc, proc, proc, proc, nil, opts)

	path := cfg.Output
	if err := snap.SnapshotToFile(path); err != nil {
		return err
	}

	if path == "" {
		path = artifact.DefaultFileName
	}
	log.Info("wrote snapshot",
		zap.Int("pid", cfg.PID),
		zap.String("path", path))
	return nil
}

// newLogger builds a console logger whose level follows the
// verbosity setting.
func newLogger(verbosity int) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	switch {
	case verbosity >= 2:
		level = zapcore.DebugLevel
	case verbosity == 1:
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}
