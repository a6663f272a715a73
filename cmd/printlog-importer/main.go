package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"printlog-importer/importer"
)

var (
	cfgPath          string
	spoolDir         string
	dbPath           string
	quarantineMarker string
	logLevel         string
	logFormat        string
)

var rootCmd = &cobra.Command{
	Use:   "printlog-importer",
	Short: "Print-log ingestion pipeline",
	Long: `printlog-importer streams delimited print-server log files from a
spool directory into a normalized database. Fully read files are deleted;
files that fail mid-read stay in place and are retried on the next run,
with already-imported records rejected by the dedup index.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Run one import pass (or loop with --poll)",
	RunE:  runImport,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stay resident and import as files land in the spool directory",
	RunE:  runWatch,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate sample spool files for local runs",
	RunE:  runSeed,
}

var (
	flagPoll            time.Duration
	flagInterval        time.Duration
	flagMetricsAddr     string
	flagSeedFiles       int
	flagSeedLines       int
	flagSeedMalformed   float64
	flagSeedDepartments int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file path")
	rootCmd.PersistentFlags().StringVar(&spoolDir, "spool-dir", "", "spool directory holding print log files")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default printlog.db)")
	rootCmd.PersistentFlags().StringVar(&quarantineMarker, "quarantine-marker", "", "skip files whose name contains this marker (default erro)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, notice, warn, error, critical")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json or text")

	importCmd.Flags().DurationVar(&flagPoll, "poll", 0, "repeat the import at this interval instead of exiting")
	importCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Prometheus listen address while polling")

	watchCmd.Flags().DurationVar(&flagInterval, "interval", time.Minute, "fallback import interval between filesystem events")
	watchCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Prometheus listen address")

	seedCmd.Flags().IntVar(&flagSeedFiles, "files", 1, "number of spool files to generate")
	seedCmd.Flags().IntVar(&flagSeedLines, "lines", 100, "lines per generated file")
	seedCmd.Flags().Float64Var(&flagSeedMalformed, "malformed-ratio", 0, "fraction of lines emitted with a missing field")
	seedCmd.Flags().IntVar(&flagSeedDepartments, "departments", 0, "also insert this many departments and reference them")

	rootCmd.AddCommand(importCmd, watchCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges the optional YAML file with flag overrides; a flag set
// on the command line wins over the file value.
func loadConfig(cmd *cobra.Command) (*importer.FileConfig, error) {
	cfg := &importer.FileConfig{}
	if cfgPath != "" {
		loaded, err := importer.LoadConfig(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	flags := cmd.Root().PersistentFlags()
	if flags.Changed("spool-dir") {
		cfg.SpoolDir = spoolDir
	}
	if flags.Changed("db") {
		cfg.DB = dbPath
	}
	if flags.Changed("quarantine-marker") {
		cfg.QuarantineMarker = quarantineMarker
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if cfg.DB == "" {
		cfg.DB = "printlog.db"
	}
	if cfg.SpoolDir == "" {
		return nil, errors.New("missing spool directory (use --spool-dir or config spool_dir)")
	}
	return cfg, nil
}

func newRunner(cfg *importer.FileConfig) (*importer.Runner, *importer.Logger, error) {
	log := importer.NewLogger(importer.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	r, err := importer.NewRunner(importer.RunnerConfig{
		SpoolDir:         cfg.SpoolDir,
		DBPath:           cfg.DB,
		QuarantineMarker: cfg.QuarantineMarker,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	return r, log, nil
}

func serveMetrics(addr string, log *importer.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("metrics listener failed", "error", err.Error())
		}
	}()
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, log, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	if flagPoll <= 0 && cfg.PollInterval > 0 {
		flagPoll = time.Duration(cfg.PollInterval)
	}
	if flagPoll <= 0 {
		return r.RunOnce()
	}

	serveMetrics(metricsAddr(cfg), log)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	for {
		if err := r.RunOnce(); err != nil && !errors.Is(err, importer.ErrImportRunning) {
			log.Critical("import run failed", "error", err.Error())
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(flagPoll):
		}
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, log, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	if cfg.PollInterval > 0 && !cmd.Flags().Changed("interval") {
		flagInterval = time.Duration(cfg.PollInterval)
	}
	serveMetrics(metricsAddr(cfg), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := r.Watch(ctx, flagInterval); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func metricsAddr(cfg *importer.FileConfig) string {
	if flagMetricsAddr != "" {
		return flagMetricsAddr
	}
	return cfg.MetricsAddr
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if flagSeedDepartments > 0 {
		db, err := importer.OpenDB(cfg.DB)
		if err != nil {
			return err
		}
		if err := importer.SeedDepartments(db, flagSeedDepartments, 0); err != nil {
			return err
		}
	}
	for i := 0; i < flagSeedFiles; i++ {
		path, err := importer.WriteSampleFile(cfg.SpoolDir, importer.SeedOptions{
			Lines:          flagSeedLines,
			MalformedRatio: flagSeedMalformed,
			Departments:    flagSeedDepartments,
		})
		if err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}
