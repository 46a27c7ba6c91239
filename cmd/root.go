package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gridbind/gridbind/internal/config"
	"github.com/gridbind/gridbind/internal/config/data"
	"github.com/gridbind/gridbind/internal/dao"
	"github.com/gridbind/gridbind/internal/logging"
	"github.com/gridbind/gridbind/internal/metrics"
	"github.com/gridbind/gridbind/internal/view"
)

const (
	appName    = "gridbind"
	appVersion = "0.1.0"
	storeTTL   = time.Minute
)

var (
	gbFlags     *data.Flags
	metricsAddr string
	rootCmd     = &cobra.Command{
		Use:   appName + " [file]",
		Short: "A terminal data grid for JSON, YAML and INI files",
		Long:  `gridbind binds the rows of a data file to an editable terminal grid.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
)

func init() {
	gbFlags = config.NewFlags()
	initGridBindFlags()
	rootCmd.AddCommand(versionCmd, schemaCmd, exportCmd)
}

func initGridBindFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(gbFlags.LogLevel, "logLevel", "l", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(gbFlags.LogFile, "logFile", "", "Log file path")
	pf.StringVar(gbFlags.Path, "path", "", "Path to the rows inside the document")
	pf.StringVar(gbFlags.Format, "format", "", "Source format (json, yaml, ini)")
	pf.StringVar(gbFlags.Sort, "sort", "", "Column to sort by")
	pf.BoolVar(gbFlags.Desc, "desc", false, "Sort descending")

	rootCmd.Flags().BoolVar(gbFlags.ReadOnly, "readonly", false, "Enable read-only mode")
	rootCmd.Flags().BoolVar(gbFlags.Write, "write", false, "Enable write mode (overrides readonly)")
	rootCmd.Flags().BoolVar(gbFlags.Headless, "headless", false, "Hide the menu and crumbs")
	rootCmd.Flags().StringVar(&metricsAddr, "metricsAddr", "", "Serve binding metrics on this address")

	exportCmd.Flags().StringVarP(gbFlags.Output, "output", "o", "", "Workbook path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	file := ""
	if len(args) > 0 {
		file = args[0]
	}

	// 1. Load configuration and apply CLI overrides
	cfg, err := loadConfig(file)
	if err != nil {
		return err
	}

	// 2. Start logging
	l, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	// 3. Load aliases and hotkeys
	aliases := config.NewAliases()
	if err := aliases.Load(); err != nil {
		l.Logger.Warn().Err(err).Msg("Aliases load failed")
	}
	hotKeys := config.NewHotKeys()
	if err := hotKeys.Load(); err != nil {
		l.Logger.Warn().Err(err).Msg("HotKeys load failed")
	}

	opts := []view.AppOption{
		view.WithLogger(l.Logger),
		view.WithStore(dao.NewStore(dao.NewFactory(""), storeTTL)),
		view.WithAliases(aliases),
		view.WithHotKeys(hotKeys),
	}

	// 4. Serve binding metrics
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, view.WithMetrics(metrics.NewCollector(reg)))
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			if err := metrics.Serve(ctx, metricsAddr, reg, l.Logger); err != nil {
				l.Logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	// 5. Create and initialize the TUI application
	app := view.NewApp(cfg, appVersion, opts...)
	if err := app.Init(); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// 6. Run the application
	return app.Run(file)
}

func loadConfig(file string) (*config.Config, error) {
	if err := config.InitLocs(); err != nil {
		return nil, fmt.Errorf("failed to initialize locations: %w", err)
	}
	if err := config.InitLogLoc(); err != nil {
		return nil, fmt.Errorf("failed to initialize log location: %w", err)
	}

	cfg := config.NewConfig()
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Refine(gbFlags, file); err != nil {
		return nil, fmt.Errorf("failed to refine configuration: %w", err)
	}
	_ = cfg.Save(false)

	return cfg, nil
}

func newLogger(cfg *config.Config) (*logging.Log, error) {
	path := cfg.GridBind.Logger.File
	if path == "" {
		path = config.AppLogFile
	}
	l, err := logging.New().FromPath(path).WithLevel(cfg.GridBind.Logger.Level).Make()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	return l, nil
}
