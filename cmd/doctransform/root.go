package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dgallion1/doctransform/internal/config"
	"github.com/dgallion1/doctransform/internal/docstore"
	"github.com/dgallion1/doctransform/internal/pipeline"
	"github.com/dgallion1/doctransform/internal/transform"
)

// globalFlags override the environment configuration.
type globalFlags struct {
	docRoot  string
	settings string
	provider string
	model    string
	traceDir string
	logLevel string
	noBackup bool
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.docRoot, "root", "", "document root directory (DOC_ROOT)")
	fs.StringVar(&g.settings, "settings", "", "JSONC settings file (DOCTRANSFORM_SETTINGS)")
	fs.StringVar(&g.provider, "provider", "", "LLM provider: anthropic, openai, gemini or ollama (LLM_PROVIDER)")
	fs.StringVar(&g.model, "model", "", "model name (LLM_MODEL)")
	fs.StringVar(&g.traceDir, "trace-dir", "", "write per-feature processing logs here (TRACE_DIR)")
	fs.StringVar(&g.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.BoolVar(&g.noBackup, "no-backup", false, "do not back up documents before rewriting them")
}

// config loads the environment, then the settings file, then the flags
// that were set explicitly.
func (g *globalFlags) config(fs *pflag.FlagSet) (config.Config, error) {
	cfg := config.Load()
	if fs.Changed("settings") {
		cfg.SettingsPath = g.settings
	}
	if err := cfg.LoadSettings(); err != nil {
		return cfg, err
	}
	if fs.Changed("root") {
		cfg.DocRoot = g.docRoot
	}
	if fs.Changed("provider") {
		cfg.Provider = g.provider
	}
	if fs.Changed("model") {
		cfg.Model = g.model
	}
	if fs.Changed("trace-dir") {
		cfg.TraceDir = g.traceDir
	}
	if g.noBackup {
		cfg.Backup = false
	}
	return cfg, nil
}

func (g *globalFlags) logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", g.logLevel)
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// app is everything a command needs to run the engine.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	store  *docstore.FileStore
	stats  *transform.LLMStats
	engine *pipeline.Engine
}

// newApp wires the store, the transformer and the engine. The provider is
// validated before any document is touched.
func newApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	if err := cfg.ValidateProvider(); err != nil {
		return nil, err
	}
	store, err := docstore.NewFileStore(cfg.DocRoot, cfg.BackupDir)
	if err != nil {
		return nil, err
	}
	t, err := transform.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create transformer: %w", err)
	}
	stats := transform.NewLLMStats(cfg.JobTTL)
	driver := pipeline.NewDriver(cfg, transform.Instrument(t, stats), log)

	var backup docstore.Backuper
	if cfg.Backup {
		backup = store
	}
	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		stats:  stats,
		engine: pipeline.NewEngine(store, backup, driver, log),
	}, nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "doctransform",
		Short:         "Punctuate, split, summarize and polish markdown documents with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	g.register(root.PersistentFlags())

	for _, feature := range config.Features {
		root.AddCommand(newFeatureCmd(g, feature))
	}
	root.AddCommand(newImportCmd(g), newListCmd(g), newServeCmd(g))
	return root
}

// setup resolves configuration and logging for cmd.
func setup(g *globalFlags, cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	log, err := g.logger()
	if err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := g.config(cmd.Flags())
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}
