package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/dgallion1/doctransform/internal/config"
	"github.com/dgallion1/doctransform/internal/docstore"
	"github.com/dgallion1/doctransform/internal/pipeline"
	"github.com/dgallion1/doctransform/internal/transform"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	want := append([]string{"import", "list", "serve"}, config.Features...)
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not found: %v", name, err)
		}
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("DOC_ROOT", "/from/env")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("DOCTRANSFORM_SETTINGS", "")

	g := &globalFlags{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	g.register(fs)
	if err := fs.Parse([]string{"--root", "/from/flag", "--no-backup"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := g.config(fs)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.DocRoot != "/from/flag" || cfg.Provider != "openai" || cfg.Model != "env-model" || cfg.Backup {
		t.Errorf("cfg = root %q provider %q model %q backup %v", cfg.DocRoot, cfg.Provider, cfg.Model, cfg.Backup)
	}
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	g := &globalFlags{logLevel: "loud"}
	if _, err := g.logger(); err == nil {
		t.Error("expected error for unknown level")
	}
	g.logLevel = "warn"
	if _, err := g.logger(); err != nil {
		t.Errorf("warn: %v", err)
	}
}

func TestRunBatchReportsFailures(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("hello."), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := docstore.NewFileStore(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	upper := transform.Func(func(_ context.Context, _, text string, _ transform.Options) (string, error) {
		return strings.ToUpper(text), nil
	})
	driver := &pipeline.Driver{
		Transformer: upper,
		Prompts:     transform.DefaultPrompts(),
		Sizes:       pipeline.Sizes{Cosmetic: 1000},
		Log:         log,
	}
	a := &app{log: log, store: store, engine: pipeline.NewEngine(store, nil, driver, log)}

	var out bytes.Buffer
	err = runBatch(context.Background(), a, config.Cosmetic, []string{"a.md", "missing.md"}, nil, &out)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(out.String(), "ok   a.md") || !strings.Contains(out.String(), "FAIL missing.md") {
		t.Errorf("output:\n%s", out.String())
	}
	got, _ := os.ReadFile(filepath.Join(dir, "a.md"))
	if string(got) != "HELLO." {
		t.Errorf("a.md = %q", got)
	}
}
