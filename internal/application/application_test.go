package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/edgeconf/internal/config"
	"github.com/eugenenazirov/edgeconf/internal/propagate"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) (*App, *observer.ObservedLogs, string) {
	t.Helper()

	root := t.TempDir()
	cfg, err := config.Load(nil)
	if err != nil {
		t.Fatalf("config.Load returned error: %v", err)
	}
	cfg.Root = root
	if mutate != nil {
		mutate(&cfg)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	app, err := New(cfg, zap.New(core))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return app, logs, root
}

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestNewRequiresLogger(t *testing.T) {
	if _, err := New(config.Config{}, nil); err == nil {
		t.Fatalf("expected error for nil logger")
	}
}

func TestRunReportsEveryTarget(t *testing.T) {
	app, logs, root := newTestApp(t, nil)
	writeFile(t, root, "edgeless/target/debug/controller.toml", "controller_url = \"\"\n")
	writeFile(t, root, "edgeless/target/debug/orchestrator.toml", "[general]\n")
	writeFile(t, root, "edgeless/target/debug/cli.toml", "controller_url = \"\"\n")
	writeFile(t, root, "node_to_orc_latency_measurement/config.json", "{}")

	results, err := app.Run(context.Background(), "debug", propagate.Inputs{NodeIP: "1.1.1.1", ControllerIP: "2.2.2.2"})
	if err != nil {
		t.Fatalf("Run returned error outside strict mode: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}

	if n := logs.FilterMessage("TOML config file updated").Len(); n != 2 {
		t.Fatalf("expected 2 TOML updates, got %d", n)
	}
	if n := logs.FilterMessage("JSON config file updated").Len(); n != 1 {
		t.Fatalf("expected 1 JSON update, got %d", n)
	}

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warnings) != 1 || warnings[0].Message != "File not found" {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if got := warnings[0].ContextMap()["path"]; got != filepath.Join(root, "edgeless", "target", "debug", "node.toml") {
		t.Fatalf("unexpected warning path %v", got)
	}

	errorsLogged := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	if len(errorsLogged) != 1 || errorsLogged[0].Message != "An error occurred" {
		t.Fatalf("expected orchestrator failure to be logged, got %v", errorsLogged)
	}

	summary := logs.FilterMessage("Propagation finished").All()
	if len(summary) != 1 {
		t.Fatalf("expected one summary line, got %d", len(summary))
	}
	fields := summary[0].ContextMap()
	if fields["updated"] != int64(3) || fields["not_found"] != int64(1) || fields["failed"] != int64(1) {
		t.Fatalf("unexpected summary %v", fields)
	}
}

func TestRunStrictCombinesFailures(t *testing.T) {
	app, _, _ := newTestApp(t, func(cfg *config.Config) { cfg.Strict = true })

	_, err := app.Run(context.Background(), "release", propagate.Inputs{NodeIP: "1.1.1.1", ControllerIP: "2.2.2.2"})
	if err == nil {
		t.Fatalf("expected strict mode to report missing files")
	}
	if n := len(multierr.Errors(err)); n != 5 {
		t.Fatalf("expected 5 combined errors, got %d: %v", n, err)
	}
}

func TestRunDryRunLeavesFiles(t *testing.T) {
	app, logs, root := newTestApp(t, func(cfg *config.Config) { cfg.DryRun = true })
	original := "controller_url = \"https://old:7001\"\n"
	writeFile(t, root, "edgeless/target/debug/cli.toml", original)

	results, err := app.Run(context.Background(), "debug", propagate.Inputs{ControllerIP: "2.2.2.2"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if results[3].Status != propagate.StatusPlanned {
		t.Fatalf("expected cli target to be planned, got %v", results[3].Status)
	}

	raw, err := os.ReadFile(filepath.Join(root, "edgeless", "target", "debug", "cli.toml"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != original {
		t.Fatalf("dry run modified the file:\n%s", raw)
	}

	planned := logs.FilterMessage("Planned change").All()
	if len(planned) != 1 {
		t.Fatalf("expected one planned change, got %d", len(planned))
	}
	if got := planned[0].ContextMap()["new"]; got != "https://2.2.2.2:7001" {
		t.Fatalf("unexpected planned value %v", got)
	}
}
