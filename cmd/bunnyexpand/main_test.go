package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/elastisim/internal/config"
	"github.com/san-kum/elastisim/internal/dynamo"
	"github.com/san-kum/elastisim/internal/storage"
)

func execute(t *testing.T, args ...string) (string, *options, error) {
	t.Helper()
	var got *options
	run := func(ctx context.Context, logger *log.Logger, opts options) error {
		got = &opts
		return nil
	}
	cmd := newRootCmd(log.New(io.Discard), run)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		// nil makes cobra fall back to os.Args
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), got, err
}

func TestHelpPrintsUsageOnly(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {"-h"}, {"--demo", "--help"}} {
		out, got, err := execute(t, args...)
		if err != nil {
			t.Fatalf("%v: unexpected error %v", args, err)
		}
		if got != nil {
			t.Errorf("%v: scenario ran despite help", args)
		}
		if out != usageText {
			t.Errorf("%v: unexpected help output:\n%s", args, out)
		}
	}
}

func TestUsageText(t *testing.T) {
	lines := strings.Split(strings.TrimRight(usageText, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "[--demo] [--point]") {
		t.Errorf("usage line missing flags: %q", lines[1])
	}
}

func TestFlags(t *testing.T) {
	_, got, err := execute(t, "--demo", "--point", "--viewer", "headless", "--seed", "9", "--frames", "out", "--data", "runs")
	if err != nil {
		t.Fatal(err)
	}
	want := options{demo: true, point: true, viewer: "headless", seed: 9, frameDir: "out", dataDir: "runs"}
	if got == nil || *got != want {
		t.Errorf("options = %+v, want %+v", got, want)
	}
}

func TestDefaults(t *testing.T) {
	_, got, err := execute(t)
	if err != nil {
		t.Fatal(err)
	}
	if got.demo || got.point || got.viewer != "gui" || got.frameDir != "frames" || got.dataDir != "" {
		t.Errorf("unexpected defaults %+v", got)
	}
}

func TestRejectsPositionalArgs(t *testing.T) {
	if _, got, err := execute(t, "extra"); err == nil || got != nil {
		t.Error("expected positional arguments to be rejected")
	}
}

func TestRunErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	cmd := newRootCmd(log.New(io.Discard), func(context.Context, *log.Logger, options) error { return boom })
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	if err := cmd.Execute(); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestRunsCommands(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, "runs", "--data", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "no runs found") {
		t.Errorf("unexpected output %q", out)
	}

	id, err := storage.New(dir).Save(storage.RunMetadata{
		Scene:     "bunnyexpand",
		Mode:      "collapse",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Steps:     125,
		SimTime:   5,
		Viewer:    "headless",
		Metrics:   map[string]float64{"energy_drift": 0.5},
	}, dynamo.Positions{0, 0, 0, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}

	out, _, err = execute(t, "runs", "--data", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "collapse") {
		t.Errorf("listing missing run:\n%s", out)
	}

	out, _, err = execute(t, "runs", "show", id, "--data", dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"nodes:   2", "energy_drift:", "125"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	if _, _, err := execute(t, "runs"); !errors.Is(err, errNoDataDir) {
		t.Errorf("expected errNoDataDir, got %v", err)
	}
}

func TestSceneCommand(t *testing.T) {
	out, got, err := execute(t, "scene")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("scenario ran for scene listing")
	}
	if out != "bunnyexpand\nlattice\n" {
		t.Errorf("unexpected preset listing %q", out)
	}

	path := filepath.Join(t.TempDir(), "lattice.yaml")
	if _, _, err := execute(t, "scene", "lattice", path); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Body.Generator != "lattice" || cfg.Solver.Substeps != 20 {
		t.Errorf("unexpected scene %+v", cfg)
	}

	if _, _, err := execute(t, "scene", "teapot", path); !errors.Is(err, errUnknownPreset) {
		t.Errorf("expected errUnknownPreset, got %v", err)
	}
	if _, _, err := execute(t, "scene", "lattice"); err == nil {
		t.Error("expected a lone preset name to be rejected")
	}
}
