package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/elastisim/internal/config"
	"github.com/san-kum/elastisim/internal/driver"
	"github.com/san-kum/elastisim/internal/gui"
	"github.com/san-kum/elastisim/internal/sim"
	"github.com/san-kum/elastisim/internal/storage"
	"github.com/san-kum/elastisim/internal/tui"
	"github.com/san-kum/elastisim/internal/viewer"
)

// sourceRoot is the directory holding samples/; set with
// -ldflags "-X main.sourceRoot=/path/to/src".
var sourceRoot = "."

const usageText = `Usage:
	./bunnyexpand [--demo] [--point]
	demo: Turns on save screenshots and exits after 5 seconds
	point: collapses to (0 0 0)

`

var (
	errNoDataDir     = errors.New("--data is required to read run records")
	errUnknownPreset = errors.New("unknown scene preset")
)

type options struct {
	demo     bool
	point    bool
	viewer   string
	seed     int64
	dataDir  string
	frameDir string
	verbose  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bunnyexpand",
	})

	root := newRootCmd(logger, runScenario)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("run failed", "err", err)
		stop()
		os.Exit(1)
	}
}

type runFunc func(ctx context.Context, logger *log.Logger, opts options) error

func newRootCmd(logger *log.Logger, run runFunc) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "bunnyexpand",
		Short:         "scramble or collapse an elastic bunny and watch it recover",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				logger.SetLevel(log.DebugLevel)
			}
			return run(cmd.Context(), logger, opts)
		},
	}
	root.Flags().BoolVar(&opts.demo, "demo", false, "save frames and exit after 5 seconds of simulated time")
	root.Flags().BoolVar(&opts.point, "point", false, "collapse every node to the origin")
	root.Flags().StringVar(&opts.viewer, "viewer", "gui", "viewer: gui, tui or headless")
	root.Flags().Int64Var(&opts.seed, "seed", 0, "scramble seed (0 picks one)")
	root.Flags().StringVar(&opts.frameDir, "frames", "frames", "directory for saved frames")
	root.Flags().BoolVar(&opts.verbose, "verbose", false, "debug logging")
	root.PersistentFlags().StringVar(&opts.dataDir, "data", "", "directory for run records")

	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != root {
			defaultHelp(cmd, args)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), usageText)
	})
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newRunsCmd(&opts), newSceneCmd())
	return root
}

func runScenario(ctx context.Context, logger *log.Logger, opts options) error {
	viewers := viewer.Registry{
		"gui":      gui.New,
		"tui":      tui.New,
		"headless": viewer.NewHeadless,
	}
	cfg := driver.RunConfig{
		Demo:        opts.demo,
		SinglePoint: opts.point,
		Viewer:      opts.viewer,
		Seed:        opts.seed,
		DataDir:     opts.dataDir,
		FrameDir:    opts.frameDir,
	}

	res, err := driver.New(cfg, sim.NewContext(logger), viewers, logger).Run(ctx, driver.ScenePath(sourceRoot))
	if err != nil {
		return err
	}
	logger.Info("done", "steps", res.Steps, "time", res.SimTime, "energy", res.Energy, "drift", res.Drift, "stability", res.Stability, "timed_out", res.TimedOut)
	return nil
}

func newRunsCmd(opts *options) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dataDir == "" {
				return errNoDataDir
			}
			return listRuns(cmd.OutOrStdout(), opts.dataDir)
		},
	}
	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dataDir == "" {
				return errNoDataDir
			}
			return showRun(cmd.OutOrStdout(), opts.dataDir, args[0])
		},
	}
	runsCmd.AddCommand(showCmd)
	return runsCmd
}

func listRuns(out io.Writer, dataDir string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTIME\tSTEPS\tSIM TIME\tENERGY\tVIEWER")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4f\t%s\n",
			run.ID,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.SimTime,
			run.FinalEnergy,
			run.Viewer,
		)
	}
	return w.Flush()
}

func showRun(out io.Writer, dataDir, runID string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	nodes, err := st.LoadNodes(runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run:     %s\n", meta.ID)
	fmt.Fprintf(out, "scene:   %s (%s)\n", meta.Scene, meta.Mode)
	fmt.Fprintf(out, "seed:    %d\n", meta.Seed)
	fmt.Fprintf(out, "steps:   %d (dt %.4fs, %.2fs simulated)\n", meta.Steps, meta.Dt, meta.SimTime)
	fmt.Fprintf(out, "energy:  %.6f\n", meta.FinalEnergy)
	fmt.Fprintf(out, "nodes:   %d\n", nodes.Len())
	names := make([]string, 0, len(meta.Metrics))
	for name := range meta.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%-8s %.6f\n", name+":", meta.Metrics[name])
	}
	return nil
}

func newSceneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scene [preset] [file]",
		Short: "list scene presets or write one to an .xml or .yaml file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or a preset and a file, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range config.ListPresets() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			cfg := config.GetPreset(args[0])
			if cfg == nil {
				return fmt.Errorf("%w: %s", errUnknownPreset, args[0])
			}
			if err := config.Save(args[1], cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s to %s\n", args[0], args[1])
			return nil
		},
	}
}
