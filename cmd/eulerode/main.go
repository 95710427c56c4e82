package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/eulerode/internal/logging"
)

var (
	dataDir     string
	logLevel    string
	metricsFile string

	configFile string
	preset     string
	t0         float64
	tBound     float64
	y0         []float64
	h          float64
	params     map[string]string
	opts       map[string]string
	tEval      []float64
	dense      bool
	maxSteps   int
	noSave     bool
	output     string

	stepSizes []float64
	jobs      int

	// Phase plot axes
	xAxis int
	yAxis int
	// Steps per frame for the live view
	stepsPerFrame int

	logger *logrus.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	recorder = nil

	rootCmd := &cobra.Command{
		Use:           "eulerode",
		Short:         "fixed-step explicit euler ode solver",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config, then \"data\")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write prometheus textfile metrics here")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "solve an initial value problem",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addProblemFlags(runCmd)
	addStepFlag(runCmd)
	runCmd.Flags().Float64SliceVar(&tEval, "t-eval", nil, "times at which to sample the solution")
	runCmd.Flags().BoolVar(&dense, "dense", false, "keep the dense output")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step limit (0 = none)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVarP(&output, "output", "o", "summary", "output format: summary, csv or json")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "solve the same problem for several step sizes in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepStepSizes,
	}
	addProblemFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&stepSizes, "hs", []float64{0.1, 0.05, 0.025, 0.0125}, "step sizes")
	sweepCmd.Flags().IntVar(&jobs, "jobs", 0, "runs in flight (0 = all)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run states to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models and their parameters",
		RunE:  listModels,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "watch a run step by step in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addProblemFlags(liveCmd)
	addStepFlag(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 1, "steps taken per frame")

	rootCmd.AddCommand(runCmd, sweepCmd, listCmd, plotCmd, phaseCmd, liveCmd, exportCSVCmd, exportJSONCmd, presetsCmd, modelsCmd)
	return rootCmd
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&t0, "t0", 0, "initial time")
	cmd.Flags().Float64Var(&tBound, "t-bound", 1, "boundary time")
	cmd.Flags().Float64SliceVar(&y0, "y0", nil, "initial state (default: model's)")
	cmd.Flags().StringToStringVar(&params, "param", nil, "model parameter name=value")
	cmd.Flags().StringToStringVar(&opts, "opt", nil, "solver option name=value")
}

// addStepFlag registers --h. sweep takes its step sizes from --hs instead.
func addStepFlag(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&h, "h", 0, "step size (default |t_bound - t0| / 100)")
}
