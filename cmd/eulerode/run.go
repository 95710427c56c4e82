package main

import (
	"fmt"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/eulerode/internal/config"
	"github.com/san-kum/eulerode/internal/experiment"
	"github.com/san-kum/eulerode/internal/metrics"
	"github.com/san-kum/eulerode/internal/sim"
	"github.com/san-kum/eulerode/internal/storage"
)

// loadConfig layers the preset (or the defaults), the config file, env, the
// model argument and finally any flags the user set.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	model := cfg.Model
	if len(args) > 0 {
		model = args[0]
	}

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, sortedPresets(model))
		}
		if err := config.LoadInto(p, configFile); err != nil {
			return nil, err
		}
		cfg = p
	}
	cfg.Model = model

	flags := cmd.Flags()
	if flags.Changed("t0") {
		cfg.T0 = t0
	}
	if flags.Changed("t-bound") {
		cfg.TBound = tBound
	}
	if flags.Changed("y0") {
		cfg.Y0 = y0
	}
	if len(params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for name, raw := range params {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("param %s: %w", name, err)
			}
			cfg.Params[name] = v
		}
	}
	if len(opts) > 0 || flags.Changed("h") {
		if cfg.Options == nil {
			cfg.Options = make(map[string]any, len(opts)+1)
		}
		for k, v := range opts {
			cfg.Options[k] = v
		}
		if flags.Changed("h") {
			cfg.Options["h"] = h
		}
	}
	if flags.Lookup("t-eval") != nil && flags.Changed("t-eval") {
		cfg.TEval = tEval
	}
	if flags.Lookup("dense") != nil && flags.Changed("dense") {
		cfg.DenseOutput = dense
	}
	if flags.Lookup("max-steps") != nil && flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	runID := ""
	if !noSave {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err = st.Save(storage.RunMetadata{
			Model:  cfg.Model,
			Method: cfg.Method,
			T0:     cfg.T0,
			TBound: cfg.TBound,
			H:      stepSize(exp),
			Y0:     exp.InitialState(),
			Params: exp.Model().Params(),
		}, result)
		if err != nil {
			return err
		}
		logger.WithField("run_id", runID).Debug("run saved")
	}

	if err := recordMetrics(cfg, result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch output {
	case "csv":
		return storage.WriteStatesCSV(out, result.Times, result.States)
	case "json":
		return storage.WriteJSON(out, storage.NewExportData(cfg.Model, cfg.Method, cfg.T0, cfg.TBound, result))
	case "summary":
		fmt.Fprint(out, renderSummary(cfg, runID, result))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}

func sweepStepSizes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	results, err := exp.Sweep(cmd.Context(), stepSizes, jobs)
	if err != nil {
		return err
	}

	for _, res := range results {
		if err := recordMetrics(cfg, res); err != nil {
			return err
		}
	}

	names := make([]string, 0)
	if len(results) > 0 {
		for name := range results[0].Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "H\tSTEPS\tNFEV\tSTATUS")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)

	for i, res := range results {
		fmt.Fprintf(w, "%g\t%d\t%d\t%s", stepSizes[i], res.StepsTaken, res.NFev, res.Status)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.6g", res.Metrics[name])
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}

func recordMetrics(cfg *config.Config, result *sim.Result) error {
	if metricsFile == "" {
		return nil
	}
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	recorder.Observe(cfg.Model, cfg.Method, result)
	return recorder.WriteTextfile(metricsFile)
}

var recorder *metrics.Recorder

type stepSizer interface {
	H() float64
}

func stepSize(exp *experiment.Experiment) float64 {
	if s, ok := exp.Stepper().(stepSizer); ok {
		return s.H()
	}
	return 0
}

func sortedPresets(model string) []string {
	presets := config.ListPresets(model)
	sort.Strings(presets)
	return presets
}
