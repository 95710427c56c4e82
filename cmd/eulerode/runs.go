package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/eulerode/internal/analysis"
	"github.com/san-kum/eulerode/internal/config"
	"github.com/san-kum/eulerode/internal/experiment"
	"github.com/san-kum/eulerode/internal/ode"
	"github.com/san-kum/eulerode/internal/sim"
	"github.com/san-kum/eulerode/internal/storage"
	"github.com/san-kum/eulerode/internal/viz"
)

func openStore() (*storage.Store, error) {
	if dataDir != "" {
		return storage.New(dataDir), nil
	}
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tMETHOD\tTIME\tSPAN\tH\tSTEPS\tSTATUS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t[%g, %g]\t%g\t%d\t%s\n",
			run.ID,
			run.Model,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.T0,
			run.TBound,
			run.H,
			run.Steps,
			run.Status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "model: %s\n", meta.Model)
	fmt.Fprintf(out, "samples: %d\n\n", len(states))

	numVars := len(states[0])
	maxPlots := 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption(meta.Model, varIdx)),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	portrait, err := analysis.NewPhasePortrait(states, xAxis, yAxis)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "phase portrait x%d vs x%d (%d points)\n\n", yAxis, xAxis, len(portrait.Points))
	fmt.Fprint(out, portrait.ASCII(70, 24))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(); err != nil {
		return err
	}

	return viz.Run(viz.NewModel(exp.Stepper(), exp.Model(), cfg.Model, stepsPerFrame))
}

func caption(model string, idx int) string {
	names := map[string][]string{
		"oscillator": {"position", "velocity"},
		"pendulum":   {"theta (angle)", "omega (angular velocity)"},
		"lorenz":     {"x", "y", "z"},
		"logistic":   {"population"},
	}
	if n, ok := names[model]; ok && idx < len(n) {
		return n[idx]
	}
	return fmt.Sprintf("x%d vs time", idx)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.WriteStatesCSV(cmd.OutOrStdout(), times, states)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	result := &sim.Result{
		Times:      times,
		States:     states,
		Status:     parseStatus(meta.Status),
		Message:    meta.Message,
		StepsTaken: meta.Steps,
		NFev:       meta.NFev,
		Metrics:    meta.Metrics,
	}
	result.Success = result.Status == ode.StatusFinished

	return storage.WriteJSON(cmd.OutOrStdout(), storage.NewExportData(meta.Model, meta.Method, meta.T0, meta.TBound, result))
}

func parseStatus(s string) ode.Status {
	for _, st := range []ode.Status{ode.StatusRunning, ode.StatusFinished, ode.StatusFailed} {
		if st.String() == s {
			return st
		}
	}
	return ode.StatusFailed
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	presets := sortedPresets(args[0])
	if len(presets) == 0 {
		fmt.Fprintf(out, "no presets for model: %s\n", args[0])
		return nil
	}
	fmt.Fprintf(out, "presets for %s:\n", args[0])
	for _, p := range presets {
		cfg := config.GetPreset(args[0], p)
		fmt.Fprintf(out, "  %-12s t=[%g, %g] y0=%v h=%v\n", p, cfg.T0, cfg.TBound, cfg.Y0, cfg.Options["h"])
	}
	return nil
}

func listModels(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tDIM\tPARAMS")
	for _, name := range registry.ListModels() {
		m, err := registry.GetModel(name)
		if err != nil {
			return err
		}

		p := m.Params()
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%g", k, p[k])
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, m.StateDim(), strings.Join(parts, " "))
	}
	return w.Flush()
}
