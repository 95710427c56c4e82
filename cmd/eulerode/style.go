package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/eulerode/internal/config"
	"github.com/san-kum/eulerode/internal/ode"
	"github.com/san-kum/eulerode/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")).
		Padding(0, 1)
)

func renderSummary(cfg *config.Config, runID string, result *sim.Result) string {
	var b strings.Builder

	b.WriteString(cyan.Bold(true).Render(fmt.Sprintf("%s / %s", cfg.Model, cfg.Method)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(dim.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(white.Render(value))
		b.WriteString("\n")
	}

	status := result.Status.String()
	switch result.Status {
	case ode.StatusFinished:
		status = green.Render(status)
	case ode.StatusFailed:
		status = red.Render(status)
	default:
		status = yellow.Render(status)
	}
	b.WriteString(dim.Render(fmt.Sprintf("%-10s", "status")))
	b.WriteString(status)
	b.WriteString("\n")

	row("message", result.Message)
	row("span", fmt.Sprintf("[%g, %g]", cfg.T0, cfg.TBound))
	row("steps", fmt.Sprintf("%d", result.StepsTaken))
	row("nfev", fmt.Sprintf("%d", result.NFev))
	if t, y, ok := result.Final(); ok {
		row("final", fmt.Sprintf("t=%.6f y=%v", t, formatState(y)))
	}
	if runID != "" {
		row("run id", runID)
	}

	if len(result.Metrics) > 0 {
		names := make([]string, 0, len(result.Metrics))
		for name := range result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\n")
		for _, name := range names {
			row(name, fmt.Sprintf("%.6g", result.Metrics[name]))
		}
	}

	return box.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func formatState(y ode.State) string {
	parts := make([]string, len(y))
	for i, v := range y {
		parts[i] = fmt.Sprintf("%.6f", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
