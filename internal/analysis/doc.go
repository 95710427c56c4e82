// Package analysis turns recorded trajectories into phase-space views.
//
//   - [NewPhasePortrait]: 2D phase space projection of a run
//   - [NewPoincareSection]: points where one component crosses a threshold
//
// Both render to plain text with [PhasePortrait2D.ASCII]:
//
//	p, err := analysis.NewPhasePortrait(result.States, 0, 1)
//	fmt.Print(p.ASCII(60, 20))
package analysis
