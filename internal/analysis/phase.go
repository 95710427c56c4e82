package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/eulerode/internal/ode"
)

var ErrIndex = errors.New("analysis: state index out of range")

type Point struct{ X, Y float64 }

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// NewPhasePortrait projects recorded states onto components xIdx and yIdx.
func NewPhasePortrait(states []ode.State, xIdx, yIdx int) (*PhasePortrait2D, error) {
	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, len(states)),
	}

	for i, s := range states {
		if xIdx < 0 || yIdx < 0 || xIdx >= len(s) || yIdx >= len(s) {
			return nil, fmt.Errorf("%w: state %d has %d components, want x%d and x%d", ErrIndex, i, len(s), xIdx, yIdx)
		}
		portrait.Points = append(portrait.Points, Point{X: s[xIdx], Y: s[yIdx]})
	}

	return portrait, nil
}

// ASCII renders the portrait on a width x height character grid.
func (p *PhasePortrait2D) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y

	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// NewPoincareSection records (x[recordX], x[recordY]) each time x[crossIdx]
// crosses threshold going up, interpolated linearly between recorded states.
func NewPoincareSection(states []ode.State, crossIdx int, threshold float64, recordX, recordY int) (*PhasePortrait2D, error) {
	section := &PhasePortrait2D{XIndex: recordX, YIndex: recordY, Points: make([]Point, 0)}

	for i, s := range states {
		for _, idx := range []int{crossIdx, recordX, recordY} {
			if idx < 0 || idx >= len(s) {
				return nil, fmt.Errorf("%w: state %d has %d components, want x%d", ErrIndex, i, len(s), idx)
			}
		}
		if i == 0 {
			continue
		}

		prev := states[i-1]
		if prev[crossIdx] < threshold && s[crossIdx] >= threshold {
			frac := (threshold - prev[crossIdx]) / (s[crossIdx] - prev[crossIdx])
			section.Points = append(section.Points, Point{
				X: prev[recordX] + frac*(s[recordX]-prev[recordX]),
				Y: prev[recordY] + frac*(s[recordY]-prev[recordY]),
			})
		}
	}

	return section, nil
}
