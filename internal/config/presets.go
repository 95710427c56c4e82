package config

var Presets = map[string]map[string]*Config{
	"decay": {
		"scenario": {
			Model: "decay", Method: "euler", T0: 0, TBound: 1, Y0: []float64{1},
			Options: map[string]any{"h": 0.5}, ValidateState: true,
		},
		"backward": {
			Model: "decay", Method: "euler", T0: 1, TBound: 0, Y0: []float64{1},
			Options: map[string]any{"h": 0.4}, ValidateState: true,
		},
		"long": {
			Model: "decay", Method: "euler", T0: 0, TBound: 10, Y0: []float64{1},
			ValidateState: true,
		},
	},
	"oscillator": {
		"cycle": {
			Model: "oscillator", Method: "euler", T0: 0, TBound: 6.283185307179586, Y0: []float64{1, 0},
			Options: map[string]any{"h": 0.001}, ValidateState: true,
		},
		"coarse": {
			Model: "oscillator", Method: "euler", T0: 0, TBound: 6.283185307179586, Y0: []float64{1, 0},
			Options: map[string]any{"h": 0.1}, ValidateState: true,
		},
	},
	"logistic": {
		"growth": {
			Model: "logistic", Method: "euler", T0: 0, TBound: 10, Y0: []float64{0.5},
			Options: map[string]any{"h": 0.01}, ValidateState: true,
		},
	},
	"pendulum": {
		"small": {
			Model: "pendulum", Method: "euler", T0: 0, TBound: 20, Y0: []float64{0.2, 0},
			Options: map[string]any{"h": 0.001}, ValidateState: true,
		},
		"large": {
			Model: "pendulum", Method: "euler", T0: 0, TBound: 20, Y0: []float64{2.5, 0},
			Options: map[string]any{"h": 0.001}, ValidateState: true,
		},
	},
	"lorenz": {
		"attractor": {
			Model: "lorenz", Method: "euler", T0: 0, TBound: 30, Y0: []float64{1, 1, 1},
			Options: map[string]any{"h": 0.001}, ValidateState: true,
		},
	},
	"vanderpol": {
		"limit_cycle": {
			Model: "vanderpol", Method: "euler", T0: 0, TBound: 20, Y0: []float64{2, 0},
			Options: map[string]any{"h": 0.005}, ValidateState: true,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	out := cfg.Clone()
	out.DataDir = DefaultData
	return out
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
