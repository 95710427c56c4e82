package integrators

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

// Options configures a stepper. Extra holds solver-generic options the
// method does not recognize; they are accepted, logged and ignored.
type Options struct {
	Vectorized     bool
	SupportComplex bool
	// H is the step magnitude; the sign is ignored. Zero selects
	// |t_bound - t0| / 100 unless HSet is true, in which case it is rejected.
	H      float64
	HSet   bool
	Extra  map[string]any
	Logger logrus.FieldLogger
}

type rawOptions struct {
	Vectorized     bool           `mapstructure:"vectorized"`
	SupportComplex bool           `mapstructure:"support_complex"`
	H              *float64       `mapstructure:"h"`
	Extra          map[string]any `mapstructure:",remain"`
}

// DecodeOptions decodes a loose option bag, as found in config files or on
// the command line, into Options. Values are weakly typed so "0.5" and
// "true" decode into their numeric and boolean fields.
func DecodeOptions(raw map[string]any) (Options, error) {
	var decoded rawOptions

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &decoded,
	})
	if err != nil {
		return Options{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Options{}, fmt.Errorf("decode solver options: %w", err)
	}

	opts := Options{
		Vectorized:     decoded.Vectorized,
		SupportComplex: decoded.SupportComplex,
		Extra:          decoded.Extra,
	}
	if decoded.H != nil {
		opts.H, opts.HSet = *decoded.H, true
	}
	return opts, nil
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

func (o Options) extraKeys() []string {
	keys := make([]string, 0, len(o.Extra))
	for k := range o.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
