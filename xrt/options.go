package xrt

import "github.com/rs/zerolog"

// DefaultVariable is the genx variable holding the channel records.
const DefaultVariable = "SAVEGEN0"

// Option configures catalog loading.
type Option func(*loadOptions)

type loadOptions struct {
	logger   zerolog.Logger
	variable string
}

func defaultLoadOptions() *loadOptions {
	return &loadOptions{
		logger:   zerolog.Nop(),
		variable: DefaultVariable,
	}
}

// WithLogger sets the logger that receives load diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(o *loadOptions) {
		o.logger = l
	}
}

// WithVariable selects the genx variable holding the channel records.
func WithVariable(name string) Option {
	return func(o *loadOptions) {
		if name != "" {
			o.variable = name
		}
	}
}
