package query

import (
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-timeline/pkg/types"
)

// Option tweaks optional query collaborators.
type Option func(*queryOptions)

type queryOptions struct {
	gate   featuregate.FeatureGate
	masker *masker.Masker
	logger types.Logger
}

// WithFeatureGate wires the gate consulted for contact-detail exposure.
func WithFeatureGate(gate featuregate.FeatureGate) Option {
	return func(opts *queryOptions) {
		opts.gate = gate
	}
}

// WithMasker overrides the masker used when contacts are gated off.
func WithMasker(mask *masker.Masker) Option {
	return func(opts *queryOptions) {
		opts.masker = mask
	}
}

// WithLogger wires the query logger.
func WithLogger(logger types.Logger) Option {
	return func(opts *queryOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

func applyOptions(options []Option) queryOptions {
	opts := queryOptions{logger: types.NopLogger{}}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return opts
}
