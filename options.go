package yangkit

import "github.com/yangkit/yangkit/schema"

// Option configures data model construction.
type Option interface{ apply(*config) }

type optionFunc func(*config)

func (f optionFunc) apply(cfg *config) {
	if cfg == nil {
		return
	}
	f(cfg)
}

type config struct {
	description   string
	classifier    schema.TypeClassifier
	groupingDepth int
}

func resolveOptions(opts []Option) config {
	var cfg config
	for _, o := range opts {
		o.apply(&cfg)
	}
	return cfg
}

// WithDescription attaches a human-readable model description.
func WithDescription(text string) Option {
	return optionFunc(func(cfg *config) {
		cfg.description = text
	})
}

// WithTypeClassifier overrides the value-type classifier used to map
// declared leaf types to categories.
func WithTypeClassifier(c schema.TypeClassifier) Option {
	return optionFunc(func(cfg *config) {
		cfg.classifier = c
	})
}

// WithGroupingDepth overrides the grouping expansion recursion bound.
func WithGroupingDepth(n int) Option {
	return optionFunc(func(cfg *config) {
		cfg.groupingDepth = n
	})
}
