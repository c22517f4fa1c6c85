package purge

// Progress reports one step of a Purge batch. It is delivered once before
// an attempt (Outcome nil) and once after it.
type Progress struct {
	// Position is 1-based.
	Position int
	Total    int
	Name     string
	Outcome  *Outcome
}

// Option configures Analyze and Purge.
type Option func(*options)

type options struct {
	metrics  *Metrics
	progress func(Progress)
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMetrics records stage and attempt metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithProgress calls fn before and after each deletion attempt.
func WithProgress(fn func(Progress)) Option {
	return func(o *options) { o.progress = fn }
}
