package runnable

// Config carries per-call settings. It is assembled from Options and passed
// down through composed runnables, so a single call site can configure the
// whole pipeline.
type Config struct {
	// MaxConcurrency caps how many inputs a Batch call (or branches a
	// Parallel run, invoked or streamed) runs at once. Zero or negative
	// means unlimited.
	MaxConcurrency int

	// Callbacks receive lifecycle events for this run and all nested runs.
	Callbacks []CallbackHandler

	// Tags are arbitrary labels propagated to callbacks.
	Tags []string

	// Metadata is arbitrary key/value data propagated to callbacks.
	Metadata map[string]any

	// RunID overrides the generated ID for the top-level run. Nested runs
	// always receive generated IDs.
	RunID string

	// SessionID selects the conversation for history-wrapped runnables.
	SessionID string
}

// Option configures a single call to a Runnable.
type Option func(*Config)

// WithMaxConcurrency caps concurrent execution in Batch and Parallel calls.
// Values <= 0 leave concurrency unlimited.
func WithMaxConcurrency(n int) Option {
	return func(c *Config) {
		c.MaxConcurrency = n
	}
}

// WithCallbacks registers handlers for run lifecycle events.
func WithCallbacks(handlers ...CallbackHandler) Option {
	return func(c *Config) {
		c.Callbacks = append(c.Callbacks, handlers...)
	}
}

// WithTags attaches labels to the run, visible to callbacks.
func WithTags(tags ...string) Option {
	return func(c *Config) {
		c.Tags = append(c.Tags, tags...)
	}
}

// WithMetadata attaches key/value data to the run, visible to callbacks.
func WithMetadata(md map[string]any) Option {
	return func(c *Config) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]any, len(md))
		}
		for k, v := range md {
			c.Metadata[k] = v
		}
	}
}

// WithRunID sets the run ID for the top-level run instead of generating one.
func WithRunID(id string) Option {
	return func(c *Config) {
		c.RunID = id
	}
}

// WithSessionID selects the conversation session for history-wrapped
// runnables.
func WithSessionID(id string) Option {
	return func(c *Config) {
		c.SessionID = id
	}
}

func newConfig(opts ...Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// childOptions re-encodes the config for nested runnables. Everything is
// inherited except RunID, which applies only to the run it was given to.
func (c *Config) childOptions() []Option {
	return []Option{func(dst *Config) {
		dst.MaxConcurrency = c.MaxConcurrency
		dst.Callbacks = append(dst.Callbacks, c.Callbacks...)
		dst.Tags = append(dst.Tags, c.Tags...)
		if len(c.Metadata) > 0 {
			if dst.Metadata == nil {
				dst.Metadata = make(map[string]any, len(c.Metadata))
			}
			for k, v := range c.Metadata {
				dst.Metadata[k] = v
			}
		}
		dst.SessionID = c.SessionID
	}}
}
