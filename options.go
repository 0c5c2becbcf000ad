package keyinfo

// Options holds the settings of Extract, Engine and Panel.
type Options struct {
	Config     *Config
	Rendered   RenderedSource
	Spans      SpanSource
	BlockIndex BlockIndexSource
}

// Option is a function that configures Options.
type Option func(*Options)

// WithConfig sets a custom Config.
func WithConfig(config *Config) Option {
	return func(opts *Options) {
		opts.Config = config
	}
}

// WithRenderedSource makes the engine read the rendered tree from the host
// instead of rendering the markdown locally.
func WithRenderedSource(src RenderedSource) Option {
	return func(opts *Options) {
		opts.Rendered = src
	}
}

// WithSpanSource makes the engine read the structural span list from the host
// instead of walking the local syntax tree.
func WithSpanSource(src SpanSource) Option {
	return func(opts *Options) {
		opts.Spans = src
	}
}

// WithBlockIndex sets the block-order index collaborator.
func WithBlockIndex(src BlockIndexSource) Option {
	return func(opts *Options) {
		opts.BlockIndex = src
	}
}

// defaultOptions returns the default options.
func defaultOptions() *Options {
	return &Options{
		Config: DefaultConfig(),
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.Config == nil {
		options.Config = DefaultConfig()
	}
	return options
}

// hostMode reports whether structural sources come from the host.
func (o *Options) hostMode() bool {
	return o.Rendered != nil || o.Spans != nil
}
