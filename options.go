package mda

type readConfig struct {
	limits    Limits
	progress  func(done, total int)
	byteRange bool
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithProgress registers fn to be called once per decoded slice with the
// number of slices done so far and the volume depth.
func WithProgress(fn func(done, total int)) ReadOption {
	return func(c *readConfig) { c.progress = fn }
}

// WithByteRange controls whether ubyte samples are folded into the
// returned SampleRange. By default only ushort and float samples are.
func WithByteRange(v bool) ReadOption {
	return func(c *readConfig) { c.byteRange = v }
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{limits: defaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	return cfg
}
