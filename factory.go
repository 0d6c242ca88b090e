package offheap

import (
	"sync"

	"github.com/pavanmanishd/offheap/memory"
	"go.uber.org/zap"
)

// DefaultResourceType names leaked arrays in leak reports.
const DefaultResourceType = "offheap.Array"

// Factory is the construction entry point for leak-tracked arrays. All
// arrays from one factory share its provider and detector.
type Factory struct {
	provider memory.Provider
	detector *Detector // nil when leak detection is off
}

type config struct {
	provider      memory.Provider
	logger        *zap.Logger
	resourceType  string
	leakDetection bool
}

// Option configures a Factory.
type Option func(*config)

// WithProvider sets the memory provider. Defaults to a new memory.Mmap.
func WithProvider(p memory.Provider) Option {
	return func(c *config) { c.provider = p }
}

// WithLogger sets the logger leak reports go to. Defaults to the package
// Logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithResourceType sets the name leaked arrays are reported under.
// Defaults to DefaultResourceType.
func WithResourceType(name string) Option {
	return func(c *config) { c.resourceType = name }
}

// WithLeakDetection turns leak tracking on or off. On by default.
func WithLeakDetection(enabled bool) Option {
	return func(c *config) { c.leakDetection = enabled }
}

// NewFactory creates a factory configured by opts.
func NewFactory(opts ...Option) *Factory {
	cfg := config{resourceType: DefaultResourceType, leakDetection: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.provider == nil {
		cfg.provider = memory.NewMmap()
	}
	if cfg.resourceType == "" {
		cfg.resourceType = DefaultResourceType
	}

	f := &Factory{provider: cfg.provider}
	if cfg.leakDetection {
		f.detector = NewDetector(cfg.resourceType, cfg.logger)
	}
	return f
}

// New allocates a tracked array of n zeroed elements.
func New[T Element](f *Factory, n int) (*Tracked[T], error) {
	b, err := NewBuffer[T](f.provider, n)
	if err != nil {
		return nil, err
	}
	return newTracked(b, f.detector), nil
}

// Provider returns the factory's memory provider.
func (f *Factory) Provider() memory.Provider {
	return f.provider
}

// Detector returns the factory's leak detector, or nil when leak detection
// is off.
func (f *Factory) Detector() *Detector {
	return f.detector
}

// Close closes the provider. Arrays still alive must not be used afterwards.
func (f *Factory) Close() error {
	return f.provider.Close()
}

var (
	defaultFactory     *Factory
	defaultFactoryOnce sync.Once
)

// Default returns the process-wide factory used by the NewXxxArray
// functions: mmap memory, leak detection on, reporting to Logger.
func Default() *Factory {
	defaultFactoryOnce.Do(func() {
		defaultFactory = NewFactory()
	})
	return defaultFactory
}

// NewByteArray allocates a tracked array of n bytes from the default factory.
func NewByteArray(n int) (*Tracked[byte], error) { return New[byte](Default(), n) }

// NewShortArray allocates a tracked array of n int16 from the default factory.
func NewShortArray(n int) (*Tracked[int16], error) { return New[int16](Default(), n) }

// NewCharArray allocates a tracked array of n uint16 code units from the
// default factory.
func NewCharArray(n int) (*Tracked[uint16], error) { return New[uint16](Default(), n) }

// NewIntArray allocates a tracked array of n int32 from the default factory.
func NewIntArray(n int) (*Tracked[int32], error) { return New[int32](Default(), n) }

// NewFloatArray allocates a tracked array of n float32 from the default factory.
func NewFloatArray(n int) (*Tracked[float32], error) { return New[float32](Default(), n) }

// NewLongArray allocates a tracked array of n int64 from the default factory.
func NewLongArray(n int) (*Tracked[int64], error) { return New[int64](Default(), n) }

// NewDoubleArray allocates a tracked array of n float64 from the default factory.
func NewDoubleArray(n int) (*Tracked[float64], error) { return New[float64](Default(), n) }
