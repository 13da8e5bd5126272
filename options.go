package ulog

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/ulogkit/ulog/internal/options"
)

// DecoderConfig carries the tunable settings of a Decoder. It is populated
// with defaults and then adjusted through the With* options.
type DecoderConfig struct {
	logger      *zap.Logger
	concurrency int
	filename    string
	inflate     bool
}

// Option represents a functional option for configuring the Decoder.
// This is a type alias for the generic Option interface specialized for
// DecoderConfig.
type Option = options.Option[*DecoderConfig]

func defaultConfig() DecoderConfig {
	return DecoderConfig{
		logger:      zap.NewNop(),
		concurrency: runtime.NumCPU(),
		inflate:     true,
	}
}

func (c *DecoderConfig) setConcurrency(n int) error {
	if n < 0 {
		return fmt.Errorf("invalid concurrency %d: must be zero or positive", n)
	}
	if n == 0 {
		n = runtime.NumCPU()
	}
	c.concurrency = n

	return nil
}

// WithLogger routes decode diagnostics to the given logger. Recoverable
// anomalies such as resynchronization runs and duplicate registrations are
// reported at warn level. A nil logger silences diagnostics, which is also
// the default.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *DecoderConfig) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}

// WithConcurrency bounds the number of streams extracted in parallel.
// Zero selects runtime.NumCPU, the default; negative values are rejected.
func WithConcurrency(n int) Option {
	return options.New(func(c *DecoderConfig) error {
		return c.setConcurrency(n)
	})
}

// WithFilename attaches a display name to the decoded log. The decoder works
// on bytes and never touches the filesystem; the name only flows into the
// result and diagnostics.
func WithFilename(name string) Option {
	return options.NoError(func(c *DecoderConfig) {
		c.filename = name
	})
}

// WithContainerDecompression controls whether the input is sniffed for a
// compression container and inflated before decoding. Enabled by default;
// disable it when the input is known to be raw and the copy must be avoided.
func WithContainerDecompression(enabled bool) Option {
	return options.NoError(func(c *DecoderConfig) {
		c.inflate = enabled
	})
}
