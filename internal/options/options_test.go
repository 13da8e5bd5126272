package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	workers int
	name    string
}

func withWorkers(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n < 1 {
			return errors.New("workers must be positive")
		}
		c.workers = n

		return nil
	})
}

func withName(name string) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.name = name
	})
}

func TestApply(t *testing.T) {
	cfg := &testConfig{workers: 1}
	err := Apply(cfg, withWorkers(4), withName("flight01"))
	require.NoError(t, err)
	require.Equal(t, 4, cfg.workers)
	require.Equal(t, "flight01", cfg.name)
}

func TestApplyNoOptions(t *testing.T) {
	cfg := &testConfig{workers: 1}
	require.NoError(t, Apply(cfg))
	require.Equal(t, 1, cfg.workers)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	cfg := &testConfig{}
	err := Apply(cfg, withWorkers(0), withName("never"))
	require.Error(t, err)
	// The failing option must not let later options run.
	require.Empty(t, cfg.name)
}
