package hash

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	// Known xxHash64 values.
	assert.Equal(t, uint64(0xef46db3751d8e999), ID(""))
	assert.Equal(t, uint64(0x4fdcca5ddb678139), ID("test"))
}

func TestIDMatchesByteHash(t *testing.T) {
	layouts := []string{
		"vehicle_status:timestamp u64@0;nav_state u8@8",
		"sensor_accel:timestamp u64@0;x f32@8;y f32@12;z f32@16",
		"",
	}
	for _, layout := range layouts {
		require.Equal(t, xxhash.Sum64([]byte(layout)), ID(layout))
	}
}

func TestIDDistinguishesLayouts(t *testing.T) {
	a := ID("ex:a u8@0;b_0 f32@1;b_1 f32@5")
	b := ID("ex:a u8@0;b_0 f32@1;b_1 f64@5")
	require.NotEqual(t, a, b)

	// Stable across calls.
	require.Equal(t, a, ID("ex:a u8@0;b_0 f32@1;b_1 f32@5"))
}

func BenchmarkID(b *testing.B) {
	layout := "vehicle_attitude:timestamp u64@0;q_0 f32@8;q_1 f32@12;q_2 f32@16;q_3 f32@20"
	b.ResetTimer()
	for b.Loop() {
		ID(layout)
	}
}
