package taskpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, validateConfig(&cfg))
}

func TestValidateConfig_RejectsNonPositiveDurations(t *testing.T) {
	cfg := defaultConfig()
	cfg.checkLatency = 0
	require.Error(t, validateConfig(&cfg))

	cfg = defaultConfig()
	cfg.idlePollInterval = -1
	require.Error(t, validateConfig(&cfg))
}

func TestValidateConfig_RejectsNilDependencies(t *testing.T) {
	cfg := defaultConfig()
	cfg.ctx = nil
	require.Error(t, validateConfig(&cfg))

	cfg = defaultConfig()
	cfg.allocator = nil
	require.Error(t, validateConfig(&cfg))

	cfg = defaultConfig()
	cfg.metrics = nil
	require.Error(t, validateConfig(&cfg))
}

func TestDefaultConfig_AllocatorAlwaysSucceeds(t *testing.T) {
	cfg := defaultConfig()
	v, err := cfg.allocator.Get()
	require.NoError(t, err)
	require.Equal(t, struct{}{}, v)
}
