package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	stats, err := Collect()
	require.NoError(t, err)
	require.NotNil(t, stats)

	assert.NotEmpty(t, stats.Hostname)
	assert.Greater(t, stats.MemoryTotalBytes, uint64(0))
	assert.GreaterOrEqual(t, stats.MemoryUsagePercent, 0.0)
	assert.LessOrEqual(t, stats.MemoryUsagePercent, 100.0)
}
