package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Search(t *testing.T) {
	c := NewController(Config{MaxSearchThreads: 2})

	require.NoError(t, c.AcquireSearch(t.Context()))
	require.NoError(t, c.AcquireSearch(t.Context()))
	assert.False(t, c.TryAcquireSearch())

	c.ReleaseSearch()
	assert.True(t, c.TryAcquireSearch())
}

func TestController_SearchBlocksUntilContextDone(t *testing.T) {
	c := NewController(Config{MaxSearchThreads: 1})
	require.NoError(t, c.AcquireSearch(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	err := c.AcquireSearch(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestController_Background(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(1), c.Config().MaxBackgroundWorkers)

	require.NoError(t, c.AcquireBackground(t.Context()))
	assert.False(t, c.TryAcquireBackground())
	c.ReleaseBackground()
	assert.True(t, c.TryAcquireBackground())
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1000})

	assert.True(t, c.TryAcquireIO(1000))
	assert.False(t, c.TryAcquireIO(1000))

	unlimited := NewController(Config{})
	require.NoError(t, unlimited.AcquireIO(t.Context(), 1<<30))
	assert.True(t, unlimited.TryAcquireIO(1<<30))
}

func TestController_IOLargerThanBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	start := time.Now()
	require.NoError(t, c.AcquireIO(t.Context(), 1<<20+1024))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireSearch(t.Context()))
	c.ReleaseSearch()
	assert.True(t, c.TryAcquireSearch())
	require.NoError(t, c.AcquireBackground(t.Context()))
	c.ReleaseBackground()
	require.NoError(t, c.AcquireIO(t.Context(), 10))
	assert.Equal(t, Config{}, c.Config())
}
