package execution

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_TryStart(t *testing.T) {
	m := NewManager()

	release, ok := m.TryStart(KindSync)
	require.True(t, ok)
	assert.True(t, m.Running(KindSync))

	_, ok = m.TryStart(KindSync)
	assert.False(t, ok, "second sync must be rejected while the first runs")

	releaseDedup, ok := m.TryStart(KindDedup)
	require.True(t, ok, "other kinds are independent")
	releaseDedup()

	release()
	release()
	assert.False(t, m.Running(KindSync))

	release, ok = m.TryStart(KindSync)
	require.True(t, ok)
	release()
}

func TestManager_ConcurrentStarts(t *testing.T) {
	m := NewManager()

	var started atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := m.TryStart(KindSync); ok {
				started.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), started.Load())
}
