package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupReturnsStaleEntries(t *testing.T) {
	c := New()
	stale := time.Now().Add(-time.Hour)
	c.Store("57083", []byte("old feed"), stale)

	e, ok := c.Lookup("57083")
	require.True(t, ok)
	assert.Equal(t, []byte("old feed"), e.Body)
	assert.Equal(t, stale, e.CachedAt)
}

func TestStoreOverwrites(t *testing.T) {
	c := New()
	c.Store("57083", []byte("first"), time.Now().Add(-time.Hour))
	c.Store("57083", []byte("second"), time.Now())

	e, ok := c.Lookup("57083")
	require.True(t, ok)
	assert.Equal(t, []byte("second"), e.Body)
}

func TestGetOrBuildServesFreshEntryWithoutBuilding(t *testing.T) {
	c := New()
	c.Store("57083", []byte("cached feed"), time.Now())

	var builds int32
	e, err := c.GetOrBuild("57083", time.Minute, func() ([]byte, error) {
		atomic.AddInt32(&builds, 1)
		return []byte("rebuilt"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("cached feed"), e.Body)
	assert.Zero(t, atomic.LoadInt32(&builds), "fresh entry must not trigger a build")
}

func TestGetOrBuildRefreshesStaleEntry(t *testing.T) {
	c := New()
	old := time.Now().Add(-time.Hour)
	c.Store("57083", []byte("stale feed"), old)

	var builds int32
	e, err := c.GetOrBuild("57083", time.Minute, func() ([]byte, error) {
		atomic.AddInt32(&builds, 1)
		return []byte("rebuilt"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("rebuilt"), e.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
	assert.True(t, e.CachedAt.After(old), "refresh must advance the timestamp")

	stored, ok := c.Lookup("57083")
	require.True(t, ok)
	assert.Equal(t, []byte("rebuilt"), stored.Body)
}

func TestGetOrBuildCoalescesConcurrentCallers(t *testing.T) {
	c := New()

	var builds int32
	release := make(chan struct{})
	build := func() ([]byte, error) {
		atomic.AddInt32(&builds, 1)
		<-release
		return []byte("shared feed"), nil
	}

	const callers = 8
	var wg sync.WaitGroup
	bodies := make([][]byte, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := c.GetOrBuild("57083", time.Minute, build)
			assert.NoError(t, err)
			bodies[i] = e.Body
		}(i)
	}

	// Give every goroutine a chance to reach the flight before the build
	// completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&builds), "concurrent callers must share one build")
	for i := range bodies {
		assert.Equal(t, []byte("shared feed"), bodies[i])
	}
}

func TestGetOrBuildDistinctKeysDoNotContend(t *testing.T) {
	c := New()

	blocked := make(chan struct{})
	go func() {
		c.GetOrBuild("11111", time.Minute, func() ([]byte, error) {
			<-blocked
			return []byte("slow"), nil
		})
	}()

	done := make(chan struct{})
	go func() {
		e, err := c.GetOrBuild("22222", time.Minute, func() ([]byte, error) {
			return []byte("fast"), nil
		})
		assert.NoError(t, err)
		assert.Equal(t, []byte("fast"), e.Body)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("a build for one brand must not block another brand")
	}
	close(blocked)
}

func TestGetOrBuildDoesNotCacheErrors(t *testing.T) {
	c := New()

	_, err := c.GetOrBuild("57083", time.Minute, func() ([]byte, error) {
		return nil, errors.New("upstream down")
	})
	require.Error(t, err)

	_, ok := c.Lookup("57083")
	assert.False(t, ok, "a failed build must not leave an entry behind")

	e, err := c.GetOrBuild("57083", time.Minute, func() ([]byte, error) {
		return []byte("recovered"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), e.Body)
}
