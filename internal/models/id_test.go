package models

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGeneratorEncodesTimestamp(t *testing.T) {
	clock := time.UnixMilli(1_700_000_000_000)
	g := NewIDGenerator(func() time.Time { return clock })

	id, ms := g.Next()
	assert.Equal(t, "1700000000000", id)
	assert.Equal(t, int64(1_700_000_000_000), ms)
}

func TestIDGeneratorMonotonicWithinSameMillisecond(t *testing.T) {
	clock := time.UnixMilli(1_700_000_000_000)
	g := NewIDGenerator(func() time.Time { return clock })

	a, _ := g.Next()
	b, _ := g.Next()
	c, _ := g.Next()

	assert.Equal(t, "1700000000001", b)
	assert.Equal(t, "1700000000002", c)
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestIDGeneratorLexicographicMatchesNumeric(t *testing.T) {
	clock := time.UnixMilli(1_700_000_000_000)
	g := NewIDGenerator(func() time.Time { return clock })

	var ids []string
	for i := 0; i < 100; i++ {
		id, _ := g.Next()
		ids = append(ids, id)
	}

	assert.True(t, sort.StringsAreSorted(ids))
}

func TestIDGeneratorConcurrentUniqueness(t *testing.T) {
	g := NewIDGenerator(nil)

	const n = 200
	var mu sync.Mutex
	seen := make(map[string]bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := g.Next()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
}
