package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/waterrun/internal/model"
)

func TestStepClock_StartsAtDefault(t *testing.T) {
	clock := NewStepClock()
	assert.Equal(t, DefaultStart, clock.Now())
	assert.Equal(t, DefaultStart.Add(time.Minute), clock.Now())
}

func TestStepClock_AdvancesMonotonically(t *testing.T) {
	clock := NewStepClockAt(DefaultStart, time.Second)

	first := model.FormatTimestamp(clock.Now())
	second := model.FormatTimestamp(clock.Now())
	third := model.FormatTimestamp(clock.Now())

	assert.Equal(t, "2025-01-01T09:00:00.000000Z", first)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestStepClock_ConcurrentAccess(t *testing.T) {
	clock := NewStepClockAt(DefaultStart, time.Nanosecond)

	const goroutines = 50
	seen := make(chan time.Time, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- clock.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		assert.False(t, unique[ts], "duplicate instant %v", ts)
		unique[ts] = true
	}
	assert.Len(t, unique, goroutines)
}
