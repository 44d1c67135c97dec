package generator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsConcurrentUpdatesAndSnapshots(t *testing.T) {
	stats := &Stats{}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				stats.addHand(i%2 == 0)
				stats.addSkipped()
				stats.addInvalid()
				// Snapshots taken mid-run are plain value copies.
				_ = stats.Snapshot()
			}
			stats.addSession()
		}()
	}
	wg.Wait()

	snap := stats.Snapshot()
	assert.Equal(t, 800, snap.Played)
	assert.Equal(t, 400, snap.Showdowns)
	assert.Equal(t, 400, snap.FoldWins)
	assert.Equal(t, 800, snap.Skipped)
	assert.Equal(t, 800, snap.Invalid)
	assert.Equal(t, 8, snap.Sessions)
}

func TestStatsSnapshotIsIndependentCopy(t *testing.T) {
	stats := &Stats{}
	stats.addHand(true)

	before := stats.Snapshot()
	stats.addHand(false)
	stats.setSelected(5)
	after := stats.Snapshot()

	// Mutating the source never reaches an earlier snapshot, and snapshots
	// assign and pass by value freely.
	assert.Equal(t, 1, before.Played)
	assert.Equal(t, 2, after.Played)
	assert.Equal(t, 5, after.Selected)
	copied := after
	copied.Played = 0
	assert.Equal(t, 2, after.Played)
}
