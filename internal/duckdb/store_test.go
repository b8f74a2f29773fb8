package duckdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/strsig/internal/pipeline"
	"github.com/inodb/strsig/internal/somatic"
)

func testEvents() []pipeline.SampleEvent {
	return []pipeline.SampleEvent{
		{Sample: "SAMPLE_A", Event: &somatic.Event{Chrom: "chr1", Pos: 1000, Motif: "A", MotifLen: 1, RefLen: 10, Change: 1}},
		{Sample: "SAMPLE_A", Event: &somatic.Event{Chrom: "chr2", Pos: 100, Motif: "AT", MotifLen: 2, RefLen: 7, Change: 2}},
		{Sample: "SAMPLE_B", Event: &somatic.Event{Chrom: "chr3", Pos: 500, Motif: "AAG", MotifLen: 3, RefLen: 5, Change: -1}},
	}
}

func TestStore_WriteAndQueryEvents(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "events.duckdb")

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.WriteEvents(testEvents()))

	counts, err := store.CountBySample()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"SAMPLE_A": 2, "SAMPLE_B": 1}, counts)

	events, err := store.EventsForSample("SAMPLE_A")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "chr1", events[0].Event.Chrom)
	assert.Equal(t, int64(1000), events[0].Event.Pos)
	assert.Equal(t, 1, events[0].Event.Change)
	assert.Equal(t, "AT", events[1].Event.Motif)
	assert.Equal(t, 7, events[1].Event.RefLen)

	events, err = store.EventsForSample("nope")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStore_InMemory(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.WriteEvents(testEvents()))
	require.NoError(t, store.ClearEvents())

	counts, err := store.CountBySample()
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestStore_WriteNoEvents(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.WriteEvents(nil))
}
