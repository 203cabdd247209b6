package poolstat

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderScenario(t *testing.T) {
	oldest := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := StatusSnapshot{Workers: []WorkerStatus{
		{Index: 0, Running: 2, MaxThreads: 5, Backlog: 0, PoolCapacity: 3, RequestsCount: 120},
		{Index: 1, Running: 5, MaxThreads: 5, Backlog: 3, PoolCapacity: 0, RequestsCount: 340, OldestRequestStart: &oldest},
	}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, snap))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "worker 0: threads 2/5 backlog 0 pool_capacity 3 requests 120 oldest —", lines[0])
	assert.Equal(t, "worker 1: threads 5/5 backlog 3 pool_capacity 0 requests 340 oldest 2025-01-01T00:00:00Z", lines[1])
	assert.Equal(t, "total: threads 7/10 backlog 3", lines[2])
}

func TestRenderLineCountMatchesWorkers(t *testing.T) {
	for _, n := range []int{0, 1, 4, 9} {
		snap := StatusSnapshot{}
		for i := 0; i < n; i++ {
			snap.Workers = append(snap.Workers, WorkerStatus{Index: i, Running: 1, MaxThreads: 2})
		}
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, snap))
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		assert.Len(t, lines, n+1, "expected one line per worker plus one aggregate line")
	}
}

func TestRenderSumPreservation(t *testing.T) {
	snap := StatusSnapshot{Workers: []WorkerStatus{
		{Index: 0, Running: 1, MaxThreads: 4, Backlog: 2},
		{Index: 1, Running: 3, MaxThreads: 4, Backlog: 0},
		{Index: 2, Running: 0, MaxThreads: 8, Backlog: 5},
	}}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, snap))
	assert.Contains(t, buf.String(), "total: threads 4/16 backlog 7")
}

func TestRenderEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, StatusSnapshot{}))
	assert.Equal(t, "total: threads 0/0 backlog 0\n", buf.String())
}

func TestRenderPlaceholderNeverBlank(t *testing.T) {
	snap := StatusSnapshot{Workers: []WorkerStatus{{Index: 0}}}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, snap))
	assert.Contains(t, buf.String(), "oldest —")
	assert.NotContains(t, buf.String(), "null")
}
