package poolstat

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// WorkerStatus is the point-in-time status of one worker in the server's
// pool. OldestRequestStart is nil when the worker has no queued request.
type WorkerStatus struct {
	Index              int
	Running            int
	MaxThreads         int
	Backlog            int
	PoolCapacity       int
	RequestsCount      int
	OldestRequestStart *time.Time
}

// StatusSnapshot is one parsed status response: the workers in the order
// the server reported them. It is never mutated after parsing.
type StatusSnapshot struct {
	Workers []WorkerStatus
}

// PoolTotals aggregates the per-worker counters that matter during a
// restart window: threads busy, threads configured, and requests queued.
type PoolTotals struct {
	Running    int
	MaxThreads int
	Backlog    int
}

// Totals sums Running, MaxThreads and Backlog across all workers.
func (s StatusSnapshot) Totals() PoolTotals {
	var t PoolTotals
	for _, w := range s.Workers {
		t.Running += w.Running
		t.MaxThreads += w.MaxThreads
		t.Backlog += w.Backlog
	}
	return t
}

type wireWorker struct {
	Index              *int    `json:"index"`
	Running            *int    `json:"running"`
	MaxThreads         *int    `json:"max_threads"`
	Backlog            *int    `json:"backlog"`
	PoolCapacity       *int    `json:"pool_capacity"`
	RequestsCount      *int    `json:"requests_count"`
	OldestRequestStart *string `json:"oldest_request_start"`
}

// ParseSnapshot decodes a stats payload into a StatusSnapshot. The payload
// must be a JSON object carrying a "worker_status" array; a structurally
// valid document without that field is still a ParseError. Missing numeric
// fields on a worker entry default to zero so that partially populated
// entries from the server still aggregate, but an invalid value (negative
// counters, duplicate index, bad timestamp) fails the whole parse.
func ParseSnapshot(payload []byte) (StatusSnapshot, error) {
	var doc struct {
		WorkerStatus *json.RawMessage `json:"worker_status"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return StatusSnapshot{}, &ParseError{Err: err}
	}
	if doc.WorkerStatus == nil {
		return StatusSnapshot{}, &ParseError{Err: errors.New("response has no worker_status field")}
	}
	var entries []wireWorker
	if err := json.Unmarshal(*doc.WorkerStatus, &entries); err != nil {
		return StatusSnapshot{}, &ParseError{Err: errors.Wrap(err, "bad worker_status field")}
	}

	snap := StatusSnapshot{Workers: make([]WorkerStatus, 0, len(entries))}
	seen := make(map[int]struct{}, len(entries))
	for i, e := range entries {
		w := WorkerStatus{
			// An entry without an index keeps its position in the array.
			Index:         i,
			Running:       orZero(e.Running),
			MaxThreads:    orZero(e.MaxThreads),
			Backlog:       orZero(e.Backlog),
			PoolCapacity:  orZero(e.PoolCapacity),
			RequestsCount: orZero(e.RequestsCount),
		}
		if e.Index != nil {
			w.Index = *e.Index
		}
		if w.Index < 0 {
			return StatusSnapshot{}, &ParseError{Err: errors.Errorf("worker entry %d has negative index %d", i, w.Index)}
		}
		if _, dup := seen[w.Index]; dup {
			return StatusSnapshot{}, &ParseError{Err: errors.Errorf("duplicate worker index %d", w.Index)}
		}
		seen[w.Index] = struct{}{}
		if w.Running < 0 || w.Backlog < 0 {
			return StatusSnapshot{}, &ParseError{Err: errors.Errorf("worker %d has negative counters", w.Index)}
		}
		if e.OldestRequestStart != nil && *e.OldestRequestStart != "" {
			ts, err := time.Parse(time.RFC3339, *e.OldestRequestStart)
			if err != nil {
				return StatusSnapshot{}, &ParseError{
					Err: errors.Wrapf(err, "worker %d has unparseable oldest_request_start", w.Index),
				}
			}
			w.OldestRequestStart = &ts
		}
		snap.Workers = append(snap.Workers, w)
	}
	return snap, nil
}

func orZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
