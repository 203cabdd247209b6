package poolstat

import (
	"fmt"
	"io"
	"time"
)

// noRequestPlaceholder is rendered in place of oldest_request_start for a
// worker with nothing queued.
const noRequestPlaceholder = "—"

// Render writes the human-readable summary of a snapshot: one line per
// worker followed by one aggregate line. It has no side effects beyond
// writing to w.
func Render(w io.Writer, snap StatusSnapshot) error {
	for _, ws := range snap.Workers {
		oldest := noRequestPlaceholder
		if ws.OldestRequestStart != nil {
			oldest = ws.OldestRequestStart.UTC().Format(time.RFC3339)
		}
		_, err := fmt.Fprintf(w, "worker %d: threads %d/%d backlog %d pool_capacity %d requests %d oldest %s\n",
			ws.Index, ws.Running, ws.MaxThreads, ws.Backlog, ws.PoolCapacity, ws.RequestsCount, oldest)
		if err != nil {
			return err
		}
	}
	t := snap.Totals()
	_, err := fmt.Fprintf(w, "total: threads %d/%d backlog %d\n", t.Running, t.MaxThreads, t.Backlog)
	return err
}
