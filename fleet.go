package poolstat

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// Instance is one named server in an operator's inventory: where its
// control channel lives and, optionally, the lock file guarding its
// restarts.
type Instance struct {
	Name        string
	Locator     Locator
	RestartLock string
}

// FetchFleet queries every instance's control channel concurrently, one
// query per instance, and returns the snapshots in instance order. Any
// instance failing fails the whole fetch.
func (r *Reporter) FetchFleet(ctx context.Context, instances []Instance) ([]StatusSnapshot, error) {
	snaps := make([]StatusSnapshot, len(instances))
	g, ctx := errgroup.WithContext(ctx)
	for i := range instances {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			snap, err := r.FetchSnapshot(instances[i].Locator)
			if err != nil {
				return err
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snaps, nil
}

// ReportFleet fetches all instances and renders each snapshot under an
// instance header, in the order given. Nothing is written unless every
// fetch succeeded.
func (r *Reporter) ReportFleet(ctx context.Context, w io.Writer, instances []Instance) error {
	snaps, err := r.FetchFleet(ctx, instances)
	if err != nil {
		return err
	}
	for i, inst := range instances {
		if _, err := fmt.Fprintf(w, "instance %s (%s):\n", inst.Name, inst.Locator); err != nil {
			return err
		}
		if err := Render(w, snaps[i]); err != nil {
			return err
		}
	}
	return nil
}
