package poolstat

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

func TestWatcherRendersEachTick(t *testing.T) {
	loc := startControlServer(t, sampleStatsResponse, "OK\n")
	r := New(WithLogger(tl))
	fc := clocktesting.NewFakeClock(time.Now())
	out := &syncBuffer{}
	w := newWatcher(fc, r, loc, time.Second, out)

	ctx, cancel := context.WithCancel(testCtx(t))
	errC := make(chan error, 1)
	go func() {
		errC <- w.Run(ctx)
	}()

	renders := func() int {
		return strings.Count(out.String(), "total:")
	}
	require.Eventually(t, func() bool { return renders() == 1 }, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return fc.HasWaiters() }, 5*time.Second, 10*time.Millisecond)

	fc.Step(time.Second)
	require.Eventually(t, func() bool { return renders() == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errC:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatcherStopsOnFirstError(t *testing.T) {
	loc := Locator{Network: "unix", Address: filepath.Join(tmpDir(t), "gone.sock")}
	r := New(WithLogger(tl))
	fc := clocktesting.NewFakeClock(time.Now())
	out := &syncBuffer{}
	w := newWatcher(fc, r, loc, time.Second, out)

	err := w.Run(testCtx(t))
	var cerr *ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.Empty(t, out.String())
}
