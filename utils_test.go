package poolstat

import (
	"bufio"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/inconshreveable/log15"
)

var tl = func() log15.Logger {
	l := log15.New()
	l.SetHandler(log15.DiscardHandler())
	return l
}()

func tmpDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "poolstat_test")
	if err != nil {
		panic(err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// startControlServer runs a minimal control endpoint on a unix socket in a
// temp dir: it reads one command line per connection and answers stats
// with the given response, lifecycle commands with the given ack.
func startControlServer(t *testing.T, statsResponse, ack string) Locator {
	sock := filepath.Join(tmpDir(t), "control.sock")
	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("could not listen on %v: %v", sock, err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				line, err := bufio.NewReader(c).ReadString('\n')
				if err != nil {
					return
				}
				switch strings.TrimSpace(line) {
				case "stats":
					io.WriteString(c, statsResponse)
				case "phased-restart", "halt":
					io.WriteString(c, ack)
				default:
					io.WriteString(c, "ERR unknown command\n")
				}
			}(conn)
		}
	}()
	return Locator{Network: "unix", Address: sock}
}

// syncBuffer is a concurrency-safe writer for watcher tests.
type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
