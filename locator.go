package poolstat

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

// ErrNoPidfile indicates that a state directory contains no pidfile, so no
// control socket can be discovered in it (e.g. the server never started, or
// it cleaned up on shutdown).
var ErrNoPidfile = errors.New("no pidfile in state directory")

// Locator identifies a server's control channel: either a unix socket path
// or a tcp host:port.
type Locator struct {
	Network string
	Address string
}

func (l Locator) String() string {
	return l.Network + "://" + l.Address
}

// ParseLocator parses an operator-supplied locator string. Explicit
// "unix://" and "tcp://" schemes are honored; a bare host:port is taken as
// tcp and anything else as a unix socket path.
func ParseLocator(s string) (Locator, error) {
	switch {
	case s == "":
		return Locator{}, errors.New("empty control channel locator")
	case strings.HasPrefix(s, "unix://"):
		path := strings.TrimPrefix(s, "unix://")
		if path == "" {
			return Locator{}, errors.Errorf("locator %q names no socket path", s)
		}
		return Locator{Network: "unix", Address: path}, nil
	case strings.HasPrefix(s, "tcp://"):
		addr := strings.TrimPrefix(s, "tcp://")
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return Locator{}, errors.Wrapf(err, "locator %q is not a host:port", s)
		}
		return Locator{Network: "tcp", Address: addr}, nil
	}
	if _, _, err := net.SplitHostPort(s); err == nil {
		return Locator{Network: "tcp", Address: s}, nil
	}
	return Locator{Network: "unix", Address: s}, nil
}

// DiscoverControlSock resolves the control socket of the server running out
// of the given state directory. The server writes its pid to "<dir>/pid" on
// boot and listens on a socket derived from that pid, so discovery is a
// pidfile read plus a liveness check.
func DiscoverControlSock(l log15.Logger, dir string) (Locator, error) {
	return discoverControlSock(l, realOS{}, dir)
}

func discoverControlSock(l log15.Logger, osi osIface, dir string) (Locator, error) {
	dirLoc := Locator{Network: "unix", Address: dir}
	data, err := os.ReadFile(pidfilePath(dir))
	if os.IsNotExist(err) {
		return Locator{}, &ConnectionError{Locator: dirLoc, Err: ErrNoPidfile}
	}
	if err != nil {
		return Locator{}, &ConnectionError{Locator: dirLoc, Err: err}
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return Locator{}, &ConnectionError{Locator: dirLoc, Err: ErrNoPidfile}
	}
	pid, err := strconv.Atoi(text)
	if err != nil {
		return Locator{}, &ConnectionError{
			Locator: dirLoc,
			Err:     errors.Wrapf(err, "unable to parse pid out of data %q", text),
		}
	}
	if pid <= 0 || pidIsDead(osi, pid) {
		return Locator{}, &ConnectionError{
			Locator: dirLoc,
			Err:     errors.Errorf("pidfile names process %d, which is not running", pid),
		}
	}
	l.Debug("discovered control socket", "dir", dir, "pid", pid)
	return Locator{Network: "unix", Address: controlSockPath(dir, pid)}, nil
}

func pidfilePath(dir string) string {
	return filepath.Join(dir, "pid")
}

func controlSockPath(dir string, pid int) string {
	return filepath.Join(dir, fmt.Sprintf("control-%d.sock", pid))
}
