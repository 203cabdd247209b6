package poolstat

import (
	"os"

	filelock "github.com/euank/filelock"
	"github.com/pkg/errors"

	"poolstat/internal/proto"
)

// PhasedRestart asks the server to begin a phased restart: workers are
// replaced one at a time so in-flight requests keep draining on the old
// code while new workers boot. The command returns once the server has
// acknowledged it, not once the restart has finished; poll the stats to
// watch it complete.
func (r *Reporter) PhasedRestart(loc Locator) error {
	return r.lifecycle(loc, proto.CmdPhasedRestart)
}

// PhasedRestartLocked is PhasedRestart serialized on an advisory lock
// file, so two deploy runs cannot overlap restart windows. The lock is
// released when the command has been acknowledged (or has failed).
func (r *Reporter) PhasedRestartLocked(loc Locator, lockPath string) error {
	if err := touchFile(lockPath); err != nil {
		return errors.Wrapf(err, "could not create restart lock %q", lockPath)
	}
	lock, err := filelock.TryExclusiveLock(lockPath, filelock.RegFile)
	if err != nil {
		return errors.Wrapf(err, "could not take restart lock %q (restart already in progress?)", lockPath)
	}
	defer lock.Close()
	r.l.Info("took restart lock", "path", lockPath)
	return r.PhasedRestart(loc)
}

// Halt asks the server to shut down outright. No draining is promised;
// prefer PhasedRestart when the server must keep serving.
func (r *Reporter) Halt(loc Locator) error {
	return r.lifecycle(loc, proto.CmdHalt)
}

func (r *Reporter) lifecycle(loc Locator, cmd string) error {
	conn, err := r.dial(loc)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := proto.WriteCommand(conn, cmd); err != nil {
		return &ConnectionError{Locator: loc, Err: err}
	}
	ack, err := proto.ReadAck(conn)
	if err != nil {
		return &ConnectionError{Locator: loc, Err: err}
	}
	if ack != proto.AckOK {
		return errors.Errorf("server refused %s: %q", cmd, ack)
	}
	r.l.Info("control command acknowledged", "cmd", cmd, "locator", loc.String())
	return nil
}

func touchFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}
