package poolstat

import (
	"os"
	"syscall"
)

type osIface interface {
	FindProcess(pid int) (processIface, error)
}

type realOS struct{}

func (realOS) FindProcess(pid int) (processIface, error) {
	return os.FindProcess(pid)
}

type processIface interface {
	Signal(os.Signal) error
}

// pidIsDead reports whether no process with the given pid is running.
// Signal 0 performs the existence check without delivering anything.
func pidIsDead(osi osIface, pid int) bool {
	proc, err := osi.FindProcess(pid)
	if err != nil {
		return true
	}
	return proc.Signal(syscall.Signal(0)) != nil
}
