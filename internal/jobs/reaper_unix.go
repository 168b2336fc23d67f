package jobs

import (
	"smallsh/internal/exitstatus"

	"golang.org/x/sys/unix"
)

// SystemReaper polls real child processes with wait4.
type SystemReaper struct{}

var _ Reaper = SystemReaper{}

// Poll reports whether pid has terminated without blocking. A stopped
// child is continued and reported as still running.
func (SystemReaper) Poll(pid int) (exitstatus.Status, bool, error) {
	var ws unix.WaitStatus
	for {
		wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG|unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return exitstatus.Status{}, false, err
		}
		if wpid == 0 {
			return exitstatus.Status{}, false, nil
		}
		if ws.Stopped() {
			return exitstatus.Status{}, false, unix.Kill(pid, unix.SIGCONT)
		}
		return exitstatus.FromWaitStatus(ws), true, nil
	}
}

func (SystemReaper) Kill(pid int) error {
	return unix.Kill(pid, unix.SIGKILL)
}
