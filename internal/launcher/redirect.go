package launcher

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const (
	stdinFd  = 0
	stdoutFd = 1

	outputPerm = 0666
)

// redirect installs the child's standard input and output. An explicit path
// wins; a background command without one reads from and writes to the null
// device; anything else keeps the inherited stream.
func redirect(req *childRequest) error {
	if path := streamPath(req.input, req); path != "" {
		if err := replaceFd(path, unix.O_RDONLY, stdinFd); err != nil {
			return fmt.Errorf("cannot open %s for input: %w", path, err)
		}
	}
	if path := streamPath(req.output, req); path != "" {
		flags := unix.O_WRONLY
		if path == req.output {
			flags |= unix.O_CREAT | unix.O_TRUNC
		}
		if err := replaceFd(path, flags, stdoutFd); err != nil {
			return fmt.Errorf("cannot open %s for output: %w", path, err)
		}
	}
	return nil
}

// streamPath picks the file for one stream, or "" to inherit.
func streamPath(explicit string, req *childRequest) string {
	switch {
	case explicit != "":
		return explicit
	case req.background:
		return req.nullDevice
	default:
		return ""
	}
}

func replaceFd(path string, flags, target int) error {
	fd, err := unix.Open(path, flags|unix.O_CLOEXEC, outputPerm)
	if err != nil {
		return err
	}
	if fd == target {
		_, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, 0)
		return err
	}
	defer unix.Close(fd)

	// dup3 clears close-on-exec on the target descriptor.
	if err := unix.Dup3(fd, target, 0); err != nil {
		return fmt.Errorf("dup3: %w", err)
	}
	return nil
}
