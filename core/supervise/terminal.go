//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package supervise

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// foregroundTerminal returns the descriptor of f when f is the controlling
// terminal and the calling process group owns its foreground. Only then can
// the child be handed the terminal.
func foregroundTerminal(f *os.File) (int, bool) {
	if f == nil {
		return 0, false
	}
	fd := int(f.Fd())
	pgrp, err := unix.IoctlGetInt(fd, unix.TIOCGPGRP)
	if err != nil {
		return 0, false
	}
	return fd, pgrp == unix.Getpgrp()
}

// reclaimTerminal moves the terminal foreground back to our process group.
// We are a background group at this point, so SIGTTOU has to be ignored or
// the kernel stops us instead of performing the ioctl.
func reclaimTerminal(fd int) error {
	signal.Ignore(syscall.SIGTTOU)
	defer signal.Reset(syscall.SIGTTOU)
	for {
		err := unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, unix.Getpgrp())
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return err
	}
}
