//go:build unix && !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package supervise

import "os"

// Terminal handoff is not implemented here; children always run in a
// background process group.
func foregroundTerminal(f *os.File) (int, bool) { return 0, false }

func reclaimTerminal(fd int) error { return nil }
