//go:build darwin

package ioutil

import (
	"os"

	"golang.org/x/sys/unix"
)

// durableSync issues F_FULLFSYNC, the only macOS primitive that asks the
// drive to actually flush its write cache; plain fsync(2) on Darwin only
// flushes to the drive's volatile cache.
func durableSync(f *os.File) error {
	_, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0)
	if err != nil {
		return f.Sync()
	}
	return nil
}

func hintSequential(f *os.File) {
	_, _ = unix.FcntlInt(f.Fd(), unix.F_RDAHEAD, 1)
}
