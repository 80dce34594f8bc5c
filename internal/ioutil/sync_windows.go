//go:build windows

package ioutil

import (
	"os"

	"golang.org/x/sys/windows"
)

// durableSync calls FlushFileBuffers, the Windows equivalent of fsync that
// forces the file system's cached data and metadata to disk.
func durableSync(f *os.File) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}

func hintSequential(*os.File) {
	// No direct equivalent of posix_fadvise is wired through os.File on
	// Windows; FILE_FLAG_SEQUENTIAL_SCAN would need to be set at open time
	// via CreateFile, which os.Open does not expose.
}
