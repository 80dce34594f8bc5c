//go:build !linux && !darwin && !windows

package ioutil

import "os"

// durableSync falls back to f.Sync() on platforms without a stronger
// durability primitive.
func durableSync(f *os.File) error {
	return f.Sync()
}

func hintSequential(*os.File) {}
