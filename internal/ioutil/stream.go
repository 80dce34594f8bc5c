// Package ioutil implements the platform file I/O contract: sequential-
// access streams with a durable-flush operation that escalates past
// userspace buffering into the OS's persistent-write primitive, plus
// destination-path serialization via a sharded lock.
//
// A platform fsync primitive has no third-party substitute; os plus
// golang.org/x/sys is the only vehicle for it, so this package sits
// directly on those.
package ioutil

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/prn-tf/vaultstream/internal/domain"
)

// Stream wraps an *os.File with the durable-flush contract the pipeline
// relies on. A nil underlying file is rejected at construction.
type Stream struct {
	f      *os.File
	path   string
	logger zerolog.Logger
	closed bool
}

// CreateInput opens path for sequentially-scanned, shared reading.
func CreateInput(path string, logger zerolog.Logger) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewIOError("failed to open input file", err)
	}
	hintSequential(f)
	return &Stream{f: f, path: path, logger: logger}, nil
}

// CreateOutput opens path for create-truncate read/write. It takes no
// exclusive lock or share mode: other handles to the same file are not
// prevented.
func CreateOutput(path string, logger zerolog.Logger) (*Stream, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, domain.NewIOError("failed to open output file", err)
	}
	return &Stream{f: f, path: path, logger: logger}, nil
}

func (s *Stream) Read(p []byte) (int, error) {
	if s == nil || s.f == nil {
		return 0, domain.NewDisposedError("read on nil stream")
	}
	if s.closed {
		return 0, domain.NewDisposedError("read on closed stream")
	}
	n, err := s.f.Read(p)
	if err != nil && err != io.EOF {
		return n, domain.NewIOError("read failed", err)
	}
	return n, err
}

func (s *Stream) Write(p []byte) (int, error) {
	if s == nil || s.f == nil {
		return 0, domain.NewDisposedError("write on nil stream")
	}
	if s.closed {
		return 0, domain.NewDisposedError("write on closed stream")
	}
	n, err := s.f.Write(p)
	if err != nil {
		return n, domain.NewIOError("write failed", err)
	}
	return n, nil
}

// FlushDurable flushes userspace buffers (none held by *os.File beyond the
// kernel page cache) then performs the platform-specific sync: fsync on
// Linux, F_FULLFSYNC on macOS, FlushFileBuffers on Windows.
func (s *Stream) FlushDurable() error {
	if s == nil || s.f == nil {
		return domain.NewDisposedError("flush on nil stream")
	}
	if s.closed {
		return domain.NewDisposedError("flush on closed stream")
	}
	if err := durableSync(s.f); err != nil {
		return domain.NewIOError("durable flush failed", err)
	}
	return nil
}

// Size returns the current length of the underlying file.
func (s *Stream) Size() (int64, error) {
	if s == nil || s.f == nil {
		return 0, domain.NewDisposedError("size on nil stream")
	}
	info, err := s.f.Stat()
	if err != nil {
		return 0, domain.NewIOError("stat failed", err)
	}
	return info.Size(), nil
}

// Truncate sets the file length to exactly n bytes. Used by the decryptor
// after the last block to discard any last-block padding.
func (s *Stream) Truncate(n int64) error {
	if s == nil || s.f == nil {
		return domain.NewDisposedError("truncate on nil stream")
	}
	if err := s.f.Truncate(n); err != nil {
		return domain.NewIOError("truncate failed", err)
	}
	return nil
}

// Close closes the underlying file. Safe to call more than once.
func (s *Stream) Close() error {
	if s == nil || s.f == nil || s.closed {
		return nil
	}
	s.closed = true
	if err := s.f.Close(); err != nil {
		return domain.NewIOError("close failed", err)
	}
	return nil
}
