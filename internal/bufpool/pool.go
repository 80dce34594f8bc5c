// Package bufpool implements a byte buffer pool: reusable, size-classed
// staging buffers that are always zeroed before they return to the pool,
// so secret material — plaintext, keys, nonces, tags — never lingers for
// the next rental to observe.
//
// The zero-on-return guarantee is built on memguard.WipeBytes, a
// dependency-backed answer to "guarantee this buffer is wiped" rather than
// a hand-rolled loop.
package bufpool

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Pool is a process-wide, concurrency-safe rental pool for byte buffers,
// bucketed by exact size so each rental gets a buffer sized for its
// purpose (plaintext block, ciphertext, tag, nonce, header, salt).
type Pool struct {
	mu      sync.Mutex
	buckets map[int]*sync.Pool
}

// New creates an empty Pool.
func New() *Pool {
	return &Pool{buckets: make(map[int]*sync.Pool)}
}

func (p *Pool) bucket(size int) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.buckets[size]
	if !ok {
		b = &sync.Pool{New: func() any { return make([]byte, size) }}
		p.buckets[size] = b
	}
	return b
}

// Rent returns a buffer of exactly size bytes. Its contents are unspecified
// (callers must zero any region they do not fully overwrite — the block
// pipeline relies on this for zero-padding the final block).
func (p *Pool) Rent(size int) []byte {
	return p.bucket(size).Get().([]byte)
}

// Return overwrites buf with zeros and releases it back to its size
// bucket. Use this for any buffer that may have held plaintext, key
// material, a nonce, or a tag.
func (p *Pool) Return(buf []byte) {
	zero(buf)
	p.bucket(len(buf)).Put(buf)
}

// ReturnClearN zeroes only the first n bytes of buf before releasing it —
// for buffers whose tail is known-padding and whose head held the secret
// region actually written this rental.
func (p *Pool) ReturnClearN(buf []byte, n int) {
	if n > len(buf) {
		n = len(buf)
	}
	zero(buf[:n])
	p.bucket(len(buf)).Put(buf)
}

// ReturnUncleared releases buf without zeroing. Only call this for buffers
// that are known to never have held secret material.
func (p *Pool) ReturnUncleared(buf []byte) {
	p.bucket(len(buf)).Put(buf)
}

func zero(b []byte) {
	if len(b) > 0 {
		memguard.WipeBytes(b)
	}
}
