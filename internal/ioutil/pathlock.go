package ioutil

import (
	"hash/fnv"
	"sync"
)

// PathLock serializes concurrent jobs that target the same destination
// path: a fixed array of mutexes keyed by a hash of the lock key, so the
// array stays a constant size regardless of how many distinct paths are
// ever locked. Unrelated paths whose hashes fall in the same shard share a
// mutex and serialize against each other.
type PathLock struct {
	shards []sync.Mutex
}

const defaultShardCount = 256

// NewPathLock creates a PathLock with the default shard count.
func NewPathLock() *PathLock {
	return &PathLock{shards: make([]sync.Mutex, defaultShardCount)}
}

func (l *PathLock) shard(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &l.shards[h.Sum32()%uint32(len(l.shards))]
}

// Lock blocks until the shard for path is free, then acquires it.
func (l *PathLock) Lock(path string) {
	l.shard(path).Lock()
}

// Unlock releases the shard for path.
func (l *PathLock) Unlock(path string) {
	l.shard(path).Unlock()
}
