package rediscache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCache_EmptyPrefixUsesDefault(t *testing.T) {
	c := NewCache(nil, "")
	assert.Equal(t, "vaultstream:key:file-1", c.namespaced("file-1"))
}

func TestNewCache_CustomPrefixIsKept(t *testing.T) {
	c := NewCache(nil, "tenant-a:")
	assert.Equal(t, "tenant-a:file-1", c.namespaced("file-1"))
}

func TestNewDistributedLock_EmptyPrefixUsesDefault(t *testing.T) {
	l := NewDistributedLock(nil, "")
	assert.Equal(t, "vaultstream:lock:file-1", l.namespaced("file-1"))
}

func TestNewDistributedLock_CustomPrefixIsKept(t *testing.T) {
	l := NewDistributedLock(nil, "tenant-a:lock:")
	assert.Equal(t, "tenant-a:lock:file-1", l.namespaced("file-1"))
}

func TestCacheAndLockPrefixesDoNotCollide(t *testing.T) {
	c := NewCache(nil, "")
	l := NewDistributedLock(nil, "")
	assert.NotEqual(t, c.namespaced("file-1"), l.namespaced("file-1"))
}
