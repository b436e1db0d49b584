package wss

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConn(id string) *Connection {
	return &Connection{id: id, done: make(chan struct{})}
}

func TestRegistryAddGet(t *testing.T) {
	r := newRegistry(10)

	c := testConn("c1")
	require.NoError(t, r.add(c))
	assert.Equal(t, 1, r.len())

	got, ok := r.get("c1")
	require.True(t, ok)
	assert.Same(t, c, got)

	_, ok = r.get("unknown")
	assert.False(t, ok)
}

func TestRegistryDuplicateIdentifier(t *testing.T) {
	r := newRegistry(10)

	require.NoError(t, r.add(testConn("c1")))
	err := r.add(testConn("c1"))
	assert.ErrorIs(t, err, ErrIdentifierExists)
	// 失败的注册不改变计数
	assert.Equal(t, 1, r.len())
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	r := newRegistry(10)

	require.NoError(t, r.add(testConn("c1")))
	r.remove("c1")
	assert.Equal(t, 0, r.len())

	// 重复移除与移除未知标识符都是空操作
	r.remove("c1")
	r.remove("never-existed")
	assert.Equal(t, 0, r.len())
}

func TestRegistryMaxConnections(t *testing.T) {
	r := newRegistry(2)

	require.NoError(t, r.add(testConn("c1")))
	require.NoError(t, r.add(testConn("c2")))

	err := r.add(testConn("c3"))
	assert.ErrorIs(t, err, ErrTooManyConnections)
	// 超限注册完整回滚
	assert.Equal(t, 2, r.len())
	_, ok := r.get("c3")
	assert.False(t, ok)

	// 释放后可再次注册
	r.remove("c1")
	require.NoError(t, r.add(testConn("c3")))
}

func TestRegistrySnapshot(t *testing.T) {
	r := newRegistry(10)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.add(testConn(fmt.Sprintf("c%d", i))))
	}

	snap := r.snapshot()
	assert.Len(t, snap, 3)

	// 快照是独立副本，后续变化不影响已获取的快照
	r.remove("c0")
	assert.Len(t, snap, 3)
	assert.Len(t, r.snapshot(), 2)
}

func TestRegistryConcurrent(t *testing.T) {
	const n = 100
	r := newRegistry(n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i)
			if err := r.add(testConn(id)); err != nil {
				t.Errorf("add %s: %v", id, err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, n, r.len())

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.remove(fmt.Sprintf("c%d", i))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, r.len())
}
