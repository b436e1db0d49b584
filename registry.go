package wss

import (
	"sync"
	"sync/atomic"
)

// registry 连接注册表
// 开启时插入、关闭时移除；所有读写都经过它，锁只保护映射本身
type registry struct {
	conns    sync.Map     // identifier -> *Connection
	count    atomic.Int64 // 当前连接数
	maxConns int          // 最大连接数
}

// newRegistry 创建注册表
func newRegistry(maxConns int) *registry {
	return &registry{
		maxConns: maxConns,
	}
}

// add 注册连接
func (r *registry) add(c *Connection) error {
	// 先检查标识符是否存在，避免计数不一致
	if _, loaded := r.conns.LoadOrStore(c.id, c); loaded {
		return ErrIdentifierExists
	}

	// 递增计数并检查限制
	newCount := r.count.Add(1)
	if int(newCount) > r.maxConns {
		// 超过限制，回滚操作
		r.count.Add(-1)
		r.conns.Delete(c.id)
		return ErrTooManyConnections
	}

	return nil
}

// remove 注销连接，标识符不存在时为空操作（幂等）
func (r *registry) remove(id string) {
	if _, loaded := r.conns.LoadAndDelete(id); loaded {
		r.count.Add(-1)
	}
}

// get 按标识符查找连接
func (r *registry) get(id string) (*Connection, bool) {
	value, ok := r.conns.Load(id)
	if !ok {
		return nil, false
	}
	c, ok := value.(*Connection)
	if !ok {
		return nil, false
	}
	return c, true
}

// len 当前连接数
func (r *registry) len() int {
	return int(r.count.Load())
}

// rangeConns 遍历所有连接
func (r *registry) rangeConns(f func(*Connection) bool) {
	r.conns.Range(func(key, value any) bool {
		c, ok := value.(*Connection)
		if !ok {
			return true
		}
		return f(c)
	})
}

// snapshot 获取当前连接快照
// 快照是时点视图：不阻塞并发的注册/注销，也不保证包含快照期间变化的连接
func (r *registry) snapshot() []*Connection {
	capacity := r.len()
	if capacity < 0 {
		capacity = 0
	}
	conns := make([]*Connection, 0, capacity)
	r.rangeConns(func(c *Connection) bool {
		conns = append(conns, c)
		return true
	})
	return conns
}
