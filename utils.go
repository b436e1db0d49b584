package wss

import (
	"fmt"
	"sync/atomic"
)

// connSeq 连接标识符单调计数器
var connSeq atomic.Uint64

// newConnectionID 生成连接标识符
// 远端地址加单调序号：同一地址重连也不会与仍然打开的连接冲突，
// 标识符只保证在当前打开的连接中唯一，关闭后可复用
func newConnectionID(remoteAddr string) string {
	return fmt.Sprintf("%s#%d", remoteAddr, connSeq.Add(1))
}
