package wss

import "errors"

// 错误定义
var (
	// 生命周期相关错误
	ErrAlreadyRunning = errors.New("wss: server already running")
	ErrNotRunning     = errors.New("wss: server not running")

	// 连接相关错误
	ErrConnectionNotFound = errors.New("wss: connection not found")
	ErrConnectionClosed   = errors.New("wss: connection closed")
	ErrTooManyConnections = errors.New("wss: too many connections")
	ErrIdentifierExists   = errors.New("wss: connection identifier already registered")

	// 消息相关错误
	ErrInvalidPayload = errors.New("wss: payload must be text or binary")

	// 配置相关错误
	ErrInvalidConfig = errors.New("wss: invalid config")
)

// TransportError 传输层错误，携带底层原因
type TransportError struct {
	Op  string // 失败的操作（listen/write/close）
	Err error  // 底层错误
}

func (e *TransportError) Error() string {
	return "wss: transport " + e.Op + ": " + e.Err.Error()
}

// Unwrap 实现 errors.Unwrap 接口
func (e *TransportError) Unwrap() error {
	return e.Err
}
