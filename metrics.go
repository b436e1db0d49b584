package wss

// Metrics 监控接口
type Metrics interface {
	// 连接指标
	IncrementConnections()
	DecrementConnections()
	SetConnectionCount(count int)

	// 消息指标
	IncrementTextMessages()
	IncrementBinaryMessages()
	IncrementSentMessages()
	IncrementSendFailures()

	// 错误指标
	IncrementReadErrors()
}

// NoopMetrics 空实现（默认）
type NoopMetrics struct{}

func (m *NoopMetrics) IncrementConnections()        {}
func (m *NoopMetrics) DecrementConnections()        {}
func (m *NoopMetrics) SetConnectionCount(count int) {}
func (m *NoopMetrics) IncrementTextMessages()       {}
func (m *NoopMetrics) IncrementBinaryMessages()     {}
func (m *NoopMetrics) IncrementSentMessages()       {}
func (m *NoopMetrics) IncrementSendFailures()       {}
func (m *NoopMetrics) IncrementReadErrors()         {}
