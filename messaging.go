package wss

import (
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ConnectionInfo 连接查询结果
type ConnectionInfo struct {
	ID   string // 连接标识符
	Host string // 远端主机
	Port int    // 远端端口
}

// Connections 当前连接快照
func (s *Server) Connections() []ConnectionInfo {
	conns := s.registry.snapshot()
	infos := make([]ConnectionInfo, 0, len(conns))
	for _, c := range conns {
		infos = append(infos, ConnectionInfo{
			ID:   c.ID(),
			Host: c.RemoteHost(),
			Port: c.RemotePort(),
		})
	}
	return infos
}

// GetConnection 按标识符查找连接
func (s *Server) GetConnection(id string) (*Connection, error) {
	if c, ok := s.registry.get(id); ok {
		return c, nil
	}
	return nil, ErrConnectionNotFound
}

// SendTo 向指定连接单播
// 载荷类型在任何 I/O 之前校验；写失败返回 *TransportError，不做重试
func (s *Server) SendTo(id string, msg Message) error {
	if !msg.Valid() {
		return ErrInvalidPayload
	}
	if s.Status() != StatusRunning {
		return ErrNotRunning
	}

	c, ok := s.registry.get(id)
	if !ok {
		return ErrConnectionNotFound
	}

	if err := c.Send(msg); err != nil {
		s.metrics.IncrementSendFailures()
		return err
	}
	s.metrics.IncrementSentMessages()
	return nil
}

// SendToAll 向所有连接广播
// 尽力投递：单个连接失败只记录与计数，不中断其余投递；
// 需要逐个结果的调用方应遍历 Connections 并使用 SendTo
func (s *Server) SendToAll(msg Message) error {
	if !msg.Valid() {
		return ErrInvalidPayload
	}
	if s.Status() != StatusRunning {
		return ErrNotRunning
	}

	s.registry.rangeConns(func(c *Connection) bool {
		if err := c.Send(msg); err != nil {
			s.metrics.IncrementSendFailures()
			s.log.Warn("broadcast send failed",
				zap.String("conn_id", c.ID()),
				zap.Error(err),
			)
		} else {
			s.metrics.IncrementSentMessages()
		}
		return true
	})
	return nil
}

// CloseConnection 请求关闭指定连接
// 发送关闭帧后立即返回，关闭事件由读循环照常派发
func (s *Server) CloseConnection(id string) error {
	if s.Status() != StatusRunning {
		return ErrNotRunning
	}

	c, ok := s.registry.get(id)
	if !ok {
		return ErrConnectionNotFound
	}
	return c.requestClose(websocket.CloseNormalClosure, "closed by server")
}

// CloseAll 请求关闭所有连接，单个失败不中断其余关闭
func (s *Server) CloseAll() error {
	if s.Status() != StatusRunning {
		return ErrNotRunning
	}

	s.registry.rangeConns(func(c *Connection) bool {
		if err := c.requestClose(websocket.CloseNormalClosure, "closed by server"); err != nil {
			s.log.Warn("close request failed",
				zap.String("conn_id", c.ID()),
				zap.Error(err),
			)
		}
		return true
	})
	return nil
}
