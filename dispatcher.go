package wss

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler 连接事件处理器，由宿主应用实现
//
// 同一连接的事件按传输层产生顺序串行派发：OnOpen 先于任何消息事件，
// OnClose 最后派发且此后该连接不再产生事件。不同连接之间没有顺序保证。
// 回调中的 panic 不会被拦截，由宿主自行处理。
type Handler interface {
	// OnOpen 连接建立，req 为握手请求
	OnOpen(conn *Connection, req *http.Request)
	// OnTextMessage 收到文本消息
	OnTextMessage(conn *Connection, text string)
	// OnBinaryMessage 收到二进制消息
	OnBinaryMessage(conn *Connection, data []byte)
	// OnError 连接出错；不代表连接已关闭，是否随后关闭由传输层决定
	OnError(conn *Connection, err error)
	// OnClose 连接关闭；回调期间连接仍可按标识符查询，返回后从注册表移除
	OnClose(conn *Connection, reason string)
}

// serveConn 驱动单个连接的事件分发
// 顺序：注册（已完成）→ OnOpen → 消息循环 → OnClose → 注销
func (s *Server) serveConn(c *Connection, req *http.Request) {
	defer s.wg.Done()

	s.log.Debug("connection opened",
		zap.String("conn_id", c.id),
		zap.String("remote", c.RemoteAddr()),
	)

	s.handler.OnOpen(c, req)
	go c.pingLoop()

	reason := c.readLoop()

	c.closed.Store(true)
	close(c.done)

	// 关闭回调先于注销，回调期间连接仍可被解析
	s.handler.OnClose(c, reason)
	s.registry.remove(c.id)

	_ = c.conn.Close()

	s.metrics.DecrementConnections()
	s.metrics.SetConnectionCount(s.registry.len())
	s.log.Debug("connection closed",
		zap.String("conn_id", c.id),
		zap.String("reason", reason),
	)
}

// isExpectedClose 判断读错误是否为正常关闭路径
func isExpectedClose(err error) bool {
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return true
	}
	// 服务端主动断开（Stop 强制关闭）
	return errors.Is(err, net.ErrClosed)
}

// closeReason 从读错误推导关闭原因
func closeReason(err error) string {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		if ce.Text != "" {
			return ce.Text
		}
		return fmt.Sprintf("close %d", ce.Code)
	}
	if errors.Is(err, net.ErrClosed) {
		return "connection force closed"
	}
	return err.Error()
}
