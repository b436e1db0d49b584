package wss

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Connection 一条客户端连接
// 标识符在连接存续期间稳定，且在当前打开的连接中唯一；连接关闭后可复用
type Connection struct {
	id     string
	conn   *websocket.Conn
	server *Server

	// 远端信息
	host string
	port int

	// 写串行化：单次写持锁，不覆盖回调或注册表操作
	writeMu sync.Mutex

	// 生命周期
	closed atomic.Bool
	done   chan struct{} // 读循环退出后关闭
}

// newConnection 包装一条已完成握手的传输层连接
func newConnection(conn *websocket.Conn, s *Server) *Connection {
	addr := conn.RemoteAddr().String()
	host, portStr, err := net.SplitHostPort(addr)
	port := 0
	if err != nil {
		host = addr
	} else {
		port, _ = strconv.Atoi(portStr)
	}

	return &Connection{
		id:     newConnectionID(addr),
		conn:   conn,
		server: s,
		host:   host,
		port:   port,
		done:   make(chan struct{}),
	}
}

// ID 连接标识符
func (c *Connection) ID() string {
	return c.id
}

// RemoteHost 远端主机
func (c *Connection) RemoteHost() string {
	return c.host
}

// RemotePort 远端端口
func (c *Connection) RemotePort() int {
	return c.port
}

// RemoteAddr 远端地址
func (c *Connection) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// IsClosed 连接是否已关闭
func (c *Connection) IsClosed() bool {
	return c.closed.Load()
}

// Send 同步发送一条消息
// 载荷类型在任何 I/O 之前校验；写失败包装为 *TransportError，不做重试
func (c *Connection) Send(msg Message) error {
	if !msg.Valid() {
		return ErrInvalidPayload
	}
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.server.config.WriteTimeout)); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	if err := c.conn.WriteMessage(int(msg.Type), msg.payload()); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// requestClose 发送关闭帧请求优雅关闭，收尾由读循环完成
func (c *Connection) requestClose(code int, reason string) error {
	deadline := time.Now().Add(c.server.config.WriteTimeout)
	payload := websocket.FormatCloseMessage(code, reason)

	c.writeMu.Lock()
	err := c.conn.WriteControl(websocket.CloseMessage, payload, deadline)
	c.writeMu.Unlock()

	if err != nil && err != websocket.ErrCloseSent {
		return &TransportError{Op: "close", Err: err}
	}
	return nil
}

// forceClose 直接断开底层连接，读循环随即以错误退出
func (c *Connection) forceClose() {
	_ = c.conn.Close()
}

// readLoop 读取入站帧并按到达顺序分发消息事件，返回关闭原因
func (c *Connection) readLoop() string {
	s := c.server

	c.conn.SetReadLimit(s.config.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(s.config.HeartbeatTimeout)); err != nil {
		return "read setup failed"
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(s.config.HeartbeatTimeout))
	})

	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			if !isExpectedClose(err) {
				// 异常断开：先派发错误事件，随后照常派发关闭事件
				s.metrics.IncrementReadErrors()
				s.handler.OnError(c, err)
			}
			return closeReason(err)
		}

		switch mt {
		case websocket.TextMessage:
			s.metrics.IncrementTextMessages()
			s.handler.OnTextMessage(c, string(data))
		case websocket.BinaryMessage:
			s.metrics.IncrementBinaryMessages()
			s.handler.OnBinaryMessage(c, data)
		}
	}
}

// pingLoop 周期发送 Ping 维持心跳，连接关闭后退出
func (c *Connection) pingLoop() {
	ticker := time.NewTicker(c.server.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.server.config.WriteTimeout)
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, deadline)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
