package wss

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tokmz/wss/pkg/logger"
)

// Status 服务器状态
type Status int32

const (
	// StatusIdle 未运行
	StatusIdle Status = iota
	// StatusStarting 启动中（瞬态，仅用于阻止重入）
	StatusStarting
	// StatusRunning 运行中
	StatusRunning
	// StatusStopping 关闭中（瞬态，仅用于阻止重入）
	StatusStopping
)

// String 返回状态名称
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusStarting:
		return "starting"
	case StatusRunning:
		return "running"
	case StatusStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Server WebSocket 服务器
// 持有监听器与连接注册表，将连接事件派发给 Handler
type Server struct {
	id      string // 实例标识（日志用）
	config  *Config
	handler Handler
	log     logger.Logger
	metrics Metrics

	registry *registry
	upgrader websocket.Upgrader

	// 生命周期
	status   atomic.Int32 // Status
	mu       sync.Mutex   // 串行化 Start/Stop
	listener net.Listener
	httpSrv  *http.Server
	addr     atomic.Value   // string，实际监听地址
	wg       sync.WaitGroup // 连接处理协程
	connMu   sync.Mutex     // 同步协程登记与关闭，防止 Add/Wait 竞争
}

// New 创建服务器
// port 为监听端口（1-65535；0 表示随机端口，仅用于测试），handler 不可为 nil
func New(port int, handler Handler, opts ...Option) (*Server, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: handler is required", ErrInvalidConfig)
	}

	config := DefaultConfig()
	config.Port = port
	for _, opt := range opts {
		opt(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// 默认监控与日志
	if config.Metrics == nil {
		config.Metrics = &NoopMetrics{}
	}
	if config.Logger == nil {
		config.Logger = logger.NewNop()
	}

	s := &Server{
		id:       uuid.NewString(),
		config:   config,
		handler:  handler,
		log:      config.Logger,
		metrics:  config.Metrics,
		registry: newRegistry(config.MaxConnections),
		upgrader: websocket.Upgrader{
			ReadBufferSize:   config.ReadBufferSize,
			WriteBufferSize:  config.WriteBufferSize,
			HandshakeTimeout: config.HandshakeTimeout,
			CheckOrigin:      config.CheckOrigin,
		},
	}
	if s.upgrader.CheckOrigin == nil {
		// 独立监听端口，默认接受所有来源；浏览器同源场景用 WithCheckOrigin 收紧
		s.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	s.addr.Store("")

	return s, nil
}

// Status 当前状态
func (s *Server) Status() Status {
	return Status(s.status.Load())
}

// Addr 实际监听地址（host:port），未运行时为空字符串
// 端口配置为 0 时这里返回实际分配的端口
func (s *Server) Addr() string {
	addr, _ := s.addr.Load().(string)
	return addr
}

// Start 启动服务器：绑定监听器并开始接受连接
// 仅在 Idle 状态下有效，否则返回 ErrAlreadyRunning
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.status.CompareAndSwap(int32(StatusIdle), int32(StatusStarting)) {
		return ErrAlreadyRunning
	}

	ln, err := s.listen()
	if err != nil {
		s.status.Store(int32(StatusIdle))
		return &TransportError{Op: "listen", Err: err}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleUpgrade)

	s.listener = ln
	s.httpSrv = &http.Server{Handler: mux}
	s.addr.Store(ln.Addr().String())

	go func(srv *http.Server, ln net.Listener) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("listener terminated", zap.Error(err))
		}
	}(s.httpSrv, ln)

	s.status.Store(int32(StatusRunning))
	s.log.Info("server started",
		zap.String("server_id", s.id),
		zap.String("addr", ln.Addr().String()),
		zap.Bool("tls", s.config.Secure()),
	)
	return nil
}

// listen 绑定监听器，secure 模式下加载证书
func (s *Server) listen() (net.Listener, error) {
	addr := s.config.bindAddr()
	if s.config.Secure() {
		cert, err := tls.LoadX509KeyPair(s.config.TLS.CertFile, s.config.TLS.KeyFile)
		if err != nil {
			return nil, err
		}
		return tls.Listen("tcp", addr, &tls.Config{Certificates: []tls.Certificate{cert}})
	}
	return net.Listen("tcp", addr)
}

// handleUpgrade 升级入站 HTTP 连接并注册
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if s.Status() != StatusRunning {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已写出错误响应
		s.log.Warn("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	c := newConnection(conn, s)
	if err := s.registry.add(c); err != nil {
		// 超出连接数限制，立即断开
		_ = c.requestClose(websocket.CloseTryAgainLater, "too many connections")
		_ = conn.Close()
		s.log.Warn("connection rejected", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	if !s.track() {
		// 关闭已开始，拒绝新连接
		s.registry.remove(c.id)
		_ = c.requestClose(websocket.CloseGoingAway, "server shutdown")
		_ = conn.Close()
		return
	}

	s.metrics.IncrementConnections()
	s.metrics.SetConnectionCount(s.registry.len())

	go s.serveConn(c, r)
}

// track 登记连接处理协程；关闭开始后拒绝登记
func (s *Server) track() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if Status(s.status.Load()) != StatusRunning {
		return false
	}
	s.wg.Add(1)
	return true
}

// Stop 优雅关闭：停止接受新连接，请求所有连接关闭，超时后强制断开
// 仅在 Running 状态下有效，否则返回 ErrNotRunning；返回时状态回到 Idle
func (s *Server) Stop(timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.status.CompareAndSwap(int32(StatusRunning), int32(StatusStopping)) {
		return ErrNotRunning
	}

	// 与 track 汇合：此后不再有新的连接协程登记
	s.connMu.Lock()
	s.connMu.Unlock() //nolint:staticcheck // 空临界区即汇合点

	// 停止接受新连接并释放监听器
	if err := s.httpSrv.Close(); err != nil {
		s.log.Warn("listener close failed", zap.Error(err))
	}

	// 请求所有连接优雅关闭
	s.registry.rangeConns(func(c *Connection) bool {
		_ = c.requestClose(websocket.CloseGoingAway, "server shutdown")
		return true
	})

	// 等待连接收尾或超时
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		// 超时，并发强制断开剩余连接
		g := new(errgroup.Group)
		s.registry.rangeConns(func(c *Connection) bool {
			conn := c
			g.Go(func() error {
				conn.forceClose()
				return nil
			})
			return true
		})
		_ = g.Wait()
		<-done
	}

	s.listener = nil
	s.httpSrv = nil
	s.addr.Store("")
	s.status.Store(int32(StatusIdle))

	s.log.Info("server stopped", zap.String("server_id", s.id))
	return nil
}

// StopDefault 按默认超时优雅关闭
func (s *Server) StopDefault() error {
	return s.Stop(DefaultStopTimeout)
}

// Close 释放服务器资源
// 可重复调用，未启动或已停止时为空操作；运行中等价于按配置超时 Stop。
// 适合 defer，保证所有退出路径（含错误路径）都不会泄漏监听器
func (s *Server) Close() error {
	if s.Status() != StatusRunning {
		return nil
	}
	if err := s.Stop(s.config.StopTimeout); err != nil {
		// 与并发的 Stop 竞争输掉也视为已关闭
		if errors.Is(err, ErrNotRunning) {
			return nil
		}
		return err
	}
	return nil
}
