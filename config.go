package wss

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tokmz/wss/pkg/logger"
)

// DefaultStopTimeout 默认优雅关闭超时
const DefaultStopTimeout = 5 * time.Second

// TLSConfig TLS 证书配置
type TLSConfig struct {
	CertFile string // 证书文件路径（PEM）
	KeyFile  string // 私钥文件路径（PEM）
}

// Config 服务器配置
type Config struct {
	// 监听配置
	Host string     // 监听地址（空、"*"、"0.0.0.0"、"::" 绑定所有网卡）
	Port int        // 监听端口（1-65535；0 表示随机端口，仅用于测试）
	TLS  *TLSConfig // 非 nil 时启用 wss://

	// 连接配置
	MaxConnections   int           // 最大连接数
	MaxMessageSize   int64         // 单条入站消息大小上限
	HandshakeTimeout time.Duration // 握手超时
	WriteTimeout     time.Duration // 单次写超时

	// 心跳配置
	HeartbeatInterval time.Duration // Ping 间隔
	HeartbeatTimeout  time.Duration // Pong 超时（读截止时间）

	// 关闭配置
	StopTimeout time.Duration // Close() 隐式关闭时的优雅超时

	// Upgrader 配置
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(*http.Request) bool // nil 时接受所有来源（独立监听端口，非浏览器同源场景）

	// 可观测
	Logger  logger.Logger
	Metrics Metrics
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Host:              "localhost",
		MaxConnections:    10000,
		MaxMessageSize:    512 * 1024, // 512KB
		HandshakeTimeout:  10 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		HeartbeatTimeout:  90 * time.Second,
		StopTimeout:       DefaultStopTimeout,
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: Port must be 0-65535, got %d", ErrInvalidConfig, c.Port)
	}
	if c.TLS != nil {
		// 安全模式下证书材料必须完整
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return fmt.Errorf("%w: TLS requires both CertFile and KeyFile", ErrInvalidConfig)
		}
	}
	if c.MaxConnections <= 0 {
		return fmt.Errorf("%w: MaxConnections must be positive, got %d", ErrInvalidConfig, c.MaxConnections)
	}
	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("%w: MaxMessageSize must be positive, got %d", ErrInvalidConfig, c.MaxMessageSize)
	}
	if c.HandshakeTimeout <= 0 {
		return fmt.Errorf("%w: HandshakeTimeout must be positive, got %v", ErrInvalidConfig, c.HandshakeTimeout)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("%w: WriteTimeout must be positive, got %v", ErrInvalidConfig, c.WriteTimeout)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%w: HeartbeatInterval must be positive, got %v", ErrInvalidConfig, c.HeartbeatInterval)
	}
	if c.HeartbeatTimeout <= c.HeartbeatInterval {
		return fmt.Errorf("%w: HeartbeatTimeout (%v) must be greater than HeartbeatInterval (%v)",
			ErrInvalidConfig, c.HeartbeatTimeout, c.HeartbeatInterval)
	}
	if c.StopTimeout < 0 {
		return fmt.Errorf("%w: StopTimeout must not be negative, got %v", ErrInvalidConfig, c.StopTimeout)
	}
	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("%w: ReadBufferSize must be positive, got %d", ErrInvalidConfig, c.ReadBufferSize)
	}
	if c.WriteBufferSize <= 0 {
		return fmt.Errorf("%w: WriteBufferSize must be positive, got %d", ErrInvalidConfig, c.WriteBufferSize)
	}
	return nil
}

// Secure 是否启用 TLS
func (c *Config) Secure() bool {
	return c.TLS != nil
}

// bindAddr 计算监听地址，通配主机名绑定所有网卡
func (c *Config) bindAddr() string {
	host := strings.ToLower(strings.TrimSpace(c.Host))
	switch host {
	case "", "*", "0.0.0.0", "::":
		return ":" + strconv.Itoa(c.Port)
	}
	return net.JoinHostPort(host, strconv.Itoa(c.Port))
}
