package wss

import (
	"net/http"
	"time"

	"github.com/tokmz/wss/pkg/logger"
)

// Option 配置选项
type Option func(*Config)

// WithHost 设置监听地址
// 空字符串、"*"、"0.0.0.0"、"::" 绑定所有网卡，其余值绑定指定地址（大小写不敏感）
func WithHost(host string) Option {
	return func(c *Config) {
		c.Host = host
	}
}

// WithTLS 启用 TLS（wss://），证书与私钥均为 PEM 文件路径
func WithTLS(certFile, keyFile string) Option {
	return func(c *Config) {
		c.TLS = &TLSConfig{CertFile: certFile, KeyFile: keyFile}
	}
}

// WithMaxConnections 设置最大连接数
func WithMaxConnections(max int) Option {
	return func(c *Config) {
		c.MaxConnections = max
	}
}

// WithMaxMessageSize 设置入站消息大小上限
func WithMaxMessageSize(size int64) Option {
	return func(c *Config) {
		c.MaxMessageSize = size
	}
}

// WithHandshakeTimeout 设置握手超时
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HandshakeTimeout = timeout
	}
}

// WithWriteTimeout 设置单次写超时
func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.WriteTimeout = timeout
	}
}

// WithHeartbeat 设置心跳间隔与超时
func WithHeartbeat(interval, timeout time.Duration) Option {
	return func(c *Config) {
		c.HeartbeatInterval = interval
		c.HeartbeatTimeout = timeout
	}
}

// WithStopTimeout 设置 Close() 隐式关闭时的优雅超时
func WithStopTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.StopTimeout = timeout
	}
}

// WithCheckOrigin 设置 Origin 检查函数
// 默认接受所有来源：服务器监听独立端口，非浏览器同源场景
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(c *Config) {
		c.CheckOrigin = fn
	}
}

// WithLogger 设置日志器（默认静默）
func WithLogger(log logger.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithMetrics 设置监控
func WithMetrics(metrics Metrics) Option {
	return func(c *Config) {
		c.Metrics = metrics
	}
}
