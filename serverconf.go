package wss

import (
	"fmt"
	"time"

	"github.com/tokmz/wss/pkg/config"
)

// ServerConfig 配置文件中 server 段的映射
//
// YAML 示例：
//
//	server:
//	  host: 0.0.0.0
//	  port: 9000
//	  tls:
//	    cert_file: certs/server.pem
//	    key_file: certs/server-key.pem
//	  max_connections: 10000
//	  max_message_size: 524288
//	  heartbeat_interval: 30s
//	  heartbeat_timeout: 90s
//	  stop_timeout: 5s
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	TLS struct {
		CertFile string `mapstructure:"cert_file"`
		KeyFile  string `mapstructure:"key_file"`
	} `mapstructure:"tls"`

	MaxConnections    int           `mapstructure:"max_connections"`
	MaxMessageSize    int64         `mapstructure:"max_message_size"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	HeartbeatTimeout  time.Duration `mapstructure:"heartbeat_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	StopTimeout       time.Duration `mapstructure:"stop_timeout"`
}

// NewFromConfig 从配置管理器构建服务器
// 读取 server 段；opts 在文件配置之后应用，可覆盖文件值
func NewFromConfig(cfg *config.Config, handler Handler, opts ...Option) (*Server, error) {
	var sc ServerConfig
	if err := cfg.UnmarshalKey("server", &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return New(sc.Port, handler, append(sc.options(), opts...)...)
}

// options 将文件配置转换为选项，零值字段保持默认
func (sc *ServerConfig) options() []Option {
	var opts []Option
	if sc.Host != "" {
		opts = append(opts, WithHost(sc.Host))
	}
	if sc.TLS.CertFile != "" || sc.TLS.KeyFile != "" {
		opts = append(opts, WithTLS(sc.TLS.CertFile, sc.TLS.KeyFile))
	}
	if sc.MaxConnections > 0 {
		opts = append(opts, WithMaxConnections(sc.MaxConnections))
	}
	if sc.MaxMessageSize > 0 {
		opts = append(opts, WithMaxMessageSize(sc.MaxMessageSize))
	}
	if sc.HeartbeatInterval > 0 && sc.HeartbeatTimeout > 0 {
		opts = append(opts, WithHeartbeat(sc.HeartbeatInterval, sc.HeartbeatTimeout))
	}
	if sc.WriteTimeout > 0 {
		opts = append(opts, WithWriteTimeout(sc.WriteTimeout))
	}
	if sc.StopTimeout > 0 {
		opts = append(opts, WithStopTimeout(sc.StopTimeout))
	}
	return opts
}
