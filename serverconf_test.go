package wss

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokmz/wss/pkg/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg := config.New(config.WithConfigFile(writeConfigFile(t, content)))
	require.NoError(t, cfg.Load())
	t.Cleanup(cfg.Close)
	return cfg
}

// TestNewFromConfig 测试从配置文件构建服务器
func TestNewFromConfig(t *testing.T) {
	cfg := loadConfig(t, `
server:
  host: 127.0.0.1
  port: 9000
  max_connections: 500
  max_message_size: 65536
  heartbeat_interval: 10s
  heartbeat_timeout: 25s
  write_timeout: 3s
  stop_timeout: 2s
`)

	s, err := NewFromConfig(cfg, nopHandler{})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", s.config.Host)
	assert.Equal(t, 9000, s.config.Port)
	assert.Equal(t, 500, s.config.MaxConnections)
	assert.Equal(t, int64(65536), s.config.MaxMessageSize)
	assert.Equal(t, 10*time.Second, s.config.HeartbeatInterval)
	assert.Equal(t, 25*time.Second, s.config.HeartbeatTimeout)
	assert.Equal(t, 3*time.Second, s.config.WriteTimeout)
	assert.Equal(t, 2*time.Second, s.config.StopTimeout)
	assert.False(t, s.config.Secure())
}

// TestNewFromConfigDefaults 测试未配置字段保持默认值
func TestNewFromConfigDefaults(t *testing.T) {
	cfg := loadConfig(t, `
server:
  port: 9000
`)

	s, err := NewFromConfig(cfg, nopHandler{})
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Host, s.config.Host)
	assert.Equal(t, def.MaxConnections, s.config.MaxConnections)
	assert.Equal(t, def.StopTimeout, s.config.StopTimeout)
}

// TestNewFromConfigTLS 测试 TLS 段映射
func TestNewFromConfigTLS(t *testing.T) {
	certFile, keyFile := writeSelfSignedCert(t, t.TempDir())

	cfg := loadConfig(t, `
server:
  port: 9000
  tls:
    cert_file: `+certFile+`
    key_file: `+keyFile+`
`)

	s, err := NewFromConfig(cfg, nopHandler{})
	require.NoError(t, err)
	assert.True(t, s.config.Secure())
	assert.Equal(t, certFile, s.config.TLS.CertFile)
	assert.Equal(t, keyFile, s.config.TLS.KeyFile)
}

// TestNewFromConfigInvalid 测试非法配置文件
func TestNewFromConfigInvalid(t *testing.T) {
	cfg := loadConfig(t, `
server:
  port: 70000
`)

	s, err := NewFromConfig(cfg, nopHandler{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, s)
}

// TestNewFromConfigOverride 测试选项覆盖文件配置
func TestNewFromConfigOverride(t *testing.T) {
	cfg := loadConfig(t, `
server:
  host: 0.0.0.0
  port: 9000
  max_connections: 500
`)

	s, err := NewFromConfig(cfg, nopHandler{}, WithMaxConnections(100))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", s.config.Host)
	assert.Equal(t, 100, s.config.MaxConnections)
}
