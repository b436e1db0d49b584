package wss

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// nopHandler 空事件处理器
type nopHandler struct{}

func (nopHandler) OnOpen(*Connection, *http.Request)   {}
func (nopHandler) OnTextMessage(*Connection, string)   {}
func (nopHandler) OnBinaryMessage(*Connection, []byte) {}
func (nopHandler) OnError(*Connection, error)          {}
func (nopHandler) OnClose(*Connection, string)         {}

// recordingHandler 将事件写入通道供测试断言
type recordingHandler struct {
	opened   chan string
	texts    chan string
	binaries chan []byte
	errs     chan error
	closed   chan string
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		opened:   make(chan string, 16),
		texts:    make(chan string, 16),
		binaries: make(chan []byte, 16),
		errs:     make(chan error, 16),
		closed:   make(chan string, 16),
	}
}

func (h *recordingHandler) OnOpen(c *Connection, _ *http.Request) { h.opened <- c.ID() }
func (h *recordingHandler) OnTextMessage(c *Connection, s string) { h.texts <- s }
func (h *recordingHandler) OnBinaryMessage(c *Connection, b []byte) {
	h.binaries <- append([]byte(nil), b...)
}
func (h *recordingHandler) OnError(c *Connection, err error)     { h.errs <- err }
func (h *recordingHandler) OnClose(c *Connection, reason string) { h.closed <- c.ID() }

// waitFor 等待通道事件，超时即失败
func waitFor[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(3 * time.Second):
		t.Fatalf("timeout waiting for %s", what)
		panic("unreachable")
	}
}

// startServer 启动测试服务器（随机端口），测试结束自动释放
func startServer(t *testing.T, h Handler, opts ...Option) *Server {
	t.Helper()
	s, err := New(0, h, opts...)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// dialServer 以客户端身份连接测试服务器
func dialServer(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+dialAddr(t, s), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// dialAddr 计算客户端连接地址：通配绑定时改用回环地址
func dialAddr(t *testing.T, s *Server) string {
	t.Helper()
	host, port, err := net.SplitHostPort(s.Addr())
	require.NoError(t, err)
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}

// splitAddr 拆分 host:port 地址
func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	return host, port, err
}

// readText 读取一条文本消息
func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	mt, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, mt)
	return string(data)
}

// writeSelfSignedCert 生成自签名证书用于 TLS 测试
func writeSelfSignedCert(t *testing.T, dir string) (certFile, keyFile string) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{Organization: []string{"wss test"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)

	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")

	certOut, err := os.Create(certFile)
	require.NoError(t, err)
	require.NoError(t, pem.Encode(certOut, &pem.Block{Type: "CERTIFICATE", Bytes: der}))
	require.NoError(t, certOut.Close())

	keyDER, err := x509.MarshalECPrivateKey(priv)
	require.NoError(t, err)
	keyOut, err := os.Create(keyFile)
	require.NoError(t, err)
	require.NoError(t, pem.Encode(keyOut, &pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	require.NoError(t, keyOut.Close())

	return certFile, keyFile
}
