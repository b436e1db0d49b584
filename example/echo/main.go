package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tokmz/wss"
	"github.com/tokmz/wss/pkg/config"
	"github.com/tokmz/wss/pkg/logger"
)

// echoHandler 回显处理器：收到什么发回什么
type echoHandler struct {
	log logger.Logger
}

func (h *echoHandler) OnOpen(c *wss.Connection, r *http.Request) {
	h.log.Info("客户端接入",
		zap.String("conn_id", c.ID()),
		zap.String("path", r.URL.Path),
	)
	_ = c.Send(wss.Text("welcome, " + c.ID()))
}

func (h *echoHandler) OnTextMessage(c *wss.Connection, text string) {
	h.log.Debug("收到文本", zap.String("conn_id", c.ID()), zap.String("text", text))
	if err := c.Send(wss.Text(text)); err != nil {
		h.log.Warn("回显失败", zap.String("conn_id", c.ID()), zap.Error(err))
	}
}

func (h *echoHandler) OnBinaryMessage(c *wss.Connection, data []byte) {
	h.log.Debug("收到二进制", zap.String("conn_id", c.ID()), zap.Int("bytes", len(data)))
	if err := c.Send(wss.Binary(data)); err != nil {
		h.log.Warn("回显失败", zap.String("conn_id", c.ID()), zap.Error(err))
	}
}

func (h *echoHandler) OnError(c *wss.Connection, err error) {
	h.log.Warn("连接异常", zap.String("conn_id", c.ID()), zap.Error(err))
}

func (h *echoHandler) OnClose(c *wss.Connection, reason string) {
	h.log.Info("客户端断开",
		zap.String("conn_id", c.ID()),
		zap.String("reason", reason),
	)
}

func main() {
	// 加载配置
	cfg := config.New(config.WithConfigFile("example/echo/config.yaml"))
	if err := cfg.Load(); err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	defer cfg.Close()

	// 初始化日志
	zlog, err := logger.New(&logger.Config{
		Level:   logger.ParseLevel(cfg.GetString("log.level")),
		Format:  logger.Format(cfg.GetString("log.format")),
		Console: true,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// 构建并启动服务器
	srv, err := wss.NewFromConfig(cfg, &echoHandler{log: zlog}, wss.WithLogger(zlog))
	if err != nil {
		zlog.Fatal("构建服务器失败", zap.Error(err))
	}
	if err := srv.Start(); err != nil {
		zlog.Fatal("启动服务器失败", zap.Error(err))
	}
	defer func() { _ = srv.Close() }()

	zlog.Info("回显服务器已启动", zap.String("addr", srv.Addr()))

	// 等待退出信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("收到退出信号，开始关闭")
	if err := srv.StopDefault(); err != nil {
		zlog.Error("关闭失败", zap.Error(err))
	}
	zlog.Info("已退出")
}
