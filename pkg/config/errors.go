package config

import "errors"

// 配置包错误定义
var (
	// ErrConfigNotFound 配置文件未找到
	ErrConfigNotFound = errors.New("config: file not found")
	// ErrConfigRead 配置读取失败
	ErrConfigRead = errors.New("config: read failed")
)
