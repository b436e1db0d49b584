package config

import "github.com/fsnotify/fsnotify"

// startWatch 开始监控配置文件变更
// 调用方必须已持有 mu 锁
func (c *Config) startWatch() {
	c.viper.OnConfigChange(func(e fsnotify.Event) {
		c.mu.RLock()
		watching := c.watching
		onChange := c.onChange
		c.mu.RUnlock()

		// 已停止监控，忽略事件
		if !watching {
			return
		}

		if onChange != nil {
			onChange()
		}
	})
	c.viper.WatchConfig()
	c.watching = true
}

// StartWatch 开始监控配置文件变更
// 如果已经在监控中，则不重复启动
func (c *Config) StartWatch() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watching {
		return nil
	}

	c.startWatch()
	return nil
}

// StopWatch 停止监控配置文件
// 注意：viper 未提供停止底层 fsnotify watcher 的方法，
// 此方法仅标记状态使回调不再生效，底层 watcher 在 Config 生命周期内持续运行
func (c *Config) StopWatch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watching = false
}
