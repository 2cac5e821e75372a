package api

import "time"

// API服务默认配置值
const (
	// defaultHTTPEnabled 默认启用HTTP API
	defaultHTTPEnabled = true

	// defaultHTTPHost HTTP监听地址
	// 金库写操作以请求头声明调用者，默认只监听本机
	defaultHTTPHost = "127.0.0.1"

	// defaultHTTPPort HTTP端口
	defaultHTTPPort = 8080

	// defaultHTTPReadTimeout HTTP读取超时
	defaultHTTPReadTimeout = 15 * time.Second

	// defaultHTTPWriteTimeout HTTP写入超时
	defaultHTTPWriteTimeout = 15 * time.Second

	// defaultShutdownTimeout 优雅关闭超时
	defaultShutdownTimeout = 10 * time.Second

	// defaultMaxRequestSize 最大请求大小（金库请求体很小）
	defaultMaxRequestSize = 64 * 1024

	// defaultCORSEnabled 默认关闭CORS
	defaultCORSEnabled = false

	// defaultEnableMetrics 默认暴露 /metrics
	defaultEnableMetrics = true

	// defaultEnableSimRoutes 默认关闭模拟环境管理路由
	defaultEnableSimRoutes = false

	// defaultCallerHeader 写操作声明调用者地址的请求头
	defaultCallerHeader = "X-Caller"
)

// defaultCORSOrigins 默认允许的CORS源
var defaultCORSOrigins = []string{"*"}
