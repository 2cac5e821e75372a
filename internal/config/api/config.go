package api

import (
	"fmt"
	"time"

	"github.com/weisyn/custody/pkg/types"
)

// APIOptions API服务配置选项
type APIOptions struct {
	// HTTP API配置
	HTTP HTTPConfig `json:"http"`

	// EnableMetrics 是否暴露 Prometheus /metrics 端点
	EnableMetrics bool `json:"enable_metrics"`

	// EnableSimRoutes 是否开启 /v1/sim 模拟环境管理路由
	EnableSimRoutes bool `json:"enable_sim_routes"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	// 基础配置
	Enabled bool   `json:"enabled"` // 是否启用HTTP服务（总开关）
	Host    string `json:"host"`    // 监听地址
	Port    int    `json:"port"`    // 监听端口

	// 超时配置
	ReadTimeout     time.Duration `json:"read_timeout"`     // 读取超时时间
	WriteTimeout    time.Duration `json:"write_timeout"`    // 写入超时时间
	ShutdownTimeout time.Duration `json:"shutdown_timeout"` // 优雅关闭超时

	// CORS配置
	CORSEnabled bool     `json:"cors_enabled"` // 是否启用CORS
	CORSOrigins []string `json:"cors_origins"` // 允许的CORS源

	MaxRequestSize int64  `json:"max_request_size"` // 最大请求大小(字节)
	CallerHeader   string `json:"caller_header"`    // 调用者地址请求头
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置实现
func New(userConfig *types.UserAPIConfig) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultAPIOptions()

	// 2. 如果有用户配置，则转换并覆盖默认配置
	if userConfig != nil {
		convertAndMergeUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultAPIOptions 创建默认API配置
func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		HTTP: HTTPConfig{
			Enabled:         defaultHTTPEnabled,
			Host:            defaultHTTPHost,
			Port:            defaultHTTPPort,
			ReadTimeout:     defaultHTTPReadTimeout,
			WriteTimeout:    defaultHTTPWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
			CORSEnabled:     defaultCORSEnabled,
			CORSOrigins:     append([]string{}, defaultCORSOrigins...), // 复制切片
			MaxRequestSize:  defaultMaxRequestSize,
			CallerHeader:    defaultCallerHeader,
		},
		EnableMetrics:   defaultEnableMetrics,
		EnableSimRoutes: defaultEnableSimRoutes,
	}
}

// convertAndMergeUserConfig 将用户配置转换并合并到默认配置中
// 使用指针类型来准确区分"未设置"和"设置为零值"
func convertAndMergeUserConfig(defaultOpts *APIOptions, userConfig *types.UserAPIConfig) {
	if userConfig.HTTPEnabled != nil {
		defaultOpts.HTTP.Enabled = *userConfig.HTTPEnabled
	}
	if userConfig.HTTPHost != nil && *userConfig.HTTPHost != "" {
		defaultOpts.HTTP.Host = *userConfig.HTTPHost
	}
	if userConfig.HTTPPort != nil && *userConfig.HTTPPort > 0 {
		defaultOpts.HTTP.Port = *userConfig.HTTPPort
	}
	if userConfig.HTTPCorsEnabled != nil {
		defaultOpts.HTTP.CORSEnabled = *userConfig.HTTPCorsEnabled
	}
	if len(userConfig.HTTPCorsOrigins) > 0 {
		defaultOpts.HTTP.CORSOrigins = append([]string{}, userConfig.HTTPCorsOrigins...)
	}
	if userConfig.EnableMetrics != nil {
		defaultOpts.EnableMetrics = *userConfig.EnableMetrics
	}
	if userConfig.EnableSimRoutes != nil {
		defaultOpts.EnableSimRoutes = *userConfig.EnableSimRoutes
	}
}

// GetOptions 获取完整的API配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}

// Addr HTTP监听地址（host:port）
func (o *APIOptions) Addr() string {
	return fmt.Sprintf("%s:%d", o.HTTP.Host, o.HTTP.Port)
}
