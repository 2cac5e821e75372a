package app

import (
	"github.com/weisyn/custody/pkg/interfaces/config"
	"github.com/weisyn/custody/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
// 实现config.AppOptions接口
type options struct {
	// 配置文件路径
	configFilePath string

	// 用户配置（优先级高于configFilePath）
	appConfig *types.AppConfig

	// API支持开关 (默认启用)
	enableAPI bool

	// 命令行覆盖的HTTP端口（0 表示沿用配置）
	httpPort int

	// 开发模式：开启模拟环境管理路由
	simRoutes bool
}

// 编译时校验options是否实现了config.AppOptions接口
var _ config.AppOptions = (*options)(nil)

// WithConfigFile 设置配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithAppConfig 直接使用给定的用户配置
func WithAppConfig(appConfig *types.AppConfig) Option {
	return func(o *options) {
		o.appConfig = appConfig
	}
}

// WithoutAPI 禁用API模块
func WithoutAPI() Option {
	return func(o *options) {
		o.enableAPI = false
	}
}

// WithHTTPPort 覆盖配置中的HTTP监听端口
func WithHTTPPort(port int) Option {
	return func(o *options) {
		o.httpPort = port
	}
}

// WithSimRoutes 开启模拟环境管理路由（发放资产、调整模拟场所）
func WithSimRoutes() Option {
	return func(o *options) {
		o.simRoutes = true
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	options := &options{enableAPI: true}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// GetAppConfig 返回应用程序配置，叠加命令行覆盖项
func (o *options) GetAppConfig() *types.AppConfig {
	if o.httpPort <= 0 && !o.simRoutes {
		return o.appConfig
	}
	cfg := types.AppConfig{}
	if o.appConfig != nil {
		cfg = *o.appConfig
	}
	api := types.UserAPIConfig{}
	if cfg.API != nil {
		api = *cfg.API
	}
	if o.httpPort > 0 {
		api.HTTPPort = types.IntPtr(o.httpPort)
	}
	if o.simRoutes {
		api.EnableSimRoutes = types.BoolPtr(true)
	}
	cfg.API = &api
	return &cfg
}
