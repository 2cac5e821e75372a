// Package config 定义配置相关的公共接口
package config

import "github.com/weisyn/custody/pkg/types"

// AppOptions 应用配置选项来源
// 由启动入口（CLI / 测试）提供用户JSON配置
type AppOptions interface {
	GetAppConfig() *types.AppConfig
}
