package config

import (
	apiconfig "github.com/weisyn/custody/internal/config/api"
	custodyconfig "github.com/weisyn/custody/internal/config/custody"
	eventconfig "github.com/weisyn/custody/internal/config/event"
	logconfig "github.com/weisyn/custody/internal/config/log"
	badgerconfig "github.com/weisyn/custody/internal/config/storage/badger"
	memoryconfig "github.com/weisyn/custody/internal/config/storage/memory"
	"github.com/weisyn/custody/pkg/types"
)

// Provider 配置提供者接口
// 每个方法返回合并了默认值与用户配置的完整选项
type Provider interface {
	// GetCustody 获取金库配置
	GetCustody() *custodyconfig.CustodyOptions

	// GetAPI 获取API服务配置
	GetAPI() *apiconfig.APIOptions

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetEvent 获取事件配置
	GetEvent() *eventconfig.EventOptions

	// GetBadger 获取BadgerDB存储配置
	GetBadger() *badgerconfig.BadgerOptions

	// GetMemory 获取内存存储配置
	GetMemory() *memoryconfig.MemoryOptions

	// UseInMemoryStorage 是否使用内存存储替代BadgerDB
	UseInMemoryStorage() bool

	// GetAppConfig 获取原始用户配置
	GetAppConfig() *types.AppConfig
}
