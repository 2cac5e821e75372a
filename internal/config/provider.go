package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/weisyn/custody/internal/config/api"
	"github.com/weisyn/custody/internal/config/custody"
	"github.com/weisyn/custody/internal/config/event"
	"github.com/weisyn/custody/internal/config/log"
	"github.com/weisyn/custody/internal/config/storage/badger"
	"github.com/weisyn/custody/internal/config/storage/memory"
	"github.com/weisyn/custody/pkg/interfaces/config"
	"github.com/weisyn/custody/pkg/types"
	"github.com/weisyn/custody/pkg/utils"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	return &Provider{
		appConfig: appConfig,
	}
}

// LoadAppConfig 从JSON文件加载用户配置
//
// 参数：
//   - path: 配置文件路径
//
// 返回：
//   - *types.AppConfig: 用户配置（只包含文件中出现的字段）
//   - error: 读取或解析失败
func LoadAppConfig(path string) (*types.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件失败 %s: %w", path, err)
	}
	return &appConfig, nil
}

// GetCustody 获取金库配置
func (p *Provider) GetCustody() *custody.CustodyOptions {
	var userCustodyConfig *types.UserCustodyConfig
	if p.appConfig != nil && p.appConfig.Custody != nil {
		userCustodyConfig = p.appConfig.Custody
	}
	return custody.New(userCustodyConfig).GetOptions()
}

// GetAPI 获取API服务配置
func (p *Provider) GetAPI() *api.APIOptions {
	// 直接传递用户API配置给api.New，让它处理默认值和转换
	var userAPIConfig *types.UserAPIConfig
	if p.appConfig != nil && p.appConfig.API != nil {
		userAPIConfig = p.appConfig.API
	}
	return api.New(userAPIConfig).GetOptions()
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	var userLogConfig *types.UserLogConfig
	if p.appConfig != nil && p.appConfig.Log != nil {
		userLogConfig = p.appConfig.Log
	}
	options := log.New(userLogConfig).GetOptions()

	// 未显式指定日志文件时，由数据目录推导
	if options.FilePath == "" && p.appConfig != nil && p.appConfig.DataDir != nil {
		options.FilePath = log.DefaultFilePath(utils.ResolveDataPath(*p.appConfig.DataDir))
	}
	return options
}

// GetEvent 获取事件配置
func (p *Provider) GetEvent() *event.EventOptions {
	var userEventConfig *types.UserEventConfig
	if p.appConfig != nil && p.appConfig.Event != nil {
		userEventConfig = p.appConfig.Event
	}
	return event.New(userEventConfig).GetOptions()
}

// === 存储引擎配置方法 ===

// GetBadger 获取BadgerDB存储配置
func (p *Provider) GetBadger() *badger.BadgerOptions {
	// 从Storage配置结构中提取路径信息，转换为BadgerDB配置
	var userStorageConfig *types.UserStorageConfig
	if p.appConfig != nil && p.appConfig.Storage != nil {
		userStorageConfig = p.appConfig.Storage
	}

	// 未配置 data_root 时回退到 data_dir
	if (userStorageConfig == nil || userStorageConfig.DataRoot == nil) && p.appConfig != nil && p.appConfig.DataDir != nil {
		userStorageConfig = &types.UserStorageConfig{
			DataRoot: types.StringPtr(filepath.Join(*p.appConfig.DataDir, "storage")),
		}
	}
	return badger.New(userStorageConfig).GetOptions()
}

// GetMemory 获取内存存储配置
func (p *Provider) GetMemory() *memory.MemoryOptions {
	return memory.New(nil).GetOptions()
}

// UseInMemoryStorage 是否使用内存存储替代BadgerDB
func (p *Provider) UseInMemoryStorage() bool {
	if p.appConfig == nil || p.appConfig.Storage == nil || p.appConfig.Storage.InMemory == nil {
		return false
	}
	return *p.appConfig.Storage.InMemory
}

// GetAppConfig 获取原始用户配置
func (p *Provider) GetAppConfig() *types.AppConfig {
	return p.appConfig
}

// GetEnvironment 获取运行环境
//
// 未配置或无效值时默认 prod（安全优先）。
func (p *Provider) GetEnvironment() string {
	if p.appConfig == nil || p.appConfig.Environment == nil {
		return "prod"
	}
	switch env := strings.ToLower(strings.TrimSpace(*p.appConfig.Environment)); env {
	case "dev", "test", "prod":
		return env
	default:
		return "prod"
	}
}
