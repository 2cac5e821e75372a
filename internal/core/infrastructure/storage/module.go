// Package storage 提供存储管理功能
package storage

import (
	"context"

	"go.uber.org/fx"

	badgerconfig "github.com/weisyn/custody/internal/config/storage/badger"
	memoryconfig "github.com/weisyn/custody/internal/config/storage/memory"
	"github.com/weisyn/custody/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/custody/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/custody/pkg/interfaces/config"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/custody/pkg/interfaces/infrastructure/storage"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider // 配置提供者
	Logger    log.Logger      // 日志记录器
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	// 金库状态存储（BadgerDB 或 BigCache 内存存储）
	KVStore storageInterface.KVStore
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 提供存储服务
// 根据配置选择存储引擎，并注册关闭钩子
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	store, err := NewKVStore(params.Provider, params.Logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("正在关闭存储服务...")
			return store.Close()
		},
	})

	return ModuleOutput{KVStore: store}, nil
}

// NewKVStore 根据配置创建键值存储
func NewKVStore(provider config.Provider, logger log.Logger) (storageInterface.KVStore, error) {
	if provider.UseInMemoryStorage() {
		logger.Warn("使用内存存储：金库状态不会持久化")
		return memory.New(memoryconfig.NewFromOptions(provider.GetMemory()), logger)
	}
	return badger.New(badgerconfig.NewFromOptions(provider.GetBadger()), logger)
}
