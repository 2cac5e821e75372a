package app

import (
	"go.uber.org/fx"

	httpapi "github.com/weisyn/custody/internal/api/http"
	config "github.com/weisyn/custody/internal/config"
	"github.com/weisyn/custody/internal/core/custody"
	"github.com/weisyn/custody/internal/core/infrastructure/event"
	log "github.com/weisyn/custody/internal/core/infrastructure/log"
	"github.com/weisyn/custody/internal/core/infrastructure/storage"
	"github.com/weisyn/custody/internal/core/infrastructure/writegate"
	configif "github.com/weisyn/custody/pkg/interfaces/config"
)

// Framework layers
const (
	// 基础设施层
	LayerInfrastructure = "infrastructure"
	// 业务逻辑层
	LayerBusiness = "business"
	// 应用层
	LayerApplication = "application"
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts *options
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{opts: opts}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(func() configif.AppOptions { return b.opts }),
		config.Module(),    // 1. 配置(不依赖其他)
		log.Module(),       // 2. 日志(依赖配置)
		event.Module(),     // 3. 事件(依赖配置和日志)
		storage.Module(),   // 4. 存储(依赖配置和日志)
		writegate.Module(), // 5. 写入闸门
	}
}

// SetupBusinessLayer 设置业务逻辑层模块
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	return []fx.Option{
		custody.Module(),
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	if !b.opts.enableAPI {
		return nil
	}
	return []fx.Option{
		httpapi.Module(),
	}
}

// Options 按层级顺序汇总全部模块
func (b *Bootstrap) Options() []fx.Option {
	var all []fx.Option
	all = append(all, b.SetupInfrastructureLayer()...)
	all = append(all, b.SetupBusinessLayer()...)
	all = append(all, b.SetupApplicationLayer()...)
	return all
}
