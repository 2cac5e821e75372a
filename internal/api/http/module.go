package http

import (
	"context"

	"go.uber.org/fx"

	apiconfig "github.com/weisyn/custody/internal/config/api"
	custodyif "github.com/weisyn/custody/pkg/interfaces/custody"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
)

// ModuleInput HTTP模块输入依赖
type ModuleInput struct {
	fx.In

	Lifecycle fx.Lifecycle
	Options   *apiconfig.APIOptions
	Vault     custodyif.Vault
	Simulator custodyif.Simulator `optional:"true"`
	Logger    log.Logger          `optional:"true"`
}

// Module 返回HTTP API模块
//
// HTTP 未启用时仍提供 *Server（不监听），便于依赖方统一注入。
func Module() fx.Option {
	return fx.Module("httpapi",
		fx.Provide(ProvideServer),
		fx.Invoke(func(*Server) {}),
	)
}

// ProvideServer 创建服务器并注册启停钩子
func ProvideServer(input ModuleInput) *Server {
	server := NewServer(input.Options, input.Vault, input.Simulator, input.Logger)
	if !input.Options.HTTP.Enabled {
		if input.Logger != nil {
			input.Logger.Info("HTTP API 已在配置中禁用")
		}
		return server
	}

	input.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
	return server
}
