// Package event 提供事件管理功能
package event

import (
	"context"

	"go.uber.org/fx"

	eventconfig "github.com/weisyn/custody/internal/config/event"
	"github.com/weisyn/custody/pkg/interfaces/config"
	eventInterface "github.com/weisyn/custody/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
)

// ModuleInput 事件模块输入依赖
type ModuleInput struct {
	fx.In

	Provider  config.Provider // 配置提供者
	Logger    log.Logger      `optional:"true"` // 日志记录器（可选）
	Lifecycle fx.Lifecycle    // 生命周期管理
}

// ModuleOutput 事件模块输出服务
type ModuleOutput struct {
	fx.Out

	EventBus eventInterface.EventBus // 事件总线
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(
			func(input ModuleInput) (ModuleOutput, error) {
				eventCfg := eventconfig.NewFromOptions(input.Provider.GetEvent())
				bus := New(eventCfg, input.Logger)

				// 停止时等待异步订阅者处理完成
				input.Lifecycle.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						bus.WaitAsync()
						return nil
					},
				})

				if input.Logger != nil {
					input.Logger.Infof("事件总线已初始化: enabled=%v, history=%d",
						eventCfg.IsEnabled(), eventCfg.GetHistorySize())
				}

				return ModuleOutput{
					EventBus: bus,
				}, nil
			},
		),
	)
}
