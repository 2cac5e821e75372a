// Package writegate 提供金库写入闸门
package writegate

import (
	"go.uber.org/fx"

	wgif "github.com/weisyn/custody/pkg/interfaces/infrastructure/writegate"
)

// ModuleOutput 定义 WriteGate 模块的输出服务
type ModuleOutput struct {
	fx.Out

	WriteGate wgif.WriteGate
}

// Module 返回 WriteGate 模块的 fx.Option
//
// 提供：
//   - WriteGate: 金库写入闸门（每个应用实例一个）
func Module() fx.Option {
	return fx.Module("writegate",
		fx.Provide(func() ModuleOutput {
			return ModuleOutput{WriteGate: New()}
		}),
	)
}
