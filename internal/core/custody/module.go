package custody

import (
	"context"

	"go.uber.org/fx"

	custodyconfig "github.com/weisyn/custody/internal/config/custody"
	custodyif "github.com/weisyn/custody/pkg/interfaces/custody"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/writegate"
)

// ModuleInput 金库模块输入依赖
type ModuleInput struct {
	fx.In

	Lifecycle fx.Lifecycle
	Options   *custodyconfig.CustodyOptions
	Store     storage.KVStore
	Gate      writegate.WriteGate
	EventBus  event.EventBus `optional:"true"`
	Logger    log.Logger     `optional:"true"`
}

// ModuleOutput 金库模块输出服务
type ModuleOutput struct {
	fx.Out

	Deployment *Deployment
	Vault      custodyif.Vault
	Receipts   custodyif.ReceiptLedger
	Venue      custodyif.VenueAdapter
	Simulator  custodyif.Simulator
}

// Module 返回金库模块
func Module() fx.Option {
	return fx.Module("custody",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 组装部署并登记生命周期日志
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	d, err := NewDeployment(context.Background(), DeploymentParams{
		Options:  input.Options,
		Store:    input.Store,
		Gate:     input.Gate,
		EventBus: input.EventBus,
		Logger:   input.Logger,
	})
	if err != nil {
		return ModuleOutput{}, err
	}

	input.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if input.Logger == nil {
				return nil
			}
			snap, err := d.Vault.Snapshot(ctx)
			if err != nil {
				input.Logger.Warnf("停止时读取金库快照失败: %v", err)
				return nil
			}
			input.Logger.Infof("金库停止: local=%s venue=%s supply=%s paused=%v",
				snap.LocalBalance.Dec(), snap.VenueBalance.Dec(), snap.ReceiptSupply.Dec(), snap.Paused)
			return nil
		},
	})

	return ModuleOutput{
		Deployment: d,
		Vault:      d.Vault,
		Receipts:   d.Receipts,
		Venue:      d.Venue,
		Simulator:  d,
	}, nil
}
