// Package custody 组装托管金库的进程内部署
//
// 部署由以下部分组成：资产账本、按配置选择形态的模拟场所及其适配器、
// 回执账本，以及金库本身；前三者的状态都写穿到同一个 KVStore。serve 与 simulate 命令、
// fx 模块和测试夹具共用同一套组装逻辑。
package custody

import (
	"context"
	"fmt"

	custodyconfig "github.com/weisyn/custody/internal/config/custody"
	"github.com/weisyn/custody/internal/core/custody/asset"
	"github.com/weisyn/custody/internal/core/custody/receipt"
	"github.com/weisyn/custody/internal/core/custody/vault"
	"github.com/weisyn/custody/internal/core/custody/venue"
	"github.com/weisyn/custody/internal/core/custody/venue/sim"
	corelog "github.com/weisyn/custody/internal/core/infrastructure/log"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/writegate"
	"github.com/weisyn/custody/pkg/types"
)

// 模拟资产符号与登记表中的储备编号
const (
	simAssetSymbol          = "USDX"
	simRegistryReserveIndex = 1
)

// Deployment 一套完整的进程内部署
type Deployment struct {
	Token    *asset.Token
	Market   *sim.Market
	Venue    *venue.Adapter
	Receipts *receipt.Ledger
	Vault    *vault.Service
}

// DeploymentParams 组装所需的基础设施
type DeploymentParams struct {
	Options  *custodyconfig.CustodyOptions
	Store    storage.KVStore
	Gate     writegate.WriteGate
	EventBus event.EventBus // 可选
	Logger   log.Logger     // 可选
}

// NewDeployment 按配置组装部署
func NewDeployment(ctx context.Context, p DeploymentParams) (*Deployment, error) {
	if p.Options == nil {
		return nil, fmt.Errorf("%w: options unset", custodyconfig.ErrInvalidConfig)
	}
	cfg := custodyconfig.NewFromOptions(p.Options)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bounds, err := cfg.Bounds()
	if err != nil {
		return nil, err
	}
	opts := cfg.GetOptions()

	// 资产与场所余额和回执账本共用同一存储，重启后一起恢复
	token, err := asset.Open(ctx, cfg.AssetAddress(), simAssetSymbol, opts.AssetDecimals, p.Store, corelog.NewModuleLogger(p.Logger, "asset"))
	if err != nil {
		return nil, fmt.Errorf("创建资产账本失败: %w", err)
	}
	market, err := sim.OpenMarket(ctx, cfg.VenueAddress(), token, p.Store)
	if err != nil {
		return nil, fmt.Errorf("创建模拟场所失败: %w", err)
	}
	adapter, err := NewVenueAdapter(ctx, cfg.VenueKind(), venue.Config{
		Custody: cfg.CustodyAddress(),
		Venue:   cfg.VenueAddress(),
		Asset:   token,
		Logger:  corelog.NewModuleLogger(p.Logger, "venue"),
	}, market)
	if err != nil {
		return nil, err
	}

	receipts, err := receipt.New(ctx, receipt.Options{
		Name:     opts.ReceiptName,
		Symbol:   opts.ReceiptSymbol,
		Decimals: opts.ReceiptDecimals,
		Issuer:   cfg.CustodyAddress(),
	}, p.Store, corelog.NewModuleLogger(p.Logger, "receipt"))
	if err != nil {
		return nil, fmt.Errorf("创建回执账本失败: %w", err)
	}

	v, err := vault.New(ctx, vault.Settings{
		Custody:    cfg.CustodyAddress(),
		Controller: cfg.ControllerAddress(),
		Bounds:     bounds,
	}, vault.Dependencies{
		Asset:    token,
		Receipts: receipts,
		Venue:    adapter,
		Gate:     p.Gate,
		Store:    p.Store,
		EventBus: p.EventBus,
		Logger:   corelog.NewModuleLogger(p.Logger, "vault"),
	})
	if err != nil {
		return nil, fmt.Errorf("创建金库失败: %w", err)
	}

	return &Deployment{
		Token:    token,
		Market:   market,
		Venue:    adapter,
		Receipts: receipts,
		Vault:    v,
	}, nil
}

// NewVenueAdapter 按形态名称为模拟场所创建适配器
func NewVenueAdapter(ctx context.Context, kind string, cfg venue.Config, market *sim.Market) (*venue.Adapter, error) {
	assetAddr := types.ZeroAddress
	if cfg.Asset != nil {
		assetAddr = cfg.Asset.Address()
	}
	switch kind {
	case venue.KindPool:
		return venue.NewPool(cfg, sim.NewPool(market, assetAddr))
	case venue.KindRegistry:
		return venue.NewRegistry(cfg, sim.NewRegistry(market, assetAddr, simRegistryReserveIndex))
	case venue.KindComet:
		return venue.NewComet(ctx, cfg, sim.NewComet(market, assetAddr))
	default:
		return nil, fmt.Errorf("%w: unknown venue kind %q", custodyconfig.ErrInvalidConfig, kind)
	}
}
