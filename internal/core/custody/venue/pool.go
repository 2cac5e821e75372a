package venue

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
)

// 场所形态名称
const (
	KindPool     = "pool"
	KindRegistry = "registry"
	KindComet    = "comet"
)

// poolShape 全局资金池：储备以资产地址为键，带 Active/Frozen/Paused 标志
type poolShape struct {
	cfg     Config
	backend PoolBackend
}

// NewPool 创建资金池形态适配器
func NewPool(cfg Config, backend PoolBackend) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: pool backend unset", ErrInvalidConfig)
	}
	return newAdapter(KindPool, cfg, &poolShape{cfg: cfg, backend: backend}), nil
}

func (p *poolShape) flags(ctx context.Context) (Flags, error) {
	rf, err := p.backend.ReserveFlags(ctx, p.cfg.Asset.Address())
	if err != nil {
		return Flags{}, err
	}
	// 未激活的储备拒绝一切操作，按暂停处理
	paused := rf.Paused || !rf.Active
	return Flags{DepositPaused: paused, WithdrawPaused: paused, Frozen: rf.Frozen}, nil
}

func (p *poolShape) supply(ctx context.Context, amount *uint256.Int) error {
	return p.backend.Supply(ctx, p.cfg.Custody, p.cfg.Asset.Address(), amount, p.cfg.Custody)
}

func (p *poolShape) withdraw(ctx context.Context, amount *uint256.Int) error {
	_, err := p.backend.Withdraw(ctx, p.cfg.Custody, p.cfg.Asset.Address(), amount, p.cfg.Custody)
	return err
}

func (p *poolShape) balance(ctx context.Context) (*uint256.Int, error) {
	return p.backend.SuppliedBalance(ctx, p.cfg.Asset.Address(), p.cfg.Custody)
}
