package venue

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/weisyn/custody/pkg/types"
)

// cometShape 单资产市场：供应与取回各自可暂停，没有冻结
type cometShape struct {
	cfg     Config
	backend CometBackend
}

// NewComet 创建单资产市场形态适配器
//
// 市场的基础资产必须与被托管资产一致。
func NewComet(ctx context.Context, cfg Config, backend CometBackend) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: comet backend unset", ErrInvalidConfig)
	}
	var base types.Address
	if err := safeCall(func() (err error) {
		base, err = backend.BaseToken(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("%w: query base token: %v", ErrInvalidConfig, err)
	}
	if base != cfg.Asset.Address() {
		return nil, fmt.Errorf("%w: comet base token %s != asset %s", ErrInvalidConfig, base.Hex(), cfg.Asset.Address().Hex())
	}
	return newAdapter(KindComet, cfg, &cometShape{cfg: cfg, backend: backend}), nil
}

func (c *cometShape) flags(ctx context.Context) (Flags, error) {
	supplyPaused, err := c.backend.IsSupplyPaused(ctx)
	if err != nil {
		return Flags{}, err
	}
	withdrawPaused, err := c.backend.IsWithdrawPaused(ctx)
	if err != nil {
		return Flags{}, err
	}
	return Flags{DepositPaused: supplyPaused, WithdrawPaused: withdrawPaused}, nil
}

func (c *cometShape) supply(ctx context.Context, amount *uint256.Int) error {
	return c.backend.Supply(ctx, c.cfg.Custody, c.cfg.Asset.Address(), amount)
}

func (c *cometShape) withdraw(ctx context.Context, amount *uint256.Int) error {
	_, err := c.backend.Withdraw(ctx, c.cfg.Custody, c.cfg.Asset.Address(), amount)
	return err
}

func (c *cometShape) balance(ctx context.Context) (*uint256.Int, error) {
	return c.backend.BalanceOf(ctx, c.cfg.Custody)
}
