package sim

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/weisyn/custody/internal/core/custody/venue"
	"github.com/weisyn/custody/pkg/types"
)

// Comet 单资产市场形态模拟
//
// 使用 Market 的 SetSupplyPaused/SetWithdrawPaused 控制暂停；
// SetPaused 同时暂停两者，SetFrozen 对该形态无效。
type Comet struct {
	*Market
	base types.Address
}

var _ venue.CometBackend = (*Comet)(nil)

// NewComet 创建单资产市场模拟
func NewComet(m *Market, base types.Address) *Comet {
	return &Comet{Market: m, base: base}
}

// BaseToken 市场基础资产
func (c *Comet) BaseToken(context.Context) (types.Address, error) {
	return c.base, nil
}

// IsSupplyPaused 供应是否暂停
func (c *Comet) IsSupplyPaused(context.Context) (bool, error) {
	st, err := c.status()
	if err != nil {
		return false, err
	}
	return st.paused || st.supplyPaused, nil
}

// IsWithdrawPaused 取回是否暂停
func (c *Comet) IsWithdrawPaused(context.Context) (bool, error) {
	st, err := c.status()
	if err != nil {
		return false, err
	}
	return st.paused || st.withdrawPaused, nil
}

// Supply 供应基础资产
func (c *Comet) Supply(ctx context.Context, caller, asset types.Address, amount *uint256.Int) error {
	if asset != c.base {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Hex())
	}
	return c.supply(ctx, caller, amount, caller, func(st status) error {
		if st.paused || st.supplyPaused {
			return ErrReservePaused
		}
		return nil
	})
}

// Withdraw 取回基础资产到 caller
func (c *Comet) Withdraw(ctx context.Context, caller, asset types.Address, amount *uint256.Int) (*uint256.Int, error) {
	if asset != c.base {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Hex())
	}
	return c.withdraw(ctx, caller, amount, caller, func(st status) error {
		if st.paused || st.withdrawPaused {
			return ErrReservePaused
		}
		return nil
	})
}

// BalanceOf 账户余额
func (c *Comet) BalanceOf(_ context.Context, account types.Address) (*uint256.Int, error) {
	return c.balance(account)
}
