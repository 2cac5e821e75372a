package sim

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/weisyn/custody/internal/core/custody/venue"
	"github.com/weisyn/custody/pkg/types"
)

// Pool 资金池形态模拟：以资产地址为键，只登记一个资产
type Pool struct {
	*Market
	asset types.Address
}

var _ venue.PoolBackend = (*Pool)(nil)

// NewPool 创建资金池模拟
func NewPool(m *Market, asset types.Address) *Pool {
	return &Pool{Market: m, asset: asset}
}

func (p *Pool) checkAsset(asset types.Address) error {
	if asset != p.asset {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Hex())
	}
	return nil
}

// ReserveFlags 储备状态
func (p *Pool) ReserveFlags(_ context.Context, asset types.Address) (venue.ReserveFlags, error) {
	if err := p.checkAsset(asset); err != nil {
		return venue.ReserveFlags{}, err
	}
	st, err := p.status()
	if err != nil {
		return venue.ReserveFlags{}, err
	}
	return venue.ReserveFlags{Active: st.active, Frozen: st.frozen, Paused: st.paused}, nil
}

// Supply 供应资产
func (p *Pool) Supply(ctx context.Context, caller, asset types.Address, amount *uint256.Int, onBehalfOf types.Address) error {
	if err := p.checkAsset(asset); err != nil {
		return err
	}
	return p.supply(ctx, caller, amount, onBehalfOf, reserveSupplyGate)
}

// Withdraw 取回资产
func (p *Pool) Withdraw(ctx context.Context, caller, asset types.Address, amount *uint256.Int, to types.Address) (*uint256.Int, error) {
	if err := p.checkAsset(asset); err != nil {
		return nil, err
	}
	return p.withdraw(ctx, caller, amount, to, reserveWithdrawGate)
}

// SuppliedBalance 账户供应余额（含已计入的收益）
func (p *Pool) SuppliedBalance(_ context.Context, asset, account types.Address) (*uint256.Int, error) {
	if err := p.checkAsset(asset); err != nil {
		return nil, err
	}
	return p.balance(account)
}

// reserveSupplyGate 储备形态的供应校验：未激活、暂停、冻结均拒绝
func reserveSupplyGate(st status) error {
	if !st.active || st.paused {
		return ErrReservePaused
	}
	if st.frozen {
		return ErrReserveFrozen
	}
	return nil
}

// reserveWithdrawGate 冻结的储备仍允许取回
func reserveWithdrawGate(st status) error {
	if !st.active || st.paused {
		return ErrReservePaused
	}
	return nil
}
