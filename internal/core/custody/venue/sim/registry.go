package sim

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/weisyn/custody/internal/core/custody/venue"
	"github.com/weisyn/custody/pkg/types"
)

// Registry 编号储备登记形态模拟
type Registry struct {
	*Market
	asset types.Address
	index uint16
}

var _ venue.RegistryBackend = (*Registry)(nil)

// NewRegistry 创建登记模拟，asset 登记在编号 index 上
func NewRegistry(m *Market, asset types.Address, index uint16) *Registry {
	return &Registry{Market: m, asset: asset, index: index}
}

// ReserveIndex 解析资产的储备编号
func (r *Registry) ReserveIndex(_ context.Context, asset types.Address) (uint16, error) {
	if asset != r.asset {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Hex())
	}
	return r.index, nil
}

// ReserveConfiguration 储备配置位图
func (r *Registry) ReserveConfiguration(_ context.Context, index uint16) (*uint256.Int, error) {
	if err := r.checkIndex(index); err != nil {
		return nil, err
	}
	st, err := r.status()
	if err != nil {
		return nil, err
	}
	bitmap := new(uint256.Int)
	if st.active {
		bitmap.Or(bitmap, new(uint256.Int).Lsh(uint256.NewInt(1), venue.ConfigBitActive))
	}
	if st.frozen {
		bitmap.Or(bitmap, new(uint256.Int).Lsh(uint256.NewInt(1), venue.ConfigBitFrozen))
	}
	if st.paused {
		bitmap.Or(bitmap, new(uint256.Int).Lsh(uint256.NewInt(1), venue.ConfigBitPaused))
	}
	return bitmap, nil
}

// Deposit 存入储备
func (r *Registry) Deposit(ctx context.Context, caller types.Address, index uint16, amount *uint256.Int, onBehalfOf types.Address) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}
	return r.supply(ctx, caller, amount, onBehalfOf, reserveSupplyGate)
}

// Withdraw 从储备取回
func (r *Registry) Withdraw(ctx context.Context, caller types.Address, index uint16, amount *uint256.Int, to types.Address) (*uint256.Int, error) {
	if err := r.checkIndex(index); err != nil {
		return nil, err
	}
	return r.withdraw(ctx, caller, amount, to, reserveWithdrawGate)
}

// DepositedBalance 账户在储备中的余额
func (r *Registry) DepositedBalance(_ context.Context, index uint16, account types.Address) (*uint256.Int, error) {
	if err := r.checkIndex(index); err != nil {
		return nil, err
	}
	return r.balance(account)
}

func (r *Registry) checkIndex(index uint16) error {
	if index != r.index {
		return fmt.Errorf("%w: reserve %d", ErrUnknownAsset, index)
	}
	return nil
}
