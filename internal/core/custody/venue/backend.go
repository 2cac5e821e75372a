package venue

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/weisyn/custody/pkg/types"
)

// ReserveFlags 池形态场所的储备状态
type ReserveFlags struct {
	Active bool
	Frozen bool
	Paused bool
}

// PoolBackend 全局资金池形态（以资产地址为键）
//
// Supply 由 caller 授权后调用，场所自行拉取资产；未接收的部分退回 caller。
type PoolBackend interface {
	ReserveFlags(ctx context.Context, asset types.Address) (ReserveFlags, error)
	Supply(ctx context.Context, caller, asset types.Address, amount *uint256.Int, onBehalfOf types.Address) error
	Withdraw(ctx context.Context, caller, asset types.Address, amount *uint256.Int, to types.Address) (*uint256.Int, error)
	SuppliedBalance(ctx context.Context, asset, account types.Address) (*uint256.Int, error)
}

// 储备配置位图中的状态位
const (
	ConfigBitActive = 56
	ConfigBitFrozen = 57
	ConfigBitPaused = 60
)

// RegistryBackend 编号储备登记形态
//
// 储备状态以配置位图给出，见 ConfigBit* 常量。
type RegistryBackend interface {
	ReserveIndex(ctx context.Context, asset types.Address) (uint16, error)
	ReserveConfiguration(ctx context.Context, index uint16) (*uint256.Int, error)
	Deposit(ctx context.Context, caller types.Address, index uint16, amount *uint256.Int, onBehalfOf types.Address) error
	Withdraw(ctx context.Context, caller types.Address, index uint16, amount *uint256.Int, to types.Address) (*uint256.Int, error)
	DepositedBalance(ctx context.Context, index uint16, account types.Address) (*uint256.Int, error)
}

// CometBackend 单资产市场形态
//
// 供应与取回各有独立的暂停开关，没有冻结概念。
type CometBackend interface {
	BaseToken(ctx context.Context) (types.Address, error)
	IsSupplyPaused(ctx context.Context) (bool, error)
	IsWithdrawPaused(ctx context.Context) (bool, error)
	Supply(ctx context.Context, caller, asset types.Address, amount *uint256.Int) error
	Withdraw(ctx context.Context, caller, asset types.Address, amount *uint256.Int) (*uint256.Int, error)
	BalanceOf(ctx context.Context, account types.Address) (*uint256.Int, error)
}
