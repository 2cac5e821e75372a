// Package custody 定义托管金库的公共接口
//
// 组件关系（叶子在前）：
//   - AssetToken：被托管的稳定资产（外部协作方）
//   - ReceiptLedger：回执代币账本，仅金库可发行/赎回
//   - VenueAdapter：外部收益场所能力封装，三种形态（pool / registry / comet）行为一致
//   - Vault：托管核算核心，唯一的账本发行方与场所调用方
package custody

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/weisyn/custody/pkg/types"
)

// AssetToken 被托管资产（ERC20 形态）
type AssetToken interface {
	// Address 资产地址
	Address() types.Address

	// Decimals 资产精度
	Decimals() uint8

	// BalanceOf 查询余额
	BalanceOf(ctx context.Context, holder types.Address) (*uint256.Int, error)

	// Transfer 由 from 转出自身资产
	Transfer(ctx context.Context, from, to types.Address, amount *uint256.Int) error

	// TransferFrom 由 spender 使用 from 的授权额度转账
	TransferFrom(ctx context.Context, spender, from, to types.Address, amount *uint256.Int) error

	// Approve 设置 owner 对 spender 的授权额度
	Approve(ctx context.Context, owner, spender types.Address, amount *uint256.Int) error

	// Allowance 查询授权额度
	Allowance(ctx context.Context, owner, spender types.Address) (*uint256.Int, error)
}

// ReceiptLedger 回执代币账本
//
// 不变式：TotalIssued == sum(balances)。
// Issue/Redeem 仅接受构造时登记的发行方（金库）调用。
type ReceiptLedger interface {
	// Name 代币名称
	Name() string

	// Symbol 代币符号
	Symbol() string

	// Decimals 代币精度
	Decimals() uint8

	// Issuer 登记的唯一发行方
	Issuer() types.Address

	// Issue 向 holder 发行 amount
	Issue(ctx context.Context, caller, holder types.Address, amount *uint256.Int) error

	// Redeem 从 holder 销毁 amount
	Redeem(ctx context.Context, caller, holder types.Address, amount *uint256.Int) error

	// BalanceOf 查询持有量
	BalanceOf(ctx context.Context, holder types.Address) (*uint256.Int, error)

	// TotalIssued 已发行总量
	TotalIssued(ctx context.Context) (*uint256.Int, error)
}

// VenueAdapter 外部收益场所适配器
//
// 场所是不受信任的外部代码：适配器必须把场所侧的错误（包括 panic）
// 转换为结果值，绝不向金库抛出。
type VenueAdapter interface {
	// Name 场所形态名称（pool / registry / comet）
	Name() string

	// Deposit 尝试将 amount 交由场所托管
	//
	// 场所暂停或冻结时返回 Blocked，调用出错时返回 Failed，二者均不转账。
	// 部分成交时 Accepted + Returned == amount，Returned 部分留在本地托管。
	Deposit(ctx context.Context, amount *uint256.Int) types.DepositOutcome

	// Withdraw 从场所取回 amount，返回实际到账金额
	//
	// 场所暂停（冻结不影响取回）或调用出错时返回 0。
	Withdraw(ctx context.Context, amount *uint256.Int) *uint256.Int

	// CustodiedBalance 金库在场所的托管余额（含已计入的收益）
	CustodiedBalance(ctx context.Context) *uint256.Int

	// IsDepositBlocked 场所暂停或冻结
	IsDepositBlocked(ctx context.Context) bool

	// IsWithdrawBlocked 场所暂停
	IsWithdrawBlocked(ctx context.Context) bool

	// Status 场所状态快照
	Status(ctx context.Context) types.VenueStatus
}

// Vault 托管核算核心（面向调用方的操作）
type Vault interface {
	// Deposit 存入资产并按 1:1（经精度换算）获得回执代币
	Deposit(ctx context.Context, caller types.Address, amount *uint256.Int) (*types.DepositReceipt, error)

	// Withdraw 销毁回执代币并取回资产（尽力而为，上限为实际可用金额）
	Withdraw(ctx context.Context, caller types.Address, receiptAmount *uint256.Int) (*types.WithdrawalReceipt, error)

	// Pause 暂停存入与取回（仅控制者）
	Pause(ctx context.Context, caller types.Address) error

	// Unpause 恢复存入与取回（仅控制者）
	Unpause(ctx context.Context, caller types.Address) error

	// SkimYield 提取超出背书需求的收益（仅控制者）
	SkimYield(ctx context.Context, caller, recipient types.Address) (*types.SkimReceipt, error)

	// EmergencyDrain 清空全部托管资产（仅控制者，允许破坏背书不变式）
	EmergencyDrain(ctx context.Context, caller, recipient types.Address) (*types.DrainReport, error)

	// 只读查询（不进入重入守卫）

	LocalBalance(ctx context.Context) (*uint256.Int, error)
	VenueBalance(ctx context.Context) *uint256.Int
	TotalBalance(ctx context.Context) (*uint256.Int, error)
	AccumulatedYield(ctx context.Context) (*uint256.Int, error)
	YieldRateBps(ctx context.Context) (*uint256.Int, error)
	VenueStatus(ctx context.Context) types.VenueStatus
	ReceiptBalanceOf(ctx context.Context, holder types.Address) (*uint256.Int, error)
	Paused() bool
	Scale() *uint256.Int
	Snapshot(ctx context.Context) (*types.VaultSnapshot, error)
}

// Simulator 进程内模拟环境的管理操作，仅控制者可调用
//
// 只在开发模式下对外暴露：被托管资产与收益场所都是模拟实现时，
// 通过它为存入方发放资产、调整场所状态与计息。
type Simulator interface {
	// Faucet 向 holder 增发资产，并对托管账户无限授权
	Faucet(ctx context.Context, caller, holder types.Address, amount *uint256.Int) error

	// TuneVenue 调整模拟场所旋钮；YieldBps > 0 时计息一次并返回新增收益
	TuneVenue(ctx context.Context, caller types.Address, knobs types.VenueKnobs) (*uint256.Int, error)
}
