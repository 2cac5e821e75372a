// Package venue 实现外部收益场所适配器
//
// 三种场所形态（pool / registry / comet）只在状态位与余额的查询方式上不同，
// 各自实现内部的 shape 接口；存入、取回、授权清理与错误隔离由 Adapter 统一完成，
// 金库从不区分场所形态。
//
// 场所是不受信任的外部代码：所有调用都经过 safeCall，返回的错误与 panic
// 一律转换为结果值（Failed 或 0），不会传播给金库。
// 实际转移的金额以托管账户的资产余额变化为准，不依赖场所的自报结果。
package venue

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	custodyif "github.com/weisyn/custody/pkg/interfaces/custody"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/custody/pkg/types"
	"github.com/weisyn/custody/pkg/utils"
)

var (
	// ErrInvalidConfig 适配器配置无效
	ErrInvalidConfig = errors.New("venue: invalid config")
	// ErrVenuePanic 场所调用发生 panic
	ErrVenuePanic = errors.New("venue: call panicked")
)

// Flags 归一化后的场所状态
type Flags struct {
	DepositPaused  bool
	WithdrawPaused bool
	Frozen         bool
}

// shape 场所形态差异部分
type shape interface {
	flags(ctx context.Context) (Flags, error)
	supply(ctx context.Context, amount *uint256.Int) error
	withdraw(ctx context.Context, amount *uint256.Int) error
	balance(ctx context.Context) (*uint256.Int, error)
}

// Config 适配器公共配置
type Config struct {
	Custody types.Address        // 金库托管账户
	Venue   types.Address        // 场所地址（授权对象）
	Asset   custodyif.AssetToken // 被托管资产
	Logger  log.Logger
}

func (c Config) validate() error {
	if c.Custody == types.ZeroAddress {
		return fmt.Errorf("%w: custody address unset", ErrInvalidConfig)
	}
	if c.Venue == types.ZeroAddress {
		return fmt.Errorf("%w: venue address unset", ErrInvalidConfig)
	}
	if c.Asset == nil {
		return fmt.Errorf("%w: asset unset", ErrInvalidConfig)
	}
	return nil
}

// Adapter 场所适配器，实现 custody.VenueAdapter
type Adapter struct {
	name   string
	cfg    Config
	shape  shape
	logger log.Logger
}

var _ custodyif.VenueAdapter = (*Adapter)(nil)

func newAdapter(name string, cfg Config, s shape) *Adapter {
	return &Adapter{name: name, cfg: cfg, shape: s, logger: cfg.Logger}
}

// Name 场所形态名称
func (a *Adapter) Name() string { return a.name }

// Deposit 尝试将 amount 交由场所托管
func (a *Adapter) Deposit(ctx context.Context, amount *uint256.Int) types.DepositOutcome {
	if amount == nil || amount.IsZero() {
		return succeeded(new(uint256.Int), new(uint256.Int))
	}

	flags, err := a.queryFlags(ctx)
	if err != nil {
		return failed(err)
	}
	if flags.DepositPaused {
		return blocked(types.FallbackPaused)
	}
	if flags.Frozen {
		return blocked(types.FallbackFrozen)
	}

	before, err := a.cfg.Asset.BalanceOf(ctx, a.cfg.Custody)
	if err != nil {
		return failed(err)
	}

	callErr := safeCall(func() error {
		if err := a.cfg.Asset.Approve(ctx, a.cfg.Custody, a.cfg.Venue, amount); err != nil {
			return fmt.Errorf("approve: %w", err)
		}
		return a.shape.supply(ctx, amount)
	})
	a.resetAllowance(ctx)

	after, err := a.cfg.Asset.BalanceOf(ctx, a.cfg.Custody)
	if err != nil {
		// 无法确认转移结果时按失败处理；金库随后按实际余额核算
		a.errorf("存入后读取托管余额失败: %v", err)
		return failed(err)
	}
	accepted := utils.Min(utils.SaturatingSub(before, after), amount)
	returned := new(uint256.Int).Sub(amount, accepted)

	if callErr != nil {
		if !accepted.IsZero() {
			a.errorf("场所调用失败但资产已转出: moved=%s err=%v", accepted.Dec(), callErr)
		}
		a.warnf("场所存入失败，资产保留在本地托管: %v", callErr)
		out := failed(callErr)
		out.Accepted, out.Returned = accepted, returned
		return out
	}
	return succeeded(accepted, returned)
}

// Withdraw 从场所取回 amount，返回实际到账金额
func (a *Adapter) Withdraw(ctx context.Context, amount *uint256.Int) *uint256.Int {
	if amount == nil || amount.IsZero() {
		return new(uint256.Int)
	}
	if a.IsWithdrawBlocked(ctx) {
		a.warnf("场所取回被暂停，返回 0: amount=%s", amount.Dec())
		return new(uint256.Int)
	}

	before, err := a.cfg.Asset.BalanceOf(ctx, a.cfg.Custody)
	if err != nil {
		a.errorf("取回前读取托管余额失败: %v", err)
		return new(uint256.Int)
	}
	callErr := safeCall(func() error { return a.shape.withdraw(ctx, amount) })

	after, err := a.cfg.Asset.BalanceOf(ctx, a.cfg.Custody)
	if err != nil {
		a.errorf("取回后读取托管余额失败: %v", err)
		return new(uint256.Int)
	}
	received := utils.SaturatingSub(after, before)
	if callErr != nil {
		a.warnf("场所取回失败: requested=%s received=%s err=%v", amount.Dec(), received.Dec(), callErr)
	}
	return received
}

// CustodiedBalance 金库在场所的托管余额，查询失败时为 0
func (a *Adapter) CustodiedBalance(ctx context.Context) *uint256.Int {
	var bal *uint256.Int
	if err := safeCall(func() (err error) {
		bal, err = a.shape.balance(ctx)
		return err
	}); err != nil || bal == nil {
		if err != nil {
			a.warnf("查询场所余额失败: %v", err)
		}
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(bal)
}

// IsDepositBlocked 场所暂停或冻结，查询失败视为阻塞
func (a *Adapter) IsDepositBlocked(ctx context.Context) bool {
	flags, err := a.queryFlags(ctx)
	if err != nil {
		return true
	}
	return flags.DepositPaused || flags.Frozen
}

// IsWithdrawBlocked 场所暂停（冻结不阻塞取回），查询失败视为阻塞
func (a *Adapter) IsWithdrawBlocked(ctx context.Context) bool {
	flags, err := a.queryFlags(ctx)
	if err != nil {
		return true
	}
	return flags.WithdrawPaused
}

// Status 场所状态快照
func (a *Adapter) Status(ctx context.Context) types.VenueStatus {
	flags, err := a.queryFlags(ctx)
	if err != nil {
		return types.VenueStatus{Venue: a.name, DepositBlocked: true, WithdrawBlocked: true}
	}
	return types.VenueStatus{
		Venue:           a.name,
		Paused:          flags.DepositPaused || flags.WithdrawPaused,
		Frozen:          flags.Frozen,
		DepositBlocked:  flags.DepositPaused || flags.Frozen,
		WithdrawBlocked: flags.WithdrawPaused,
	}
}

func (a *Adapter) queryFlags(ctx context.Context) (Flags, error) {
	var flags Flags
	err := safeCall(func() (err error) {
		flags, err = a.shape.flags(ctx)
		return err
	})
	if err != nil {
		a.warnf("查询场所状态失败: %v", err)
	}
	return flags, err
}

// resetAllowance 存入结束后清零授权，避免场所保留未使用的额度
func (a *Adapter) resetAllowance(ctx context.Context) {
	if err := a.cfg.Asset.Approve(ctx, a.cfg.Custody, a.cfg.Venue, new(uint256.Int)); err != nil {
		a.errorf("清零场所授权失败: %v", err)
	}
}

func (a *Adapter) warnf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Warnf("[venue:%s] "+format, append([]interface{}{a.name}, args...)...)
	}
}

func (a *Adapter) errorf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Errorf("[venue:%s] "+format, append([]interface{}{a.name}, args...)...)
	}
}

// safeCall 执行场所调用，把 panic 转换为错误
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrVenuePanic, r)
		}
	}()
	return fn()
}

func succeeded(accepted, returned *uint256.Int) types.DepositOutcome {
	return types.DepositOutcome{
		Status:   types.DepositSucceeded,
		Accepted: accepted,
		Returned: returned,
	}
}

func blocked(reason types.FallbackReason) types.DepositOutcome {
	return types.DepositOutcome{
		Status:   types.DepositBlocked,
		Reason:   reason,
		Accepted: new(uint256.Int),
		Returned: new(uint256.Int),
	}
}

func failed(err error) types.DepositOutcome {
	return types.DepositOutcome{
		Status:   types.DepositFailed,
		Reason:   types.FallbackCallFailed,
		Accepted: new(uint256.Int),
		Returned: new(uint256.Int),
		Err:      err,
	}
}
