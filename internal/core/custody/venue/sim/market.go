// Package sim 提供三种场所形态的进程内模拟实现
//
// Market 持有共享的账务状态与故障旋钮；Pool、Registry、Comet 只是在其上
// 暴露各自形态的调用接口。模拟场所与真实场所一样通过资产授权拉取资金，
// 部分成交时把未接收部分退回调用方；收益通过 AccrueYield 增发资产入账。
//
// OpenMarket 创建的场所把各账户余额写穿到 KVStore；故障旋钮只存在于内存。
package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/weisyn/custody/internal/core/custody/asset"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/custody/pkg/types"
	"github.com/weisyn/custody/pkg/utils"
)

var (
	// ErrReservePaused 储备已暂停
	ErrReservePaused = errors.New("sim: reserve paused")
	// ErrReserveFrozen 储备已冻结
	ErrReserveFrozen = errors.New("sim: reserve frozen")
	// ErrUnknownAsset 未登记的资产
	ErrUnknownAsset = errors.New("sim: unknown asset")
	// ErrInjected 注入的调用失败
	ErrInjected = errors.New("sim: injected failure")
	// ErrStateStore 场所余额读写存储失败
	ErrStateStore = errors.New("sim: state store failure")
)

// Market 模拟场所的共享状态
type Market struct {
	address types.Address
	token   *asset.Token
	store   storage.KVStore // 可选
	prefix  string

	mu              sync.Mutex
	balances        map[types.Address]*uint256.Int
	active          bool
	paused          bool
	frozen          bool
	supplyPaused    bool // 仅 comet 使用：独立的供应暂停
	withdrawPaused  bool // 仅 comet 使用：独立的取回暂停
	failSupply      bool
	failWithdraw    bool
	failQueries     bool
	panicOnCall     bool
	supplyFillBps   uint64
	withdrawFillBps uint64
}

// NewMarket 创建模拟场所
func NewMarket(address types.Address, token *asset.Token) *Market {
	return &Market{
		address:         address,
		token:           token,
		prefix:          "venue/" + address.Hex() + "/balance/",
		balances:        make(map[types.Address]*uint256.Int),
		active:          true,
		supplyFillBps:   utils.BpsDenominator,
		withdrawFillBps: utils.BpsDenominator,
	}
}

// OpenMarket 创建余额写穿到 store 的模拟场所，并从 store 恢复余额
func OpenMarket(ctx context.Context, address types.Address, token *asset.Token, store storage.KVStore) (*Market, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store unset", ErrStateStore)
	}
	m := NewMarket(address, token)
	m.store = store

	entries, err := store.PrefixScan(ctx, []byte(m.prefix))
	if err != nil {
		return nil, fmt.Errorf("%w: read balances: %v", ErrStateStore, err)
	}
	for key, value := range entries {
		hexAddr := strings.TrimPrefix(key, m.prefix)
		if !common.IsHexAddress(hexAddr) {
			return nil, fmt.Errorf("%w: bad balance key %q", ErrStateStore, key)
		}
		if bal := new(uint256.Int).SetBytes(value); !bal.IsZero() {
			m.balances[common.HexToAddress(hexAddr)] = bal
		}
	}
	return m, nil
}

// Address 场所地址
func (m *Market) Address() types.Address { return m.address }

// ==================== 故障旋钮 ====================

// SetActive 设置储备是否激活
func (m *Market) SetActive(v bool) { m.set(func() { m.active = v }) }

// SetPaused 设置储备暂停（存入与取回均被阻塞）
func (m *Market) SetPaused(v bool) { m.set(func() { m.paused = v }) }

// SetFrozen 设置储备冻结（只阻塞存入）
func (m *Market) SetFrozen(v bool) { m.set(func() { m.frozen = v }) }

// SetSupplyPaused 单独暂停供应
func (m *Market) SetSupplyPaused(v bool) { m.set(func() { m.supplyPaused = v }) }

// SetWithdrawPaused 单独暂停取回
func (m *Market) SetWithdrawPaused(v bool) { m.set(func() { m.withdrawPaused = v }) }

// SetSupplyFailure 令供应调用返回错误
func (m *Market) SetSupplyFailure(v bool) { m.set(func() { m.failSupply = v }) }

// SetWithdrawFailure 令取回调用返回错误
func (m *Market) SetWithdrawFailure(v bool) { m.set(func() { m.failWithdraw = v }) }

// SetQueryFailure 令状态与余额查询返回错误
func (m *Market) SetQueryFailure(v bool) { m.set(func() { m.failQueries = v }) }

// SetPanic 令供应与取回调用 panic
func (m *Market) SetPanic(v bool) { m.set(func() { m.panicOnCall = v }) }

// SetSupplyFill 设置供应成交比例（万分比，0 表示全部退回）
func (m *Market) SetSupplyFill(bps uint64) {
	m.set(func() { m.supplyFillBps = clampBps(bps) })
}

// SetWithdrawFill 设置取回成交比例（万分比）
func (m *Market) SetWithdrawFill(bps uint64) {
	m.set(func() { m.withdrawFillBps = clampBps(bps) })
}

// AccrueYield 按万分比为所有账户计息，并增发等额资产到场所
func (m *Market) AccrueYield(bps uint64) (*uint256.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := new(uint256.Int)
	updated := make(map[types.Address]*uint256.Int, len(m.balances))
	for account, bal := range m.balances {
		inc, err := utils.MulDiv(bal, uint256.NewInt(bps), uint256.NewInt(utils.BpsDenominator))
		if err != nil {
			return nil, err
		}
		updated[account] = new(uint256.Int).Add(bal, inc)
		total.Add(total, inc)
	}
	if total.IsZero() {
		return total, nil
	}
	// 先增发：记账失败时场所只是多持有一笔未记账资产
	if err := m.token.Mint(m.address, total); err != nil {
		return nil, fmt.Errorf("mint yield: %w", err)
	}
	if err := m.persistLocked(context.Background(), updated); err != nil {
		return nil, err
	}
	for account, bal := range updated {
		m.balances[account] = bal
	}
	return total, nil
}

// BalanceOf 账户在场所的余额
func (m *Market) BalanceOf(account types.Address) *uint256.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return new(uint256.Int).Set(m.balanceLocked(account))
}

// ==================== 内部账务 ====================

type status struct {
	active, paused, frozen       bool
	supplyPaused, withdrawPaused bool
}

func (m *Market) status() (status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failQueries {
		return status{}, fmt.Errorf("%w: query", ErrInjected)
	}
	return status{
		active:         m.active,
		paused:         m.paused,
		frozen:         m.frozen,
		supplyPaused:   m.supplyPaused,
		withdrawPaused: m.withdrawPaused,
	}, nil
}

func (m *Market) balance(account types.Address) (*uint256.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failQueries {
		return nil, fmt.Errorf("%w: balance", ErrInjected)
	}
	return new(uint256.Int).Set(m.balanceLocked(account)), nil
}

// supply 从 caller 拉取 amount，按成交比例记账并退回剩余部分
//
// 资产转移在锁外进行：转账回调可能读取场所状态。
func (m *Market) supply(ctx context.Context, caller types.Address, amount *uint256.Int, onBehalfOf types.Address, blocked func(status) error) error {
	m.mu.Lock()
	if m.panicOnCall {
		m.mu.Unlock()
		panic("sim: supply panicked")
	}
	if m.failSupply {
		m.mu.Unlock()
		return fmt.Errorf("%w: supply", ErrInjected)
	}
	st := status{active: m.active, paused: m.paused, frozen: m.frozen, supplyPaused: m.supplyPaused}
	fill := m.supplyFillBps
	m.mu.Unlock()

	if err := blocked(st); err != nil {
		return err
	}

	accepted, err := utils.MulDiv(amount, uint256.NewInt(fill), uint256.NewInt(utils.BpsDenominator))
	if err != nil {
		return err
	}
	if err := m.token.TransferFrom(ctx, m.address, caller, m.address, amount); err != nil {
		return fmt.Errorf("pull funds: %w", err)
	}
	if excess := new(uint256.Int).Sub(amount, accepted); !excess.IsZero() {
		if err := m.token.Transfer(ctx, m.address, caller, excess); err != nil {
			return fmt.Errorf("return excess: %w", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creditLocked(ctx, onBehalfOf, new(uint256.Int).Add(m.balanceLocked(onBehalfOf), accepted))
}

// withdraw 按成交比例从 caller 的余额中支付给 to，上限为 caller 的余额
func (m *Market) withdraw(ctx context.Context, caller types.Address, amount *uint256.Int, to types.Address, blocked func(status) error) (*uint256.Int, error) {
	m.mu.Lock()
	if m.panicOnCall {
		m.mu.Unlock()
		panic("sim: withdraw panicked")
	}
	if m.failWithdraw {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: withdraw", ErrInjected)
	}
	st := status{active: m.active, paused: m.paused, frozen: m.frozen, withdrawPaused: m.withdrawPaused}
	if err := blocked(st); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	capped := utils.Min(amount, m.balanceLocked(caller))
	paid, err := utils.MulDiv(capped, uint256.NewInt(m.withdrawFillBps), uint256.NewInt(utils.BpsDenominator))
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if paid.IsZero() {
		m.mu.Unlock()
		return paid, nil
	}
	if err := m.creditLocked(ctx, caller, new(uint256.Int).Sub(m.balanceLocked(caller), paid)); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	if err := m.token.Transfer(ctx, m.address, to, paid); err != nil {
		m.mu.Lock()
		if restoreErr := m.creditLocked(ctx, caller, new(uint256.Int).Add(m.balanceLocked(caller), paid)); restoreErr != nil {
			err = fmt.Errorf("%w; restore balance: %v", err, restoreErr)
		}
		m.mu.Unlock()
		return nil, fmt.Errorf("pay out: %w", err)
	}
	return paid, nil
}

// creditLocked 把 account 的余额设为 balance，先写存储
func (m *Market) creditLocked(ctx context.Context, account types.Address, balance *uint256.Int) error {
	if err := m.persistLocked(ctx, map[types.Address]*uint256.Int{account: balance}); err != nil {
		return err
	}
	m.balances[account] = balance
	return nil
}

func (m *Market) persistLocked(ctx context.Context, balances map[types.Address]*uint256.Int) error {
	if m.store == nil {
		return nil
	}
	entries := make(map[string][]byte, len(balances))
	for account, bal := range balances {
		entries[m.prefix+account.Hex()] = bal.Bytes()
	}
	if err := m.store.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("%w: %v", ErrStateStore, err)
	}
	return nil
}

func (m *Market) set(fn func()) {
	m.mu.Lock()
	fn()
	m.mu.Unlock()
}

func (m *Market) balanceLocked(account types.Address) *uint256.Int {
	if b, ok := m.balances[account]; ok {
		return b
	}
	return new(uint256.Int)
}

func clampBps(bps uint64) uint64 {
	if bps > utils.BpsDenominator {
		return utils.BpsDenominator
	}
	return bps
}
