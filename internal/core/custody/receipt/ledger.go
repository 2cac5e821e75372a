// Package receipt 实现回执代币账本
//
// 账本只接受构造时登记的发行方（金库）调用 Issue/Redeem。
// 余额与发行总量写穿到 KVStore，构造时从存储恢复；
// 单次 Issue/Redeem 的余额与总量通过 SetMany 原子写入，保证
// TotalIssued == sum(balances)。
package receipt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	custodyif "github.com/weisyn/custody/pkg/interfaces/custody"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/custody/pkg/types"
)

var (
	// ErrUnauthorized 调用方不是登记的发行方
	ErrUnauthorized = errors.New("receipt: caller is not the issuer")
	// ErrZeroHolder 持有人未设置
	ErrZeroHolder = errors.New("receipt: zero holder")
	// ErrZeroAmount 金额为零
	ErrZeroAmount = errors.New("receipt: zero amount")
	// ErrInsufficientBalance 持有量不足
	ErrInsufficientBalance = errors.New("receipt: insufficient balance")
	// ErrSupplyOverflow 发行总量溢出
	ErrSupplyOverflow = errors.New("receipt: supply overflow")
	// ErrInvalidConfig 账本配置无效
	ErrInvalidConfig = errors.New("receipt: invalid config")
	// ErrCorruptState 存储中的数值无法解析
	ErrCorruptState = errors.New("receipt: corrupt state")
)

const (
	balancePrefix = "receipt/balance/"
	supplyKey     = "receipt/supply"
)

// Options 账本元数据
type Options struct {
	Name     string
	Symbol   string
	Decimals uint8
	Issuer   types.Address
}

// Ledger 回执代币账本，实现 custody.ReceiptLedger
type Ledger struct {
	opts   Options
	store  storage.KVStore
	logger log.Logger

	mu       sync.RWMutex
	balances map[types.Address]*uint256.Int
	supply   *uint256.Int
}

var _ custodyif.ReceiptLedger = (*Ledger)(nil)

// New 创建账本并从存储恢复状态
func New(ctx context.Context, opts Options, store storage.KVStore, logger log.Logger) (*Ledger, error) {
	if opts.Issuer == types.ZeroAddress {
		return nil, fmt.Errorf("%w: issuer unset", ErrInvalidConfig)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store unset", ErrInvalidConfig)
	}
	l := &Ledger{
		opts:     opts,
		store:    store,
		logger:   logger,
		balances: make(map[types.Address]*uint256.Int),
		supply:   new(uint256.Int),
	}
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) load(ctx context.Context) error {
	raw, err := l.store.Get(ctx, []byte(supplyKey))
	if err != nil {
		return fmt.Errorf("读取发行总量失败: %w", err)
	}
	if raw != nil {
		l.supply = new(uint256.Int).SetBytes(raw)
	}

	entries, err := l.store.PrefixScan(ctx, []byte(balancePrefix))
	if err != nil {
		return fmt.Errorf("读取回执余额失败: %w", err)
	}
	sum := new(uint256.Int)
	for key, value := range entries {
		hexAddr := strings.TrimPrefix(key, balancePrefix)
		if !common.IsHexAddress(hexAddr) {
			return fmt.Errorf("%w: bad balance key %q", ErrCorruptState, key)
		}
		balance := new(uint256.Int).SetBytes(value)
		if balance.IsZero() {
			continue
		}
		l.balances[common.HexToAddress(hexAddr)] = balance
		sum.Add(sum, balance)
	}
	if !sum.Eq(l.supply) {
		return fmt.Errorf("%w: supply %s != sum of balances %s", ErrCorruptState, l.supply.Dec(), sum.Dec())
	}
	if l.logger != nil && len(l.balances) > 0 {
		l.logger.Infof("回执账本已恢复: holders=%d supply=%s", len(l.balances), l.supply.Dec())
	}
	return nil
}

// Name 代币名称
func (l *Ledger) Name() string { return l.opts.Name }

// Symbol 代币符号
func (l *Ledger) Symbol() string { return l.opts.Symbol }

// Decimals 代币精度
func (l *Ledger) Decimals() uint8 { return l.opts.Decimals }

// Issuer 登记的发行方
func (l *Ledger) Issuer() types.Address { return l.opts.Issuer }

// Issue 向 holder 发行 amount
func (l *Ledger) Issue(ctx context.Context, caller, holder types.Address, amount *uint256.Int) error {
	if err := l.check(caller, holder, amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	supply, overflow := new(uint256.Int).AddOverflow(l.supply, amount)
	if overflow {
		return fmt.Errorf("%w: issue %s", ErrSupplyOverflow, amount.Dec())
	}
	balance := new(uint256.Int).Add(l.balanceLocked(holder), amount)
	if err := l.persist(ctx, holder, balance, supply); err != nil {
		return err
	}
	l.balances[holder] = balance
	l.supply = supply
	return nil
}

// Redeem 从 holder 销毁 amount
func (l *Ledger) Redeem(ctx context.Context, caller, holder types.Address, amount *uint256.Int) error {
	if err := l.check(caller, holder, amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.balanceLocked(holder)
	if current.Lt(amount) {
		return fmt.Errorf("%w: holder=%s balance=%s need=%s",
			ErrInsufficientBalance, holder.Hex(), current.Dec(), amount.Dec())
	}
	balance := new(uint256.Int).Sub(current, amount)
	supply := new(uint256.Int).Sub(l.supply, amount)
	if err := l.persist(ctx, holder, balance, supply); err != nil {
		return err
	}
	if balance.IsZero() {
		delete(l.balances, holder)
	} else {
		l.balances[holder] = balance
	}
	l.supply = supply
	return nil
}

// BalanceOf 查询持有量
func (l *Ledger) BalanceOf(_ context.Context, holder types.Address) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(uint256.Int).Set(l.balanceLocked(holder)), nil
}

// TotalIssued 发行总量
func (l *Ledger) TotalIssued(_ context.Context) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(uint256.Int).Set(l.supply), nil
}

// Holders 当前持有人数量
func (l *Ledger) Holders() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.balances)
}

func (l *Ledger) check(caller, holder types.Address, amount *uint256.Int) error {
	if caller != l.opts.Issuer {
		return fmt.Errorf("%w: caller=%s", ErrUnauthorized, caller.Hex())
	}
	if holder == types.ZeroAddress {
		return ErrZeroHolder
	}
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	return nil
}

// persist 原子写入持有人余额与发行总量，余额为零时写空值
func (l *Ledger) persist(ctx context.Context, holder types.Address, balance, supply *uint256.Int) error {
	err := l.store.SetMany(ctx, map[string][]byte{
		balancePrefix + holder.Hex(): balance.Bytes(),
		supplyKey:                    supply.Bytes(),
	})
	if err != nil {
		return fmt.Errorf("写入回执账本失败: %w", err)
	}
	return nil
}

func (l *Ledger) balanceLocked(holder types.Address) *uint256.Int {
	if b, ok := l.balances[holder]; ok {
		return b
	}
	return new(uint256.Int)
}
