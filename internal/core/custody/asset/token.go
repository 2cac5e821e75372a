// Package asset 提供进程内的 ERC20 形态资产账本
//
// 被托管资产在生产环境中是外部协作方；本包的 Token 用于 simulate 命令、
// 模拟场所以及测试。它实现 custody.AssetToken，并额外提供：
//   - Mint：水龙头与模拟收益入账
//   - SetTransferHook：转账前回调，用于模拟不受信任的外部代码回调金库
//
// 通过 Open 创建的账本把余额、授权与发行量写穿到 KVStore，重启后恢复；
// 每次变更先写存储，成功后才修改内存状态。
package asset

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
	// ErrInsufficientBalance 余额不足
	ErrInsufficientBalance = errors.New("asset: insufficient balance")
	// ErrInsufficientAllowance 授权额度不足
	ErrInsufficientAllowance = errors.New("asset: insufficient allowance")
	// ErrZeroAddress 地址未设置
	ErrZeroAddress = errors.New("asset: zero address")
	// ErrSupplyOverflow 发行量溢出
	ErrSupplyOverflow = errors.New("asset: supply overflow")
	// ErrStateStore 状态存储读写失败
	ErrStateStore = errors.New("asset: state store failure")
	// ErrCorruptState 存储中的状态无法解析或不一致
	ErrCorruptState = errors.New("asset: corrupt state")
)

// maxAllowance 无限授权，TransferFrom 不扣减
var maxAllowance = new(uint256.Int).SetAllOne()

// TransferHook 转账前回调
//
// 在账本锁之外调用；返回错误时本次转账不发生。
type TransferHook func(ctx context.Context, from, to types.Address, amount *uint256.Int) error

// Token 内存资产账本
type Token struct {
	address  types.Address
	symbol   string
	decimals uint8
	logger   log.Logger
	store    storage.KVStore // 可选，nil 时只在内存中记账
	prefix   string

	mu          sync.RWMutex
	balances    map[types.Address]*uint256.Int
	allowances  map[types.Address]map[types.Address]*uint256.Int
	totalSupply *uint256.Int

	hookMu sync.RWMutex
	hook   TransferHook
}

var _ custodyif.AssetToken = (*Token)(nil)

// New 创建纯内存资产账本
func New(address types.Address, symbol string, decimals uint8, logger log.Logger) *Token {
	return &Token{
		address:     address,
		symbol:      symbol,
		decimals:    decimals,
		logger:      logger,
		prefix:      "asset/" + address.Hex() + "/",
		balances:    make(map[types.Address]*uint256.Int),
		allowances:  make(map[types.Address]map[types.Address]*uint256.Int),
		totalSupply: new(uint256.Int),
	}
}

// Open 创建写穿到 store 的资产账本，并从 store 恢复余额、授权与发行量
func Open(ctx context.Context, address types.Address, symbol string, decimals uint8, store storage.KVStore, logger log.Logger) (*Token, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store unset", ErrStateStore)
	}
	t := New(address, symbol, decimals, logger)
	t.store = store
	if err := t.load(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Token) load(ctx context.Context) error {
	raw, err := t.store.Get(ctx, []byte(t.supplyKey()))
	if err != nil {
		return fmt.Errorf("%w: read supply: %v", ErrStateStore, err)
	}
	if raw != nil {
		t.totalSupply = new(uint256.Int).SetBytes(raw)
	}

	balancePrefix := t.prefix + "balance/"
	entries, err := t.store.PrefixScan(ctx, []byte(balancePrefix))
	if err != nil {
		return fmt.Errorf("%w: read balances: %v", ErrStateStore, err)
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
		t.balances[common.HexToAddress(hexAddr)] = balance
		sum.Add(sum, balance)
	}
	// 没有销毁路径：发行量恒等于余额之和
	if !sum.Eq(t.totalSupply) {
		return fmt.Errorf("%w: supply %s != sum of balances %s", ErrCorruptState, t.totalSupply.Dec(), sum.Dec())
	}

	allowancePrefix := t.prefix + "allowance/"
	entries, err = t.store.PrefixScan(ctx, []byte(allowancePrefix))
	if err != nil {
		return fmt.Errorf("%w: read allowances: %v", ErrStateStore, err)
	}
	for key, value := range entries {
		parts := strings.Split(strings.TrimPrefix(key, allowancePrefix), "/")
		if len(parts) != 2 || !common.IsHexAddress(parts[0]) || !common.IsHexAddress(parts[1]) {
			return fmt.Errorf("%w: bad allowance key %q", ErrCorruptState, key)
		}
		t.setAllowanceLocked(common.HexToAddress(parts[0]), common.HexToAddress(parts[1]), new(uint256.Int).SetBytes(value))
	}

	if t.logger != nil && len(t.balances) > 0 {
		t.logger.Infof("资产账本已恢复: holders=%d supply=%s", len(t.balances), t.totalSupply.Dec())
	}
	return nil
}

// Address 资产地址
func (t *Token) Address() types.Address { return t.address }

// Symbol 资产符号
func (t *Token) Symbol() string { return t.symbol }

// Decimals 资产精度
func (t *Token) Decimals() uint8 { return t.decimals }

// SetTransferHook 设置转账前回调，传 nil 清除
func (t *Token) SetTransferHook(hook TransferHook) {
	t.hookMu.Lock()
	t.hook = hook
	t.hookMu.Unlock()
}

// Mint 增发到 to
func (t *Token) Mint(to types.Address, amount *uint256.Int) error {
	if to == types.ZeroAddress {
		return ErrZeroAddress
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	supply, overflow := new(uint256.Int).AddOverflow(t.totalSupply, amount)
	if overflow {
		return fmt.Errorf("%w: mint %s", ErrSupplyOverflow, amount.Dec())
	}
	balance := new(uint256.Int).Add(t.balanceLocked(to), amount)
	if err := t.persistLocked(context.Background(), map[string][]byte{
		t.balanceKey(to): balance.Bytes(),
		t.supplyKey():    supply.Bytes(),
	}); err != nil {
		return err
	}
	t.totalSupply = supply
	t.balances[to] = balance

	if t.logger != nil {
		t.logger.Debugf("资产增发: to=%s amount=%s", to.Hex(), amount.Dec())
	}
	return nil
}

// TotalSupply 总发行量
func (t *Token) TotalSupply() *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(uint256.Int).Set(t.totalSupply)
}

// BalanceOf 查询余额
func (t *Token) BalanceOf(_ context.Context, holder types.Address) (*uint256.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(uint256.Int).Set(t.balanceLocked(holder)), nil
}

// Allowance 查询授权额度
func (t *Token) Allowance(_ context.Context, owner, spender types.Address) (*uint256.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(uint256.Int).Set(t.allowanceLocked(owner, spender)), nil
}

// Approve 设置授权额度（覆盖）
func (t *Token) Approve(ctx context.Context, owner, spender types.Address, amount *uint256.Int) error {
	if owner == types.ZeroAddress || spender == types.ZeroAddress {
		return ErrZeroAddress
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	allowance := new(uint256.Int).Set(amount)
	if err := t.persistLocked(ctx, map[string][]byte{t.allowanceKey(owner, spender): allowance.Bytes()}); err != nil {
		return err
	}
	t.setAllowanceLocked(owner, spender, allowance)
	return nil
}

// Transfer from 转出自身资产
func (t *Token) Transfer(ctx context.Context, from, to types.Address, amount *uint256.Int) error {
	if err := t.runHook(ctx, from, to, amount); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.moveLocked(ctx, from, to, amount, nil)
}

// TransferFrom spender 使用 from 的授权额度转账
func (t *Token) TransferFrom(ctx context.Context, spender, from, to types.Address, amount *uint256.Int) error {
	if err := t.runHook(ctx, from, to, amount); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	allowed := t.allowanceLocked(from, spender)
	if allowed.Lt(amount) {
		return fmt.Errorf("%w: owner=%s spender=%s allowed=%s need=%s",
			ErrInsufficientAllowance, from.Hex(), spender.Hex(), allowed.Dec(), amount.Dec())
	}
	var (
		remaining *uint256.Int
		extra     map[string][]byte
	)
	if !allowed.Eq(maxAllowance) {
		remaining = new(uint256.Int).Sub(allowed, amount)
		extra = map[string][]byte{t.allowanceKey(from, spender): remaining.Bytes()}
	}
	if err := t.moveLocked(ctx, from, to, amount, extra); err != nil {
		return err
	}
	if remaining != nil {
		t.setAllowanceLocked(from, spender, remaining)
	}
	return nil
}

func (t *Token) runHook(ctx context.Context, from, to types.Address, amount *uint256.Int) error {
	t.hookMu.RLock()
	hook := t.hook
	t.hookMu.RUnlock()
	if hook == nil {
		return nil
	}
	return hook(ctx, from, to, amount)
}

// moveLocked 转账；extra 与两端余额在同一批次写入存储
func (t *Token) moveLocked(ctx context.Context, from, to types.Address, amount *uint256.Int, extra map[string][]byte) error {
	if from == types.ZeroAddress || to == types.ZeroAddress {
		return ErrZeroAddress
	}
	balance := t.balanceLocked(from)
	if balance.Lt(amount) {
		return fmt.Errorf("%w: holder=%s balance=%s need=%s",
			ErrInsufficientBalance, from.Hex(), balance.Dec(), amount.Dec())
	}
	if from == to {
		return t.persistLocked(ctx, extra)
	}

	fromBalance := new(uint256.Int).Sub(balance, amount)
	toBalance := new(uint256.Int).Add(t.balanceLocked(to), amount)
	entries := map[string][]byte{
		t.balanceKey(from): fromBalance.Bytes(),
		t.balanceKey(to):   toBalance.Bytes(),
	}
	for k, v := range extra {
		entries[k] = v
	}
	if err := t.persistLocked(ctx, entries); err != nil {
		return err
	}
	t.balances[from] = fromBalance
	t.balances[to] = toBalance
	return nil
}

// persistLocked 写入变更；纯内存账本直接返回
func (t *Token) persistLocked(ctx context.Context, entries map[string][]byte) error {
	if t.store == nil || len(entries) == 0 {
		return nil
	}
	if err := t.store.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("%w: %v", ErrStateStore, err)
	}
	return nil
}

func (t *Token) setAllowanceLocked(owner, spender types.Address, amount *uint256.Int) {
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[types.Address]*uint256.Int)
	}
	t.allowances[owner][spender] = amount
}

func (t *Token) supplyKey() string { return t.prefix + "supply" }

func (t *Token) balanceKey(holder types.Address) string {
	return t.prefix + "balance/" + holder.Hex()
}

func (t *Token) allowanceKey(owner, spender types.Address) string {
	return t.prefix + "allowance/" + owner.Hex() + "/" + spender.Hex()
}

func (t *Token) balanceLocked(holder types.Address) *uint256.Int {
	if b, ok := t.balances[holder]; ok {
		return b
	}
	return new(uint256.Int)
}

func (t *Token) allowanceLocked(owner, spender types.Address) *uint256.Int {
	if m, ok := t.allowances[owner]; ok {
		if a, ok := m[spender]; ok {
			return a
		}
	}
	return new(uint256.Int)
}
