package venue

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
)

// registryShape 编号储备登记：先按资产地址解析储备编号，状态取自配置位图
type registryShape struct {
	cfg     Config
	backend RegistryBackend
}

// NewRegistry 创建储备登记形态适配器
func NewRegistry(cfg Config, backend RegistryBackend) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: registry backend unset", ErrInvalidConfig)
	}
	return newAdapter(KindRegistry, cfg, &registryShape{cfg: cfg, backend: backend}), nil
}

// index 每次调用都重新解析，登记表可能在运行期间调整编号
func (r *registryShape) index(ctx context.Context) (uint16, error) {
	return r.backend.ReserveIndex(ctx, r.cfg.Asset.Address())
}

func (r *registryShape) flags(ctx context.Context) (Flags, error) {
	idx, err := r.index(ctx)
	if err != nil {
		return Flags{}, err
	}
	bitmap, err := r.backend.ReserveConfiguration(ctx, idx)
	if err != nil {
		return Flags{}, err
	}
	if bitmap == nil {
		return Flags{}, fmt.Errorf("reserve %d: empty configuration", idx)
	}
	return FlagsFromBitmap(bitmap), nil
}

// FlagsFromBitmap 从储备配置位图解析状态
func FlagsFromBitmap(bitmap *uint256.Int) Flags {
	active := bit(bitmap, ConfigBitActive)
	paused := bit(bitmap, ConfigBitPaused) || !active
	return Flags{
		DepositPaused:  paused,
		WithdrawPaused: paused,
		Frozen:         bit(bitmap, ConfigBitFrozen),
	}
}

func bit(bitmap *uint256.Int, n uint) bool {
	return new(uint256.Int).Rsh(bitmap, n).Uint64()&1 == 1
}

func (r *registryShape) supply(ctx context.Context, amount *uint256.Int) error {
	idx, err := r.index(ctx)
	if err != nil {
		return err
	}
	return r.backend.Deposit(ctx, r.cfg.Custody, idx, amount, r.cfg.Custody)
}

func (r *registryShape) withdraw(ctx context.Context, amount *uint256.Int) error {
	idx, err := r.index(ctx)
	if err != nil {
		return err
	}
	_, err = r.backend.Withdraw(ctx, r.cfg.Custody, idx, amount, r.cfg.Custody)
	return err
}

func (r *registryShape) balance(ctx context.Context) (*uint256.Int, error) {
	idx, err := r.index(ctx)
	if err != nil {
		return nil, err
	}
	return r.backend.DepositedBalance(ctx, idx, r.cfg.Custody)
}
