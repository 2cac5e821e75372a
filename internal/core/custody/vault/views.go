package vault

import (
	"context"
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"github.com/weisyn/custody/pkg/types"
	"github.com/weisyn/custody/pkg/utils"
)

var now = time.Now

// 只读查询：不进入重入守卫，可在受保护操作内部调用

// LocalBalance 本地托管余额
func (s *Service) LocalBalance(ctx context.Context) (*uint256.Int, error) {
	bal, err := s.asset.BalanceOf(ctx, s.settings.Custody)
	if err != nil {
		return nil, fmt.Errorf("%w: read local balance: %v", ErrAssetTransfer, err)
	}
	return bal, nil
}

// VenueBalance 场所托管余额（含已计入的收益）
func (s *Service) VenueBalance(ctx context.Context) *uint256.Int {
	return s.venue.CustodiedBalance(ctx)
}

// TotalBalance 本地 + 场所
func (s *Service) TotalBalance(ctx context.Context) (*uint256.Int, error) {
	local, err := s.LocalBalance(ctx)
	if err != nil {
		return nil, err
	}
	total, overflow := new(uint256.Int).AddOverflow(local, s.VenueBalance(ctx))
	if overflow {
		return nil, fmt.Errorf("%w: total balance", ErrAmountOverflow)
	}
	return total, nil
}

// AccumulatedYield 超出背书需求的部分：max(0, 总额 - 发行总量/SCALE)
func (s *Service) AccumulatedYield(ctx context.Context) (*uint256.Int, error) {
	total, err := s.TotalBalance(ctx)
	if err != nil {
		return nil, err
	}
	required, err := s.requiredBacking(ctx)
	if err != nil {
		return nil, err
	}
	return utils.SaturatingSub(total, required), nil
}

// YieldRateBps 收益相对背书需求的万分比，没有发行时为 0
func (s *Service) YieldRateBps(ctx context.Context) (*uint256.Int, error) {
	yield, err := s.AccumulatedYield(ctx)
	if err != nil {
		return nil, err
	}
	required, err := s.requiredBacking(ctx)
	if err != nil {
		return nil, err
	}
	return utils.RatioBps(yield, required)
}

// VenueStatus 场所暂停/冻结状态
func (s *Service) VenueStatus(ctx context.Context) types.VenueStatus {
	return s.venue.Status(ctx)
}

// ReceiptBalanceOf 持有人的回执余额
func (s *Service) ReceiptBalanceOf(ctx context.Context, holder types.Address) (*uint256.Int, error) {
	return s.receipts.BalanceOf(ctx, holder)
}

// Paused 是否暂停
func (s *Service) Paused() bool { return s.gate.IsPaused() }

// Scale 精度换算系数
func (s *Service) Scale() *uint256.Int { return new(uint256.Int).Set(s.scale) }

// Controller 控制者地址
func (s *Service) Controller() types.Address { return s.settings.Controller }

// Custody 托管账户地址
func (s *Service) Custody() types.Address { return s.settings.Custody }

// Snapshot 一次性读取全部只读状态
func (s *Service) Snapshot(ctx context.Context) (*types.VaultSnapshot, error) {
	local, err := s.LocalBalance(ctx)
	if err != nil {
		return nil, err
	}
	venueBal := s.VenueBalance(ctx)
	total, overflow := new(uint256.Int).AddOverflow(local, venueBal)
	if overflow {
		return nil, fmt.Errorf("%w: total balance", ErrAmountOverflow)
	}
	supply, err := s.receipts.TotalIssued(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReceiptLedger, err)
	}
	required := utils.ToAssetUnits(supply, s.scale)
	yield := utils.SaturatingSub(total, required)
	rate, err := utils.RatioBps(yield, required)
	if err != nil {
		return nil, err
	}
	return &types.VaultSnapshot{
		Paused:           s.gate.IsPaused(),
		Busy:             s.gate.IsBusy(),
		Scale:            s.Scale(),
		LocalBalance:     local,
		VenueBalance:     venueBal,
		TotalBalance:     total,
		ReceiptSupply:    supply,
		RequiredBacking:  required,
		AccumulatedYield: yield,
		YieldRateBps:     rate,
		Venue:            s.venue.Status(ctx),
	}, nil
}
