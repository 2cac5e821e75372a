package custody

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/weisyn/custody/internal/core/custody/vault"
	custodyif "github.com/weisyn/custody/pkg/interfaces/custody"
	"github.com/weisyn/custody/pkg/types"
)

var _ custodyif.Simulator = (*Deployment)(nil)

// Faucet 向 holder 增发模拟资产，并对托管账户无限授权
func (d *Deployment) Faucet(ctx context.Context, caller, holder types.Address, amount *uint256.Int) error {
	if err := d.authorizeSim(caller); err != nil {
		return err
	}
	if holder == types.ZeroAddress {
		return vault.ErrInvalidRecipient
	}
	if amount == nil || amount.IsZero() {
		return vault.ErrZeroAmount
	}
	if err := d.Token.Mint(holder, amount); err != nil {
		return fmt.Errorf("%w: faucet %s to %s: %v", vault.ErrAssetTransfer, amount.Dec(), holder.Hex(), err)
	}
	if err := d.Token.Approve(ctx, holder, d.Vault.Custody(), new(uint256.Int).SetAllOne()); err != nil {
		return fmt.Errorf("%w: approve custody for %s: %v", vault.ErrAssetTransfer, holder.Hex(), err)
	}
	return nil
}

// TuneVenue 调整模拟场所旋钮，YieldBps > 0 时计息一次
func (d *Deployment) TuneVenue(_ context.Context, caller types.Address, knobs types.VenueKnobs) (*uint256.Int, error) {
	if err := d.authorizeSim(caller); err != nil {
		return nil, err
	}
	m := d.Market
	if knobs.Paused != nil {
		m.SetPaused(*knobs.Paused)
	}
	if knobs.Frozen != nil {
		m.SetFrozen(*knobs.Frozen)
	}
	if knobs.SupplyFailure != nil {
		m.SetSupplyFailure(*knobs.SupplyFailure)
	}
	if knobs.WithdrawFailure != nil {
		m.SetWithdrawFailure(*knobs.WithdrawFailure)
	}
	if knobs.SupplyFillBps != nil {
		m.SetSupplyFill(*knobs.SupplyFillBps)
	}
	if knobs.WithdrawFillBps != nil {
		m.SetWithdrawFill(*knobs.WithdrawFillBps)
	}
	if knobs.YieldBps == 0 {
		return new(uint256.Int), nil
	}
	accrued, err := m.AccrueYield(knobs.YieldBps)
	if err != nil {
		return nil, fmt.Errorf("%w: accrue yield: %v", vault.ErrAssetTransfer, err)
	}
	return accrued, nil
}

func (d *Deployment) authorizeSim(caller types.Address) error {
	if caller != d.Vault.Controller() {
		return fmt.Errorf("%w: caller=%s", vault.ErrUnauthorized, caller.Hex())
	}
	return nil
}
