package custody_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/custody/internal/core/custody/testutil"
	"github.com/weisyn/custody/internal/core/custody/vault"
	"github.com/weisyn/custody/pkg/types"
)

func TestFaucet(t *testing.T) {
	holder := testutil.Holder(7)

	t.Run("控制者发放并授权托管账户", func(t *testing.T) {
		f := testutil.NewFixture(t)
		require.NoError(t, f.Faucet(f.Ctx, f.Controller, holder, uint256.NewInt(250)))
		assert.Equal(t, uint64(250), f.AssetBalance(t, holder).Uint64())

		_, err := f.Vault.Deposit(f.Ctx, holder, uint256.NewInt(250))
		require.NoError(t, err)
		assert.True(t, f.AssetBalance(t, holder).IsZero())
		assert.False(t, f.ReceiptBalance(t, holder).IsZero())
	})

	t.Run("拒绝的调用不改变余额", func(t *testing.T) {
		f := testutil.NewFixture(t)
		tests := []struct {
			name   string
			caller types.Address
			holder types.Address
			amount *uint256.Int
			want   error
		}{
			{"非控制者", holder, holder, uint256.NewInt(1), vault.ErrUnauthorized},
			{"零地址", f.Controller, types.ZeroAddress, uint256.NewInt(1), vault.ErrInvalidRecipient},
			{"零金额", f.Controller, holder, new(uint256.Int), vault.ErrZeroAmount},
			{"金额为空", f.Controller, holder, nil, vault.ErrZeroAmount},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := f.Faucet(f.Ctx, tt.caller, tt.holder, tt.amount)
				require.ErrorIs(t, err, tt.want)
			})
		}
		assert.True(t, f.AssetBalance(t, holder).IsZero())
	})
}

func TestTuneVenue(t *testing.T) {
	f := testutil.NewFixture(t)
	holder := testutil.Holder(9)
	f.Fund(t, holder, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, holder, uint256.NewInt(1_000))
	require.NoError(t, err)

	_, err = f.TuneVenue(f.Ctx, holder, types.VenueKnobs{YieldBps: 100})
	require.ErrorIs(t, err, vault.ErrUnauthorized)
	assert.Equal(t, uint64(1_000), f.VenueBalance().Uint64())

	accrued, err := f.TuneVenue(f.Ctx, f.Controller, types.VenueKnobs{YieldBps: 100})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), accrued.Uint64())
	assert.Equal(t, uint64(1_010), f.VenueBalance().Uint64())

	paused := true
	accrued, err = f.TuneVenue(f.Ctx, f.Controller, types.VenueKnobs{Paused: &paused})
	require.NoError(t, err)
	assert.True(t, accrued.IsZero())
	status := f.Vault.VenueStatus(f.Ctx)
	assert.True(t, status.Paused)
	assert.True(t, status.WithdrawBlocked)

	half := uint64(5_000)
	paused = false
	_, err = f.TuneVenue(f.Ctx, f.Controller, types.VenueKnobs{Paused: &paused, SupplyFillBps: &half})
	require.NoError(t, err)
	f.Fund(t, holder, 200)
	receipt, err := f.Vault.Deposit(f.Ctx, holder, uint256.NewInt(200))
	require.NoError(t, err)
	assert.Equal(t, uint64(100), receipt.Forwarded.Uint64())
	assert.Equal(t, uint64(100), receipt.RetainedLocal.Uint64())
}
