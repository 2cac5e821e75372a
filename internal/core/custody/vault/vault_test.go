package vault_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custodyconfig "github.com/weisyn/custody/internal/config/custody"
	"github.com/weisyn/custody/internal/core/custody"
	"github.com/weisyn/custody/internal/core/custody/testutil"
	"github.com/weisyn/custody/internal/core/custody/vault"
	"github.com/weisyn/custody/internal/core/custody/venue"
	"github.com/weisyn/custody/internal/core/infrastructure/writegate"
	"github.com/weisyn/custody/pkg/types"
	"github.com/weisyn/custody/pkg/utils"
)

var (
	alice     = common.HexToAddress("0xa11ce")
	bob       = common.HexToAddress("0xb0b")
	recipient = common.HexToAddress("0x5ec1e")
)

var units = testutil.Units

// scaled 资产金额换算为回执金额（默认精度 6 → 18）
func scaled(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), utils.Pow10(12))
}

func TestScenarioHealthyVenueRoundTrip(t *testing.T) {
	for _, kind := range []string{venue.KindPool, venue.KindRegistry, venue.KindComet} {
		t.Run(kind, func(t *testing.T) {
			f := testutil.NewFixture(t, testutil.WithVenueKind(kind))
			f.Fund(t, alice, 1_000)

			dep, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
			require.NoError(t, err)
			assert.True(t, dep.Minted.Eq(scaled(1_000)))
			assert.Equal(t, types.DepositSucceeded, dep.Venue)
			assert.Equal(t, types.FallbackNone, dep.Fallback)
			assert.Equal(t, uint64(1_000), dep.Forwarded.Uint64())
			assert.True(t, dep.RetainedLocal.IsZero())
			assert.NotEmpty(t, dep.OperationID)

			assert.True(t, f.ReceiptBalance(t, alice).Eq(scaled(1_000)))
			assert.True(t, f.Local(t).IsZero())
			assert.Equal(t, uint64(1_000), f.VenueBalance().Uint64())

			w, err := f.Vault.Withdraw(f.Ctx, alice, f.ReceiptBalance(t, alice))
			require.NoError(t, err)
			assert.Equal(t, uint64(1_000), w.Owed.Uint64())
			assert.Equal(t, uint64(1_000), w.Paid.Uint64())
			assert.Equal(t, uint64(1_000), w.FromVenue.Uint64())
			assert.True(t, w.Shortfall().IsZero())

			assert.True(t, f.ReceiptBalance(t, alice).IsZero())
			assert.True(t, f.VenueBalance().IsZero())
			assert.Equal(t, uint64(1_000), f.AssetBalance(t, alice).Uint64())
			assert.Len(t, f.Events(types.EventTypeDepositCompleted), 1)
			assert.Len(t, f.Events(types.EventTypeWithdrawalCompleted), 1)
		})
	}
}

func TestScenarioPausedVenueFallback(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 500)
	f.Market.SetPaused(true)

	dep, err := f.Vault.Deposit(f.Ctx, alice, units(500))
	require.NoError(t, err)
	assert.Equal(t, types.DepositBlocked, dep.Venue)
	assert.Equal(t, types.FallbackPaused, dep.Fallback)
	assert.Equal(t, uint64(500), dep.RetainedLocal.Uint64())

	assert.Equal(t, uint64(500), f.Local(t).Uint64())
	assert.True(t, f.VenueBalance().IsZero())
	assert.True(t, f.ReceiptBalance(t, alice).Eq(scaled(500)))

	events := f.Events(types.EventTypeVenueFallback)
	require.Len(t, events, 1)
	payload, ok := events[0].Payload.(*types.VenueFallbackEvent)
	require.True(t, ok)
	assert.Equal(t, types.FallbackPaused, payload.Reason)
	assert.Equal(t, dep.OperationID, payload.OperationID)
	assert.Equal(t, uint64(500), payload.RetainedLocal.Uint64())
	assert.True(t, payload.Forwarded.IsZero())
}

func TestScenarioYieldSkim(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)

	accrued, err := f.Market.AccrueYield(1_000) // +10%
	require.NoError(t, err)
	require.Equal(t, uint64(100), accrued.Uint64())

	yield, err := f.Vault.AccumulatedYield(f.Ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), yield.Uint64())
	rate, err := f.Vault.YieldRateBps(f.Ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), rate.Uint64())

	skim, err := f.Vault.SkimYield(f.Ctx, f.Controller, recipient)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), skim.Skimmed.Uint64())
	assert.Equal(t, uint64(1_000), skim.Required.Uint64())
	assert.Equal(t, uint64(1_100), skim.Available.Uint64())
	assert.Equal(t, uint64(100), skim.FromVenue.Uint64())

	assert.Equal(t, uint64(100), f.AssetBalance(t, recipient).Uint64())
	total, err := f.Vault.TotalBalance(f.Ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total.Uint64(), uint64(999))
	f.RequireBacked(t)
	assert.Len(t, f.Events(types.EventTypeYieldSkimmed), 1)
}

func TestRoundTrip(t *testing.T) {
	amounts := []uint64{1, 7, 999, 1_000_000, 123_456_789}
	for _, amount := range amounts {
		f := testutil.NewFixture(t)
		f.Fund(t, alice, amount)

		_, err := f.Vault.Deposit(f.Ctx, alice, units(amount))
		require.NoError(t, err)
		w, err := f.Vault.Withdraw(f.Ctx, alice, f.ReceiptBalance(t, alice))
		require.NoError(t, err)

		got := f.AssetBalance(t, alice).Uint64()
		assert.LessOrEqual(t, got, amount)
		assert.GreaterOrEqual(t, got+1, amount)
		assert.Equal(t, got, w.Paid.Uint64())
	}
}

func TestDecimalConversionExactness(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 10)

	dep, err := f.Vault.Deposit(f.Ctx, alice, units(10))
	require.NoError(t, err)
	assert.True(t, dep.Minted.Eq(scaled(10)))
	assert.True(t, f.Vault.Scale().Eq(utils.Pow10(12)))

	// 5*SCALE + 7：应付 5，余数 7 被销毁
	odd := new(uint256.Int).Add(scaled(5), uint256.NewInt(7))
	w, err := f.Vault.Withdraw(f.Ctx, alice, odd)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), w.Owed.Uint64())
	assert.True(t, w.Burned.Eq(odd))

	// 剩余 5*SCALE - 7 只能换回 4
	rest := f.ReceiptBalance(t, alice)
	w, err = f.Vault.Withdraw(f.Ctx, alice, rest)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), w.Owed.Uint64())
	assert.Equal(t, uint64(4), w.Paid.Uint64())

	// 粉尘留在金库
	assert.True(t, f.Supply(t).IsZero())
	total, err := f.Vault.TotalBalance(f.Ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total.Uint64())
}

func TestFallbackIdempotence(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Market.SetPaused(true)

	const n = 10
	var sum uint64
	for i := uint64(1); i <= n; i++ {
		f.Fund(t, alice, i*100)
		dep, err := f.Vault.Deposit(f.Ctx, alice, units(i*100))
		require.NoError(t, err)
		assert.True(t, dep.Minted.Eq(scaled(i*100)))
		sum += i * 100
	}

	assert.Equal(t, sum, f.Local(t).Uint64())
	assert.True(t, f.VenueBalance().IsZero())
	assert.True(t, f.Supply(t).Eq(scaled(sum)))
	assert.Len(t, f.Events(types.EventTypeVenueFallback), n)
}

func TestPartialFillTolerance(t *testing.T) {
	fills := []uint64{5_000, 1, 9_999, 0}
	for _, bps := range fills {
		f := testutil.NewFixture(t)
		f.Fund(t, alice, 1_001)
		f.Market.SetSupplyFill(bps)

		dep, err := f.Vault.Deposit(f.Ctx, alice, units(1_001))
		require.NoError(t, err)

		total := new(uint256.Int).Add(f.Local(t), f.VenueBalance())
		assert.Equal(t, uint64(1_001), total.Uint64(), "fill=%d", bps)
		assert.Equal(t, uint64(1_001), dep.Forwarded.Uint64()+dep.RetainedLocal.Uint64())
		assert.Len(t, f.Events(types.EventTypeVenuePartialFill), 1)
		assert.False(t, f.Logger.Contains("ERROR", "不守恒"))
	}
}

func TestDepositFallbackReasons(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(f *testutil.Fixture)
		status types.DepositStatus
		reason types.FallbackReason
	}{
		{"冻结", func(f *testutil.Fixture) { f.Market.SetFrozen(true) }, types.DepositBlocked, types.FallbackFrozen},
		{"调用失败", func(f *testutil.Fixture) { f.Market.SetSupplyFailure(true) }, types.DepositFailed, types.FallbackCallFailed},
		{"调用panic", func(f *testutil.Fixture) { f.Market.SetPanic(true) }, types.DepositFailed, types.FallbackCallFailed},
		{"查询失败", func(f *testutil.Fixture) { f.Market.SetQueryFailure(true) }, types.DepositFailed, types.FallbackCallFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := testutil.NewFixture(t)
			f.Fund(t, alice, 300)
			tc.setup(f)

			dep, err := f.Vault.Deposit(f.Ctx, alice, units(300))
			require.NoError(t, err)
			assert.Equal(t, tc.status, dep.Venue)
			assert.Equal(t, tc.reason, dep.Fallback)
			assert.Equal(t, uint64(300), f.Local(t).Uint64())
			assert.True(t, f.Supply(t).Eq(scaled(300)))
		})
	}
}

// 场所拉走资产后才报错时，回退通知按实际余额变化报告留存金额
func TestFallbackEventReportsForwardedFunds(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)
	f.Market.SetSupplyFill(4_000)
	f.Token.SetTransferHook(func(_ context.Context, from, _ types.Address, _ *uint256.Int) error {
		if from == f.Market.Address() {
			return errors.New("excess refund rejected")
		}
		return nil
	})

	dep, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)
	assert.Equal(t, types.DepositFailed, dep.Venue)
	assert.Equal(t, uint64(1_000), dep.Forwarded.Uint64())
	assert.True(t, dep.RetainedLocal.IsZero())

	events := f.Events(types.EventTypeVenueFallback)
	require.Len(t, events, 1)
	payload, ok := events[0].Payload.(*types.VenueFallbackEvent)
	require.True(t, ok)
	assert.Equal(t, types.FallbackCallFailed, payload.Reason)
	assert.Equal(t, uint64(1_000), payload.Amount.Uint64())
	assert.True(t, payload.Forwarded.Eq(dep.Forwarded))
	assert.True(t, payload.RetainedLocal.Eq(dep.RetainedLocal))
}

func TestDepositValidation(t *testing.T) {
	f := testutil.NewFixture(t, testutil.WithBounds("10", "1000", ""))
	f.Fund(t, alice, 5_000)

	tests := []struct {
		name   string
		caller types.Address
		amount *uint256.Int
		expect error
	}{
		{"零金额", alice, units(0), vault.ErrZeroAmount},
		{"空金额", alice, nil, vault.ErrZeroAmount},
		{"低于最小存入", alice, units(9), vault.ErrBelowMinDeposit},
		{"高于最大存入", alice, units(1_001), vault.ErrAboveMaxDeposit},
		{"调用方未设置", types.ZeroAddress, units(100), vault.ErrInvalidCaller},
		{"托管账户自身", f.Custody, units(100), vault.ErrInvalidCaller},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Vault.Deposit(f.Ctx, tt.caller, tt.amount)
			require.ErrorIs(t, err, tt.expect)
			assert.True(t, vault.IsRejection(err))
		})
	}

	// 边界值本身允许
	_, err := f.Vault.Deposit(f.Ctx, alice, units(10))
	require.NoError(t, err)
	_, err = f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)
	assert.True(t, f.Supply(t).Eq(scaled(1_010)))
}

func TestDepositAssetPullFailure(t *testing.T) {
	f := testutil.NewFixture(t)
	// 有余额但未授权
	require.NoError(t, f.Token.Mint(bob, units(100)))

	_, err := f.Vault.Deposit(f.Ctx, bob, units(100))
	require.ErrorIs(t, err, vault.ErrAssetTransfer)
	assert.True(t, f.Supply(t).IsZero())
	assert.Equal(t, uint64(100), f.AssetBalance(t, bob).Uint64())
	assert.False(t, f.Gate.IsBusy(), "失败路径释放守卫")

	// 授权不足以覆盖余额外的金额
	f.Fund(t, alice, 50)
	_, err = f.Vault.Deposit(f.Ctx, alice, units(51))
	require.ErrorIs(t, err, vault.ErrAssetTransfer)
	assert.True(t, f.Local(t).IsZero())
}

func TestWithdrawLocalFirst(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 500)
	f.Market.SetPaused(true)

	_, err := f.Vault.Deposit(f.Ctx, alice, units(500))
	require.NoError(t, err)

	// 场所仍暂停，但本地余额足够
	w, err := f.Vault.Withdraw(f.Ctx, alice, scaled(500))
	require.NoError(t, err)
	assert.Equal(t, uint64(500), w.Paid.Uint64())
	assert.True(t, w.FromVenue.IsZero())
}

func TestWithdrawVenueBlocked(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)

	f.Market.SetPaused(true)
	_, err = f.Vault.Withdraw(f.Ctx, alice, scaled(1_000))
	require.ErrorIs(t, err, vault.ErrVenueWithdrawBlocked)
	assert.True(t, f.ReceiptBalance(t, alice).Eq(scaled(1_000)), "阻塞时不销毁")
	assert.False(t, f.Gate.IsBusy())

	// 冻结不阻塞取回
	f.Market.SetPaused(false)
	f.Market.SetFrozen(true)
	w, err := f.Vault.Withdraw(f.Ctx, alice, scaled(1_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), w.Paid.Uint64())
}

func TestWithdrawSplitCustody(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)
	f.Market.SetSupplyFill(5_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)
	require.Equal(t, uint64(500), f.Local(t).Uint64())

	w, err := f.Vault.Withdraw(f.Ctx, alice, scaled(700))
	require.NoError(t, err)
	assert.Equal(t, uint64(700), w.Paid.Uint64())
	assert.Equal(t, uint64(200), w.FromVenue.Uint64())
	assert.True(t, f.Local(t).IsZero())
	assert.Equal(t, uint64(300), f.VenueBalance().Uint64())
	f.RequireBacked(t)
}

func TestWithdrawVenuePartialReturn(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)

	f.Market.SetWithdrawFill(5_000)
	w, err := f.Vault.Withdraw(f.Ctx, alice, scaled(1_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), w.Owed.Uint64())
	assert.Equal(t, uint64(500), w.Paid.Uint64())
	assert.Equal(t, uint64(500), w.Shortfall().Uint64())
	assert.True(t, f.ReceiptBalance(t, alice).IsZero())
	assert.True(t, f.Logger.Contains("WARN", "取回少付"))
}

// 场所取回失败且本地无余额：回执被销毁、实付为 0
func TestWithdrawLossyBurnPreserved(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)

	f.Market.SetWithdrawFailure(true)
	w, err := f.Vault.Withdraw(f.Ctx, alice, scaled(1_000))
	require.NoError(t, err)
	assert.True(t, w.Paid.IsZero())
	assert.True(t, w.FromVenue.IsZero())
	assert.True(t, w.Burned.Eq(scaled(1_000)))
	assert.True(t, f.ReceiptBalance(t, alice).IsZero())
	assert.True(t, f.AssetBalance(t, alice).IsZero())
	assert.Equal(t, uint64(1_000), f.Market.BalanceOf(f.Custody).Uint64())
}

func TestWithdrawValidation(t *testing.T) {
	f := testutil.NewFixture(t, testutil.WithBounds("", "", scaled(5).Dec()))
	f.Fund(t, alice, 100)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(100))
	require.NoError(t, err)

	tests := []struct {
		name   string
		caller types.Address
		amount *uint256.Int
		expect error
	}{
		{"零金额", alice, units(0), vault.ErrZeroAmount},
		{"调用方未设置", types.ZeroAddress, scaled(10), vault.ErrInvalidCaller},
		{"低于最小取回", alice, scaled(4), vault.ErrBelowMinWithdraw},
		{"回执不足", alice, scaled(101), vault.ErrInsufficientReceipts},
		{"他人无回执", bob, scaled(10), vault.ErrInsufficientReceipts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Vault.Withdraw(f.Ctx, tt.caller, tt.amount)
			require.ErrorIs(t, err, tt.expect)
		})
	}
	assert.True(t, f.ReceiptBalance(t, alice).Eq(scaled(100)))
}

func TestWithdrawNothingToReturn(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1))
	require.NoError(t, err)

	tiny := new(uint256.Int).Sub(scaled(1), uint256.NewInt(1))
	_, err = f.Vault.Withdraw(f.Ctx, alice, tiny)
	require.ErrorIs(t, err, vault.ErrNothingToReturn)
	assert.True(t, f.ReceiptBalance(t, alice).Eq(scaled(1)), "失败时不销毁")
}

func TestPause(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(600))
	require.NoError(t, err)

	require.ErrorIs(t, f.Vault.Pause(f.Ctx, alice), vault.ErrUnauthorized)
	assert.False(t, f.Vault.Paused())

	require.NoError(t, f.Vault.Pause(f.Ctx, f.Controller))
	assert.True(t, f.Vault.Paused())
	require.NoError(t, f.Vault.Pause(f.Ctx, f.Controller), "重复暂停是幂等的")

	_, err = f.Vault.Deposit(f.Ctx, alice, units(100))
	require.ErrorIs(t, err, vault.ErrPaused)
	_, err = f.Vault.Withdraw(f.Ctx, alice, scaled(100))
	require.ErrorIs(t, err, vault.ErrPaused)

	events := f.Events(types.EventTypePauseChanged)
	require.Len(t, events, 1)
	assert.Equal(t, &types.PauseChangedEvent{Paused: true, By: f.Controller}, events[0].Payload)

	require.ErrorIs(t, f.Vault.Unpause(f.Ctx, bob), vault.ErrUnauthorized)
	require.NoError(t, f.Vault.Unpause(f.Ctx, f.Controller))
	_, err = f.Vault.Deposit(f.Ctx, alice, units(100))
	require.NoError(t, err)
	assert.Len(t, f.Events(types.EventTypePauseChanged), 2)
}

func TestPauseDoesNotGatePrivilegedOps(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)
	_, err = f.Market.AccrueYield(500)
	require.NoError(t, err)

	require.NoError(t, f.Vault.Pause(f.Ctx, f.Controller))

	skim, err := f.Vault.SkimYield(f.Ctx, f.Controller, recipient)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), skim.Skimmed.Uint64())

	report, err := f.Vault.EmergencyDrain(f.Ctx, f.Controller, recipient)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), report.Moved.Uint64())
}

func TestPausePersistsAcrossRestart(t *testing.T) {
	store := testutil.NewMemoryStore(t)
	f := testutil.NewFixtureWithStore(t, store)
	f.Fund(t, alice, 100)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(100))
	require.NoError(t, err)
	require.NoError(t, f.Vault.Pause(f.Ctx, f.Controller))

	restarted := testutil.NewFixtureWithStore(t, store)
	assert.True(t, restarted.Vault.Paused())
	assert.True(t, restarted.ReceiptBalance(t, alice).Eq(scaled(100)))
	assert.Equal(t, uint64(100), restarted.VenueBalance().Uint64())
	restarted.RequireBacked(t)

	require.NoError(t, restarted.Vault.Unpause(restarted.Ctx, restarted.Controller))
	again := testutil.NewFixtureWithStore(t, store)
	assert.False(t, again.Vault.Paused())
}

// 重启后资产、场所余额与授权随回执一起恢复，持有人可全额取回
func TestCustodyRestoredAcrossRestart(t *testing.T) {
	store := testutil.NewMemoryStore(t)
	f := testutil.NewFixtureWithStore(t, store)
	f.Fund(t, alice, 1_000)
	f.Market.SetSupplyFill(5_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)
	require.Equal(t, uint64(500), f.Local(t).Uint64())
	_, err = f.Market.AccrueYield(1_000)
	require.NoError(t, err)

	restarted := testutil.NewFixtureWithStore(t, store)
	assert.Equal(t, uint64(500), restarted.Local(t).Uint64())
	assert.Equal(t, uint64(550), restarted.VenueBalance().Uint64())
	restarted.RequireBacked(t)

	w, err := restarted.Vault.Withdraw(restarted.Ctx, alice, scaled(1_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), w.Paid.Uint64())
	assert.Equal(t, uint64(1_000), restarted.AssetBalance(t, alice).Uint64())

	// 无限授权已恢复，增发后无需重新授权即可存入
	require.NoError(t, restarted.Token.Mint(alice, units(10)))
	_, err = restarted.Vault.Deposit(restarted.Ctx, alice, units(10))
	require.NoError(t, err)
}

// 只恢复了回执而托管资产缺失时拒绝启动
func TestRestartRejectsBackingShortfall(t *testing.T) {
	source := testutil.NewMemoryStore(t)
	f := testutil.NewFixtureWithStore(t, source)
	f.Fund(t, alice, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)

	receipts, err := source.PrefixScan(f.Ctx, []byte("receipt/"))
	require.NoError(t, err)
	require.NotEmpty(t, receipts)
	partial := testutil.NewMemoryStore(t)
	require.NoError(t, partial.SetMany(f.Ctx, receipts))

	_, err = custody.NewDeployment(f.Ctx, custody.DeploymentParams{
		Options: custodyconfig.New(nil).GetOptions(),
		Store:   partial,
		Gate:    writegate.New(),
	})
	require.ErrorIs(t, err, vault.ErrBackingShortfall)
}

// 紧急清空后缺额是预期状态，重启不受影响
func TestRestartAfterEmergencyDrain(t *testing.T) {
	store := testutil.NewMemoryStore(t)
	f := testutil.NewFixtureWithStore(t, store)
	f.Fund(t, alice, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)
	_, err = f.Vault.EmergencyDrain(f.Ctx, f.Controller, recipient)
	require.NoError(t, err)

	restarted := testutil.NewFixtureWithStore(t, store)
	total, err := restarted.Vault.TotalBalance(restarted.Ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.True(t, restarted.Supply(t).Eq(scaled(1_000)))
	assert.Equal(t, uint64(1_000), restarted.AssetBalance(t, recipient).Uint64())
}

func TestSkimYieldErrors(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)

	_, err = f.Vault.SkimYield(f.Ctx, alice, recipient)
	require.ErrorIs(t, err, vault.ErrUnauthorized)

	_, err = f.Vault.SkimYield(f.Ctx, f.Controller, types.ZeroAddress)
	require.ErrorIs(t, err, vault.ErrInvalidRecipient)

	_, err = f.Vault.SkimYield(f.Ctx, f.Controller, recipient)
	require.ErrorIs(t, err, vault.ErrNothingToSkim)

	// 收益在场所且场所暂停：无法取回，也没有本地余额可转
	_, err = f.Market.AccrueYield(100)
	require.NoError(t, err)
	f.Market.SetPaused(true)
	_, err = f.Vault.SkimYield(f.Ctx, f.Controller, recipient)
	require.ErrorIs(t, err, vault.ErrNothingToSkim)
	assert.True(t, f.AssetBalance(t, recipient).IsZero())
}

func TestSkimYieldFromLocal(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)

	// 直接转入托管账户的资产同样属于超额部分
	require.NoError(t, f.Token.Mint(f.Custody, units(25)))

	skim, err := f.Vault.SkimYield(f.Ctx, f.Controller, recipient)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), skim.Skimmed.Uint64())
	assert.True(t, skim.FromVenue.IsZero())
	assert.Equal(t, uint64(1_000), f.VenueBalance().Uint64())
}

func TestSkimYieldNeverOverstates(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)
	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)
	_, err = f.Market.AccrueYield(2_000)
	require.NoError(t, err)

	// 场所只返还一半：实际转出以到账为准
	f.Market.SetWithdrawFill(5_000)
	skim, err := f.Vault.SkimYield(f.Ctx, f.Controller, recipient)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), skim.Skimmed.Uint64())
	assert.Equal(t, uint64(100), f.AssetBalance(t, recipient).Uint64())
	f.RequireBacked(t)
}

func TestEmergencyDrain(t *testing.T) {
	t.Run("清空场所与本地", func(t *testing.T) {
		f := testutil.NewFixture(t)
		f.Fund(t, alice, 1_000)
		f.Market.SetSupplyFill(7_000)
		_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
		require.NoError(t, err)

		report, err := f.Vault.EmergencyDrain(f.Ctx, f.Controller, recipient)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000), report.Moved.Uint64())
		assert.Equal(t, uint64(700), report.FromVenue.Uint64())
		assert.True(t, report.ReceiptSupply.Eq(scaled(1_000)))
		assert.Equal(t, uint64(1_000), report.RequiredBacking.Uint64())
		assert.Equal(t, uint64(10_000), report.BackingRatioBps.Uint64())
		assert.Equal(t, uint64(1_000), f.AssetBalance(t, recipient).Uint64())

		events := f.Events(types.EventTypeEmergencyDrained)
		require.Len(t, events, 1)
		assert.Equal(t, types.PriorityCritical, events[0].Priority)
	})

	t.Run("场所暂停时只转出本地", func(t *testing.T) {
		f := testutil.NewFixture(t)
		f.Fund(t, alice, 1_000)
		f.Market.SetSupplyFill(6_000)
		_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
		require.NoError(t, err)
		f.Market.SetPaused(true)

		report, err := f.Vault.EmergencyDrain(f.Ctx, f.Controller, recipient)
		require.NoError(t, err)
		assert.Equal(t, uint64(400), report.Moved.Uint64())
		assert.True(t, report.FromVenue.IsZero())
		assert.Equal(t, uint64(4_000), report.BackingRatioBps.Uint64())
	})

	t.Run("无发行时比例为0", func(t *testing.T) {
		f := testutil.NewFixture(t)
		require.NoError(t, f.Token.Mint(f.Custody, units(5)))

		report, err := f.Vault.EmergencyDrain(f.Ctx, f.Controller, recipient)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), report.Moved.Uint64())
		assert.True(t, report.RequiredBacking.IsZero())
		assert.True(t, report.BackingRatioBps.IsZero())
	})

	t.Run("错误", func(t *testing.T) {
		f := testutil.NewFixture(t)
		_, err := f.Vault.EmergencyDrain(f.Ctx, alice, recipient)
		require.ErrorIs(t, err, vault.ErrUnauthorized)
		_, err = f.Vault.EmergencyDrain(f.Ctx, f.Controller, types.ZeroAddress)
		require.ErrorIs(t, err, vault.ErrInvalidRecipient)
		_, err = f.Vault.EmergencyDrain(f.Ctx, f.Controller, recipient)
		require.ErrorIs(t, err, vault.ErrNothingToDrain)
	})
}

func TestViewsAndSnapshot(t *testing.T) {
	f := testutil.NewFixture(t)

	rate, err := f.Vault.YieldRateBps(f.Ctx)
	require.NoError(t, err)
	assert.True(t, rate.IsZero(), "无发行时收益率为 0")

	f.Fund(t, alice, 2_000)
	f.Market.SetSupplyFill(5_000)
	_, err = f.Vault.Deposit(f.Ctx, alice, units(2_000))
	require.NoError(t, err)
	_, err = f.Market.AccrueYield(1_000)
	require.NoError(t, err)

	snap, err := f.Vault.Snapshot(f.Ctx)
	require.NoError(t, err)
	assert.False(t, snap.Paused)
	assert.False(t, snap.Busy)
	assert.Equal(t, uint64(1_000), snap.LocalBalance.Uint64())
	assert.Equal(t, uint64(1_100), snap.VenueBalance.Uint64())
	assert.Equal(t, uint64(2_100), snap.TotalBalance.Uint64())
	assert.Equal(t, uint64(2_000), snap.RequiredBacking.Uint64())
	assert.Equal(t, uint64(100), snap.AccumulatedYield.Uint64())
	assert.Equal(t, uint64(500), snap.YieldRateBps.Uint64())
	assert.True(t, snap.ReceiptSupply.Eq(scaled(2_000)))
	assert.Equal(t, venue.KindPool, snap.Venue.Venue)

	f.Market.SetFrozen(true)
	st := f.Vault.VenueStatus(f.Ctx)
	assert.True(t, st.Frozen)
	assert.True(t, st.DepositBlocked)
	assert.False(t, st.WithdrawBlocked)

	bal, err := f.Vault.ReceiptBalanceOf(f.Ctx, alice)
	require.NoError(t, err)
	assert.True(t, bal.Eq(scaled(2_000)))
}

func TestNewValidation(t *testing.T) {
	f := testutil.NewFixture(t)
	deps := vault.Dependencies{
		Asset:    f.Token,
		Receipts: f.Receipts,
		Venue:    f.Venue,
		Gate:     f.Gate,
		Store:    f.Store,
	}
	ctx := context.Background()

	_, err := vault.New(ctx, vault.Settings{Controller: f.Controller}, deps)
	require.ErrorIs(t, err, vault.ErrInvalidConfig)

	_, err = vault.New(ctx, vault.Settings{Custody: f.Custody}, deps)
	require.ErrorIs(t, err, vault.ErrInvalidConfig)

	// 回执账本的发行方必须是托管账户
	_, err = vault.New(ctx, vault.Settings{Custody: bob, Controller: f.Controller}, deps)
	require.ErrorIs(t, err, vault.ErrInvalidConfig)

	missing := deps
	missing.Venue = nil
	_, err = vault.New(ctx, vault.Settings{Custody: f.Custody, Controller: f.Controller}, missing)
	require.ErrorIs(t, err, vault.ErrInvalidConfig)

	_, err = vault.New(ctx, vault.Settings{Custody: f.Custody, Controller: f.Controller}, deps)
	require.NoError(t, err)
}
