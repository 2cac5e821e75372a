package vault_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/custody/internal/core/custody/testutil"
	"github.com/weisyn/custody/internal/core/custody/vault"
	"github.com/weisyn/custody/pkg/types"
)

// reenter 在转账回调中尝试所有变更入口，返回各自的错误
func reenter(ctx context.Context, f *testutil.Fixture) []error {
	var errs []error
	_, err := f.Vault.Deposit(ctx, alice, units(1))
	errs = append(errs, err)
	_, err = f.Vault.Withdraw(ctx, alice, scaled(1))
	errs = append(errs, err)
	_, err = f.Vault.SkimYield(ctx, f.Controller, recipient)
	errs = append(errs, err)
	_, err = f.Vault.EmergencyDrain(ctx, f.Controller, recipient)
	errs = append(errs, err)
	return errs
}

func TestReentrancyRejected(t *testing.T) {
	t.Run("托管账户向场所转账时回调", func(t *testing.T) {
		f := testutil.NewFixture(t)
		f.Fund(t, alice, 2_000)
		_, err := f.Vault.Deposit(f.Ctx, alice, units(500))
		require.NoError(t, err)

		var attempts [][]error
		f.Token.SetTransferHook(func(ctx context.Context, from, to types.Address, _ *uint256.Int) error {
			if from == f.Custody && to == f.Market.Address() {
				attempts = append(attempts, reenter(ctx, f))
			}
			return nil
		})

		assetBefore := f.AssetBalance(t, alice)
		_, err = f.Vault.Deposit(f.Ctx, alice, units(1_000))
		require.NoError(t, err)

		require.Len(t, attempts, 1)
		for _, e := range attempts[0] {
			require.ErrorIs(t, e, vault.ErrReentrant)
			assert.True(t, vault.IsRejection(e))
		}
		// 仅外层存入生效
		assert.True(t, f.ReceiptBalance(t, alice).Eq(scaled(1_500)))
		assert.Equal(t, assetBefore.Uint64()-1_000, f.AssetBalance(t, alice).Uint64())
		assert.True(t, f.AssetBalance(t, recipient).IsZero())
		assert.False(t, f.Gate.IsBusy())
	})

	t.Run("场所向托管账户转账时回调", func(t *testing.T) {
		f := testutil.NewFixture(t)
		f.Fund(t, alice, 1_000)
		_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
		require.NoError(t, err)

		var attempts [][]error
		f.Token.SetTransferHook(func(ctx context.Context, from, to types.Address, _ *uint256.Int) error {
			if from == f.Market.Address() && to == f.Custody {
				attempts = append(attempts, reenter(ctx, f))
			}
			return nil
		})

		w, err := f.Vault.Withdraw(f.Ctx, alice, scaled(400))
		require.NoError(t, err)
		assert.Equal(t, uint64(400), w.Paid.Uint64())

		require.Len(t, attempts, 1)
		for _, e := range attempts[0] {
			require.ErrorIs(t, e, vault.ErrReentrant)
		}
		assert.True(t, f.ReceiptBalance(t, alice).Eq(scaled(600)))
		assert.Equal(t, uint64(400), f.AssetBalance(t, alice).Uint64())
		assert.Equal(t, uint64(600), f.Market.BalanceOf(f.Custody).Uint64())
		f.RequireBacked(t)
	})

	t.Run("特权操作期间回调", func(t *testing.T) {
		f := testutil.NewFixture(t)
		f.Fund(t, alice, 1_000)
		_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
		require.NoError(t, err)
		_, err = f.Market.AccrueYield(1_000)
		require.NoError(t, err)

		var attempts [][]error
		f.Token.SetTransferHook(func(ctx context.Context, from, to types.Address, _ *uint256.Int) error {
			if from == f.Market.Address() && to == f.Custody {
				attempts = append(attempts, reenter(ctx, f))
			}
			return nil
		})

		skim, err := f.Vault.SkimYield(f.Ctx, f.Controller, recipient)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), skim.Skimmed.Uint64())
		require.Len(t, attempts, 1)
		for _, e := range attempts[0] {
			require.ErrorIs(t, e, vault.ErrReentrant)
		}
		assert.Equal(t, uint64(100), f.AssetBalance(t, recipient).Uint64())
	})
}

// 守卫被占用时的只读查询不受影响
func TestViewsDuringGuardedOperation(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Fund(t, alice, 1_000)

	var snap *types.VaultSnapshot
	f.Token.SetTransferHook(func(ctx context.Context, from, to types.Address, _ *uint256.Int) error {
		if from == f.Custody && to == f.Market.Address() {
			var err error
			snap, err = f.Vault.Snapshot(ctx)
			return err
		}
		return nil
	})

	_, err := f.Vault.Deposit(f.Ctx, alice, units(1_000))
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.Busy)
	assert.Equal(t, uint64(1_000), snap.LocalBalance.Uint64())
}

func TestConcurrentDeposits(t *testing.T) {
	f := testutil.NewFixture(t)
	const workers = 16
	holders := make([]types.Address, workers)
	for i := range holders {
		holders[i] = types.Address{byte(i + 1)}
		f.Fund(t, holders[i], 100)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded uint64
	)
	for _, h := range holders {
		wg.Add(1)
		go func(holder types.Address) {
			defer wg.Done()
			_, err := f.Vault.Deposit(f.Ctx, holder, units(100))
			if err != nil {
				assert.ErrorIs(t, err, vault.ErrReentrant)
				return
			}
			mu.Lock()
			succeeded += 100
			mu.Unlock()
		}(h)
	}
	wg.Wait()

	assert.True(t, f.Supply(t).Eq(scaled(succeeded)))
	total, err := f.Vault.TotalBalance(f.Ctx)
	require.NoError(t, err)
	assert.Equal(t, succeeded, total.Uint64())
	assert.False(t, f.Gate.IsBusy())
}

// 随机操作序列下背书不变式始终成立
func TestBackingInvariantUnderRandomOperations(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 2024} {
		f := testutil.NewFixture(t)
		rng := rand.New(rand.NewSource(seed))
		users := []types.Address{alice, bob}
		for _, u := range users {
			f.Fund(t, u, 1_000_000)
		}

		for step := 0; step < 200; step++ {
			user := users[rng.Intn(len(users))]
			var err error
			switch rng.Intn(9) {
			case 0, 1, 2:
				_, err = f.Vault.Deposit(f.Ctx, user, units(uint64(rng.Intn(5_000)+1)))
			case 3, 4:
				bal := f.ReceiptBalance(t, user)
				if bal.IsZero() {
					continue
				}
				part := new(uint256.Int).Div(bal, uint256.NewInt(uint64(rng.Intn(4)+1)))
				part.AddUint64(part, uint64(rng.Intn(1_000)))
				_, err = f.Vault.Withdraw(f.Ctx, user, part)
			case 5:
				f.Market.SetPaused(rng.Intn(3) == 0)
				f.Market.SetFrozen(rng.Intn(4) == 0)
			case 6:
				f.Market.SetSupplyFill(uint64(rng.Intn(10_001)))
				f.Market.SetWithdrawFill(uint64(rng.Intn(10_001)))
				f.Market.SetWithdrawFailure(rng.Intn(8) == 0)
			case 7:
				_, err = f.Market.AccrueYield(uint64(rng.Intn(200)))
				require.NoError(t, err)
			case 8:
				_, err = f.Vault.SkimYield(f.Ctx, f.Controller, recipient)
			}
			if err != nil {
				require.True(t, vault.IsRejection(err), "seed=%d step=%d err=%v", seed, step, err)
			}
			f.RequireBacked(t)
			assert.False(t, f.Gate.IsBusy())
		}
	}
}
