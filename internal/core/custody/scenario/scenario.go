// Package scenario 在内存部署上演练金库的参考场景
//
// simulate 命令与测试共用：每个场景使用独立的内存存储与模拟场所，
// 执行完毕后给出观测值与期望值的对照。
package scenario

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	custodyconfig "github.com/weisyn/custody/internal/config/custody"
	eventconfig "github.com/weisyn/custody/internal/config/event"
	memoryconfig "github.com/weisyn/custody/internal/config/storage/memory"
	"github.com/weisyn/custody/internal/core/custody"
	"github.com/weisyn/custody/internal/core/infrastructure/event"
	corelog "github.com/weisyn/custody/internal/core/infrastructure/log"
	"github.com/weisyn/custody/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/custody/internal/core/infrastructure/writegate"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/custody/pkg/types"
	"github.com/weisyn/custody/pkg/utils"
)

var (
	depositor     = types.Address{0: 0xde, 19: 0x01}
	yieldReceiver = types.Address{0: 0x5e, 19: 0x02}
)

// Check 单项观测
type Check struct {
	Name     string
	Expected string
	Actual   string
}

// Passed 观测值是否符合期望
func (c Check) Passed() bool { return c.Expected == c.Actual }

// Result 单个场景的执行结果
type Result struct {
	Name   string
	Venue  string
	Checks []Check
	Err    error
}

// Passed 场景执行无错误且全部观测符合期望
func (r Result) Passed() bool {
	if r.Err != nil {
		return false
	}
	for _, c := range r.Checks {
		if !c.Passed() {
			return false
		}
	}
	return true
}

// Runner 场景执行器
type Runner struct {
	venueKind string
	logger    log.Logger
}

// NewRunner 创建场景执行器；logger 可为空
func NewRunner(venueKind string, logger log.Logger) *Runner {
	if logger == nil {
		logger = corelog.NewNop()
	}
	return &Runner{venueKind: venueKind, logger: logger}
}

// RunAll 依次执行全部场景
func (r *Runner) RunAll(ctx context.Context) []Result {
	scenarios := []struct {
		name string
		fn   func(ctx context.Context, env *environment) ([]Check, error)
	}{
		{"场所正常：存入后全部取回", healthyRoundTrip},
		{"场所暂停：回退本地托管", pausedFallback},
		{"收益提取：只移走超额部分", yieldSkim},
	}

	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		res := Result{Name: s.name, Venue: r.venueKind}
		env, err := r.newEnvironment(ctx)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		res.Checks, res.Err = s.fn(ctx, env)
		env.close()
		results = append(results, res)
	}
	return results
}

// environment 单个场景使用的独立部署
type environment struct {
	*custody.Deployment
	bus   *event.EventBus
	store *memory.Store
	scale *uint256.Int

	custodyAddr types.Address
	controller  types.Address
}

func (r *Runner) newEnvironment(ctx context.Context) (*environment, error) {
	opts := custodyconfig.New(nil).GetOptions()
	opts.VenueKind = r.venueKind

	store, err := memory.New(memoryconfig.New(nil), r.logger)
	if err != nil {
		return nil, fmt.Errorf("创建内存存储失败: %w", err)
	}
	bus := event.New(eventconfig.NewFromOptions(&eventconfig.EventOptions{
		Enabled:        true,
		MaxSubscribers: 16,
		HistorySize:    64,
	}), r.logger)

	d, err := custody.NewDeployment(ctx, custody.DeploymentParams{
		Options:  opts,
		Store:    store,
		Gate:     writegate.New(),
		EventBus: bus,
		Logger:   r.logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	cfg := custodyconfig.NewFromOptions(opts)
	return &environment{
		Deployment:  d,
		bus:         bus,
		store:       store,
		scale:       d.Vault.Scale(),
		custodyAddr: cfg.CustodyAddress(),
		controller:  cfg.ControllerAddress(),
	}, nil
}

func (e *environment) close() { _ = e.store.Close() }

// fund 向存入者增发资产并授权托管账户
func (e *environment) fund(ctx context.Context, amount uint64) error {
	if err := e.Token.Mint(depositor, uint256.NewInt(amount)); err != nil {
		return err
	}
	return e.Token.Approve(ctx, depositor, e.custodyAddr, new(uint256.Int).SetAllOne())
}

func (e *environment) local(ctx context.Context) string {
	b, err := e.Vault.LocalBalance(ctx)
	if err != nil {
		return "error: " + err.Error()
	}
	return b.Dec()
}

func (e *environment) venue() string {
	return e.Market.BalanceOf(e.custodyAddr).Dec()
}

func (e *environment) receipts(ctx context.Context) string {
	b, err := e.Vault.ReceiptBalanceOf(ctx, depositor)
	if err != nil {
		return "error: " + err.Error()
	}
	return b.Dec()
}

func (e *environment) scaled(n uint64) string {
	return new(uint256.Int).Mul(uint256.NewInt(n), e.scale).Dec()
}

func healthyRoundTrip(ctx context.Context, env *environment) ([]Check, error) {
	const amount = 1_000
	if err := env.fund(ctx, amount); err != nil {
		return nil, err
	}
	dep, err := env.Vault.Deposit(ctx, depositor, uint256.NewInt(amount))
	if err != nil {
		return nil, err
	}
	checks := []Check{
		{"铸造回执", env.scaled(amount), dep.Minted.Dec()},
		{"本地余额", "0", env.local(ctx)},
		{"场所余额", "1000", env.venue()},
	}

	wd, err := env.Vault.Withdraw(ctx, depositor, dep.Minted)
	if err != nil {
		return checks, err
	}
	return append(checks,
		Check{"取回资产", "1000", wd.Paid.Dec()},
		Check{"剩余回执", "0", env.receipts(ctx)},
		Check{"取回后场所余额", "0", env.venue()},
	), nil
}

func pausedFallback(ctx context.Context, env *environment) ([]Check, error) {
	const amount = 500
	if err := env.fund(ctx, amount); err != nil {
		return nil, err
	}
	env.Market.SetPaused(true)

	dep, err := env.Vault.Deposit(ctx, depositor, uint256.NewInt(amount))
	if err != nil {
		return nil, err
	}
	reason := "none"
	for _, item := range env.bus.GetEventHistory(types.EventTypeVenueFallback) {
		if e, ok := item.(*types.CustodyEvent); ok {
			if p, ok := e.Payload.(*types.VenueFallbackEvent); ok {
				reason = string(p.Reason)
			}
		}
	}
	return []Check{
		{"回退事件原因", string(types.FallbackPaused), reason},
		{"本地余额", "500", env.local(ctx)},
		{"场所余额", "0", env.venue()},
		{"铸造回执", env.scaled(amount), dep.Minted.Dec()},
	}, nil
}

func yieldSkim(ctx context.Context, env *environment) ([]Check, error) {
	const principal = 1_000
	if err := env.fund(ctx, principal); err != nil {
		return nil, err
	}
	if _, err := env.Vault.Deposit(ctx, depositor, uint256.NewInt(principal)); err != nil {
		return nil, err
	}
	yield, err := env.Market.AccrueYield(1_000)
	if err != nil {
		return nil, err
	}

	skim, err := env.Vault.SkimYield(ctx, env.controller, yieldReceiver)
	if err != nil {
		return nil, err
	}
	total, err := env.Vault.TotalBalance(ctx)
	if err != nil {
		return nil, err
	}
	backed := "true"
	if total.Lt(utils.SaturatingSub(uint256.NewInt(principal), uint256.NewInt(1))) {
		backed = "false"
	}
	received, err := env.Token.BalanceOf(ctx, yieldReceiver)
	if err != nil {
		return nil, err
	}
	return []Check{
		{"提取金额", yield.Dec(), skim.Skimmed.Dec()},
		{"接收方到账", yield.Dec(), received.Dec()},
		{"剩余支撑 >= 本金-1", "true", backed},
	}, nil
}
