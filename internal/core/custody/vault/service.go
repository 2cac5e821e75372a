// Package vault 实现托管核算核心
//
// 用户存入稳定资产，按 SCALE = 10^(回执精度-资产精度) 获得回执代币；
// 金库尝试把资产转交唯一的外部收益场所，场所不可用时保留在本地托管。
//
// 背书不变式：本地余额 + 场所余额 >= 发行总量 / SCALE（紧急清空之后除外）。
//
// 并发模型：所有变更入口（存入、取回、收益提取、紧急清空）先经过写入闸门的
// 重入守卫，守卫被占用时立即失败且不改变任何状态；只读查询从不进入守卫。
// 暂停只拦截存入与取回，控制者的特权操作不受影响。
package vault

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	custodyconfig "github.com/weisyn/custody/internal/config/custody"
	custodyif "github.com/weisyn/custody/pkg/interfaces/custody"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/writegate"
	"github.com/weisyn/custody/pkg/types"
	"github.com/weisyn/custody/pkg/utils"
)

// 状态存储中的键
const (
	pausedKey  = "vault/paused"
	drainedKey = "vault/drained" // 执行过紧急清空，背书不变式不再成立
)

// 操作名（闸门占用者、日志与指标标签）
const (
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
	opSkim     = "skim"
	opDrain    = "drain"
	opPause    = "pause"
	opUnpause  = "unpause"
)

// Settings 金库身份与边界
type Settings struct {
	Custody    types.Address        // 托管账户（回执账本的唯一发行方）
	Controller types.Address        // 特权操作控制者
	Bounds     custodyconfig.Bounds // nil 边界表示未设置
}

// Dependencies 金库协作方
type Dependencies struct {
	Asset    custodyif.AssetToken
	Receipts custodyif.ReceiptLedger
	Venue    custodyif.VenueAdapter
	Gate     writegate.WriteGate
	Store    storage.KVStore
	EventBus event.EventBus // 可选
	Logger   log.Logger     // 可选
}

// Service 托管核算核心，实现 custody.Vault
type Service struct {
	settings Settings
	scale    *uint256.Int

	asset    custodyif.AssetToken
	receipts custodyif.ReceiptLedger
	venue    custodyif.VenueAdapter
	gate     writegate.WriteGate
	store    storage.KVStore
	bus      event.EventBus
	logger   log.Logger
}

var _ custodyif.Vault = (*Service)(nil)

// New 创建金库，从状态存储恢复暂停标志并核对背书
//
// 未执行过紧急清空时，恢复出的 本地+场所 必须覆盖 发行总量/SCALE（容差 1），
// 否则返回 ErrBackingShortfall。
func New(ctx context.Context, settings Settings, deps Dependencies) (*Service, error) {
	switch {
	case settings.Custody == types.ZeroAddress:
		return nil, fmt.Errorf("%w: custody address unset", ErrInvalidConfig)
	case settings.Controller == types.ZeroAddress:
		return nil, fmt.Errorf("%w: controller address unset", ErrInvalidConfig)
	case deps.Asset == nil, deps.Receipts == nil, deps.Venue == nil, deps.Gate == nil, deps.Store == nil:
		return nil, fmt.Errorf("%w: asset, receipts, venue, gate and store are required", ErrInvalidConfig)
	}
	if deps.Receipts.Issuer() != settings.Custody {
		return nil, fmt.Errorf("%w: receipt issuer %s is not the custody account %s",
			ErrInvalidConfig, deps.Receipts.Issuer().Hex(), settings.Custody.Hex())
	}
	b := settings.Bounds
	if b.MinDeposit != nil && b.MaxDeposit != nil && b.MinDeposit.Gt(b.MaxDeposit) {
		return nil, fmt.Errorf("%w: min deposit %s > max deposit %s", ErrInvalidConfig, b.MinDeposit.Dec(), b.MaxDeposit.Dec())
	}
	scale, err := utils.ScaleFactor(deps.Asset.Decimals(), deps.Receipts.Decimals())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	s := &Service{
		settings: settings,
		scale:    scale,
		asset:    deps.Asset,
		receipts: deps.Receipts,
		venue:    deps.Venue,
		gate:     deps.Gate,
		store:    deps.Store,
		bus:      deps.EventBus,
		logger:   deps.Logger,
	}
	if err := s.restorePause(ctx); err != nil {
		return nil, err
	}
	if err := s.verifyBacking(ctx); err != nil {
		return nil, err
	}
	s.infof("金库已就绪: custody=%s controller=%s venue=%s scale=%s paused=%v",
		settings.Custody.Hex(), settings.Controller.Hex(), deps.Venue.Name(), scale.Dec(), s.gate.IsPaused())
	return s, nil
}

func (s *Service) restorePause(ctx context.Context) error {
	raw, err := s.store.Get(ctx, []byte(pausedKey))
	if err != nil {
		return fmt.Errorf("%w: read pause flag: %v", ErrStateStore, err)
	}
	paused := len(raw) == 1 && raw[0] == 1
	if paused {
		s.gate.Pause("restored")
	} else {
		s.gate.Unpause()
	}
	setPausedGauge(paused)
	return nil
}

func (s *Service) verifyBacking(ctx context.Context) error {
	required, err := s.requiredBacking(ctx)
	if err != nil {
		return err
	}
	total, err := s.TotalBalance(ctx)
	if err != nil {
		return err
	}
	if !total.Lt(utils.SaturatingSub(required, uint256.NewInt(1))) {
		return nil
	}

	raw, err := s.store.Get(ctx, []byte(drainedKey))
	if err != nil {
		return fmt.Errorf("%w: read drain marker: %v", ErrStateStore, err)
	}
	if len(raw) == 1 && raw[0] == 1 {
		s.warnf("紧急清空后的缺额状态: total=%s required=%s", total.Dec(), required.Dec())
		return nil
	}
	return fmt.Errorf("%w: local+venue=%s required=%s", ErrBackingShortfall, total.Dec(), required.Dec())
}

// ============================================================================
//                              用户操作
// ============================================================================

// Deposit 存入 amount（资产单位），向 caller 发行 amount*SCALE 回执代币
//
// 场所暂停、冻结、调用失败或部分成交都不会让存入失败：未转交的部分
// 留在本地托管，并发布回退/部分成交通知。
func (s *Service) Deposit(ctx context.Context, caller types.Address, amount *uint256.Int) (receipt *types.DepositReceipt, err error) {
	defer func() { recordOp(opDeposit, err) }()

	if err := s.gate.AssertNotPaused(opDeposit); err != nil {
		return nil, err
	}
	release, err := s.gate.Enter(opDeposit)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.validateDeposit(caller, amount); err != nil {
		return nil, err
	}
	minted, err := utils.ToReceiptUnits(amount, s.scale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAmountOverflow, err)
	}

	opID := uuid.NewString()
	before := s.custodyTotal(ctx)

	// 拉取资产：失败则整个操作无效果
	if err := s.asset.TransferFrom(ctx, s.settings.Custody, caller, s.settings.Custody, amount); err != nil {
		return nil, fmt.Errorf("%w: pull %s from %s: %v", ErrAssetTransfer, amount.Dec(), caller.Hex(), err)
	}
	if err := s.receipts.Issue(ctx, s.settings.Custody, caller, minted); err != nil {
		// 发行失败属于配置错误：退回已拉取的资产，保持全有或全无
		if refundErr := s.asset.Transfer(ctx, s.settings.Custody, caller, amount); refundErr != nil {
			s.errorf("[%s] 回执发行失败且退款失败: issue=%v refund=%v", opID, err, refundErr)
		}
		return nil, fmt.Errorf("%w: issue %s to %s: %v", ErrReceiptLedger, minted.Dec(), caller.Hex(), err)
	}

	outcome := s.venue.Deposit(ctx, amount)
	forwarded := utils.Min(nonNil(outcome.Accepted), amount)
	receipt = &types.DepositReceipt{
		OperationID:   opID,
		Depositor:     caller,
		Amount:        new(uint256.Int).Set(amount),
		Minted:        minted,
		Forwarded:     forwarded,
		RetainedLocal: new(uint256.Int).Sub(amount, forwarded),
		Venue:         outcome.Status,
		Fallback:      outcome.Reason,
	}

	switch outcome.Status {
	case types.DepositBlocked, types.DepositFailed:
		fallbacksTotal.WithLabelValues(string(outcome.Reason)).Inc()
		s.warnf("[%s] 存入回退到本地托管: amount=%s retained=%s reason=%s err=%v",
			opID, amount.Dec(), receipt.RetainedLocal.Dec(), outcome.Reason, outcome.Err)
		s.publish(opID, types.EventTypeVenueFallback, types.PriorityHigh, &types.VenueFallbackEvent{
			OperationID:   opID,
			Amount:        new(uint256.Int).Set(amount),
			Forwarded:     new(uint256.Int).Set(forwarded),
			RetainedLocal: new(uint256.Int).Set(receipt.RetainedLocal),
			Reason:        outcome.Reason,
		})
	case types.DepositSucceeded:
		if outcome.IsPartial() {
			partialFillsTotal.Inc()
			s.warnf("[%s] 场所部分成交: requested=%s accepted=%s", opID, amount.Dec(), forwarded.Dec())
			s.publish(opID, types.EventTypeVenuePartialFill, types.PriorityNormal, &types.VenuePartialFillEvent{
				OperationID: opID,
				Requested:   new(uint256.Int).Set(amount),
				Accepted:    forwarded,
				Returned:    new(uint256.Int).Sub(amount, forwarded),
			})
		}
	}

	s.checkConservation(ctx, opID, before, amount)
	s.refreshGauges(ctx)
	s.infof("[%s] 存入完成: depositor=%s amount=%s minted=%s forwarded=%s",
		opID, caller.Hex(), amount.Dec(), minted.Dec(), forwarded.Dec())
	s.publish(opID, types.EventTypeDepositCompleted, types.PriorityNormal, receipt)
	return receipt, nil
}

func (s *Service) validateDeposit(caller types.Address, amount *uint256.Int) error {
	if caller == types.ZeroAddress || caller == s.settings.Custody {
		return ErrInvalidCaller
	}
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	b := s.settings.Bounds
	if b.MinDeposit != nil && amount.Lt(b.MinDeposit) {
		return fmt.Errorf("%w: %s < %s", ErrBelowMinDeposit, amount.Dec(), b.MinDeposit.Dec())
	}
	if b.MaxDeposit != nil && amount.Gt(b.MaxDeposit) {
		return fmt.Errorf("%w: %s > %s", ErrAboveMaxDeposit, amount.Dec(), b.MaxDeposit.Dec())
	}
	return nil
}

// checkConservation 存入后本地+场所应恰好增加 amount，不一致只记录不回滚
func (s *Service) checkConservation(ctx context.Context, opID string, before, amount *uint256.Int) {
	if before == nil {
		return
	}
	after := s.custodyTotal(ctx)
	if after == nil {
		return
	}
	expected := new(uint256.Int).Add(before, amount)
	if !after.Eq(expected) {
		conservationMismatchTotal.Inc()
		s.errorf("[%s] 托管总额不守恒: before=%s amount=%s after=%s", opID, before.Dec(), amount.Dec(), after.Dec())
	}
}

// Withdraw 销毁 receiptAmount 回执代币，支付 floor(receiptAmount/SCALE) 资产
//
// 本地余额足够时不触碰场所；不足且场所取回被暂停时失败且不销毁。
// 场所少付或失败时按实际可用金额支付，已销毁的回执不恢复。
func (s *Service) Withdraw(ctx context.Context, caller types.Address, receiptAmount *uint256.Int) (receipt *types.WithdrawalReceipt, err error) {
	defer func() { recordOp(opWithdraw, err) }()

	if err := s.gate.AssertNotPaused(opWithdraw); err != nil {
		return nil, err
	}
	release, err := s.gate.Enter(opWithdraw)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.validateWithdraw(ctx, caller, receiptAmount); err != nil {
		return nil, err
	}
	owed := utils.ToAssetUnits(receiptAmount, s.scale)
	if owed.IsZero() {
		return nil, fmt.Errorf("%w: %s receipt units is below one asset unit", ErrNothingToReturn, receiptAmount.Dec())
	}

	local, err := s.LocalBalance(ctx)
	if err != nil {
		return nil, err
	}
	needVenue := local.Lt(owed)
	if needVenue && s.venue.IsWithdrawBlocked(ctx) {
		return nil, fmt.Errorf("%w: owed=%s local=%s", ErrVenueWithdrawBlocked, owed.Dec(), local.Dec())
	}

	if err := s.receipts.Redeem(ctx, s.settings.Custody, caller, receiptAmount); err != nil {
		return nil, fmt.Errorf("%w: redeem %s from %s: %v", ErrReceiptLedger, receiptAmount.Dec(), caller.Hex(), err)
	}

	opID := uuid.NewString()
	fromVenue := new(uint256.Int)
	if needVenue {
		fromVenue = nonNil(s.venue.Withdraw(ctx, new(uint256.Int).Sub(owed, local)))
	}

	available, err := s.LocalBalance(ctx)
	if err != nil {
		s.errorf("[%s] 取回后读取本地余额失败，按 0 支付: %v", opID, err)
		available = new(uint256.Int)
	}
	paid := utils.Min(owed, available)
	if !paid.IsZero() {
		if err := s.asset.Transfer(ctx, s.settings.Custody, caller, paid); err != nil {
			// 支付失败时恢复回执，调用方可重试
			if reissueErr := s.receipts.Issue(ctx, s.settings.Custody, caller, receiptAmount); reissueErr != nil {
				s.errorf("[%s] 支付失败且回执恢复失败: pay=%v reissue=%v", opID, err, reissueErr)
			}
			return nil, fmt.Errorf("%w: pay %s to %s: %v", ErrAssetTransfer, paid.Dec(), caller.Hex(), err)
		}
	}

	receipt = &types.WithdrawalReceipt{
		OperationID: opID,
		Holder:      caller,
		Burned:      new(uint256.Int).Set(receiptAmount),
		Owed:        owed,
		Paid:        paid,
		FromVenue:   fromVenue,
	}
	if paid.Lt(owed) {
		withdrawShortfallTotal.Inc()
		s.warnf("[%s] 取回少付: owed=%s paid=%s from_venue=%s", opID, owed.Dec(), paid.Dec(), fromVenue.Dec())
	}

	s.refreshGauges(ctx)
	s.infof("[%s] 取回完成: holder=%s burned=%s owed=%s paid=%s",
		opID, caller.Hex(), receiptAmount.Dec(), owed.Dec(), paid.Dec())
	s.publish(opID, types.EventTypeWithdrawalCompleted, types.PriorityNormal, receipt)
	return receipt, nil
}

func (s *Service) validateWithdraw(ctx context.Context, caller types.Address, receiptAmount *uint256.Int) error {
	if caller == types.ZeroAddress {
		return ErrInvalidCaller
	}
	if receiptAmount == nil || receiptAmount.IsZero() {
		return ErrZeroAmount
	}
	if minW := s.settings.Bounds.MinWithdraw; minW != nil && receiptAmount.Lt(minW) {
		return fmt.Errorf("%w: %s < %s", ErrBelowMinWithdraw, receiptAmount.Dec(), minW.Dec())
	}
	balance, err := s.receipts.BalanceOf(ctx, caller)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReceiptLedger, err)
	}
	if balance.Lt(receiptAmount) {
		return fmt.Errorf("%w: balance=%s need=%s", ErrInsufficientReceipts, balance.Dec(), receiptAmount.Dec())
	}
	return nil
}

// ============================================================================
//                              特权操作
// ============================================================================

// Pause 暂停存入与取回
func (s *Service) Pause(ctx context.Context, caller types.Address) (err error) {
	defer func() { recordOp(opPause, err) }()
	return s.setPaused(ctx, caller, true)
}

// Unpause 恢复存入与取回
func (s *Service) Unpause(ctx context.Context, caller types.Address) (err error) {
	defer func() { recordOp(opUnpause, err) }()
	return s.setPaused(ctx, caller, false)
}

func (s *Service) setPaused(ctx context.Context, caller types.Address, paused bool) error {
	if err := s.authorize(caller); err != nil {
		return err
	}
	var changed bool
	if paused {
		changed = s.gate.Pause("controller " + caller.Hex())
	} else {
		changed = s.gate.Unpause()
	}
	if !changed {
		return nil
	}

	value := []byte{0}
	if paused {
		value = []byte{1}
	}
	if err := s.store.Set(ctx, []byte(pausedKey), value); err != nil {
		// 持久化失败时回滚内存状态
		if paused {
			s.gate.Unpause()
		} else {
			s.gate.Pause("restored")
		}
		return fmt.Errorf("%w: persist pause flag: %v", ErrStateStore, err)
	}

	setPausedGauge(paused)
	s.infof("暂停状态变更: paused=%v by=%s", paused, caller.Hex())
	s.publish(uuid.NewString(), types.EventTypePauseChanged, types.PriorityHigh, &types.PauseChangedEvent{
		Paused: paused,
		By:     caller,
	})
	return nil
}

// SkimYield 把超出背书需求的部分转给 recipient
//
// 本地余额不足以覆盖超额部分时，差额尽力从场所取回；实际转出为
// min(超额, 取回后的本地余额)。
func (s *Service) SkimYield(ctx context.Context, caller, recipient types.Address) (receipt *types.SkimReceipt, err error) {
	defer func() { recordOp(opSkim, err) }()

	if err := s.authorize(caller); err != nil {
		return nil, err
	}
	if recipient == types.ZeroAddress {
		return nil, ErrInvalidRecipient
	}
	release, err := s.gate.Enter(opSkim)
	if err != nil {
		return nil, err
	}
	defer release()

	required, err := s.requiredBacking(ctx)
	if err != nil {
		return nil, err
	}
	local, err := s.LocalBalance(ctx)
	if err != nil {
		return nil, err
	}
	available := new(uint256.Int).Add(local, s.venue.CustodiedBalance(ctx))
	if !available.Gt(required) {
		return nil, fmt.Errorf("%w: available=%s required=%s", ErrNothingToSkim, available.Dec(), required.Dec())
	}
	excess := new(uint256.Int).Sub(available, required)

	opID := uuid.NewString()
	fromVenue := new(uint256.Int)
	if excess.Gt(local) {
		fromVenue = nonNil(s.venue.Withdraw(ctx, new(uint256.Int).Sub(excess, local)))
	}
	localNow, err := s.LocalBalance(ctx)
	if err != nil {
		return nil, err
	}
	skimmed := utils.Min(excess, localNow)
	if skimmed.IsZero() {
		return nil, fmt.Errorf("%w: venue returned nothing for excess %s", ErrNothingToSkim, excess.Dec())
	}
	if err := s.asset.Transfer(ctx, s.settings.Custody, recipient, skimmed); err != nil {
		return nil, fmt.Errorf("%w: skim %s to %s: %v", ErrAssetTransfer, skimmed.Dec(), recipient.Hex(), err)
	}

	receipt = &types.SkimReceipt{
		OperationID: opID,
		Recipient:   recipient,
		Skimmed:     skimmed,
		Required:    required,
		Available:   available,
		FromVenue:   fromVenue,
	}
	s.refreshGauges(ctx)
	s.infof("[%s] 收益提取完成: recipient=%s skimmed=%s required=%s available=%s",
		opID, recipient.Hex(), skimmed.Dec(), required.Dec(), available.Dec())
	s.publish(opID, types.EventTypeYieldSkimmed, types.PriorityNormal, receipt)
	return receipt, nil
}

// EmergencyDrain 尽力取回场所全部余额，并把本地托管全部转给 recipient
//
// 该操作允许破坏背书不变式，报告中的背书比例仅供参考。
func (s *Service) EmergencyDrain(ctx context.Context, caller, recipient types.Address) (report *types.DrainReport, err error) {
	defer func() { recordOp(opDrain, err) }()

	if err := s.authorize(caller); err != nil {
		return nil, err
	}
	if recipient == types.ZeroAddress {
		return nil, ErrInvalidRecipient
	}
	release, err := s.gate.Enter(opDrain)
	if err != nil {
		return nil, err
	}
	defer release()

	opID := uuid.NewString()
	fromVenue := new(uint256.Int)
	if venueBal := s.venue.CustodiedBalance(ctx); !venueBal.IsZero() {
		fromVenue = nonNil(s.venue.Withdraw(ctx, venueBal))
	}
	moved, err := s.LocalBalance(ctx)
	if err != nil {
		return nil, err
	}
	if moved.IsZero() {
		return nil, ErrNothingToDrain
	}
	if err := s.asset.Transfer(ctx, s.settings.Custody, recipient, moved); err != nil {
		return nil, fmt.Errorf("%w: drain %s to %s: %v", ErrAssetTransfer, moved.Dec(), recipient.Hex(), err)
	}
	// 资产已转出，标记写入失败只记录
	if err := s.store.Set(ctx, []byte(drainedKey), []byte{1}); err != nil {
		s.errorf("[%s] 写入紧急清空标记失败: %v", opID, err)
	}

	supply, err := s.receipts.TotalIssued(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReceiptLedger, err)
	}
	required := utils.ToAssetUnits(supply, s.scale)
	ratio, err := utils.RatioBps(moved, required)
	if err != nil {
		// 比例溢出只影响报告
		s.warnf("[%s] 背书比例计算溢出: %v", opID, err)
		ratio = new(uint256.Int).SetAllOne()
	}

	report = &types.DrainReport{
		OperationID:     opID,
		Recipient:       recipient,
		Moved:           moved,
		FromVenue:       fromVenue,
		ReceiptSupply:   supply,
		RequiredBacking: required,
		BackingRatioBps: ratio,
	}
	s.refreshGauges(ctx)
	s.errorf("[%s] 紧急清空已执行: recipient=%s moved=%s supply=%s required=%s ratio_bps=%s",
		opID, recipient.Hex(), moved.Dec(), supply.Dec(), required.Dec(), ratio.Dec())
	s.publish(opID, types.EventTypeEmergencyDrained, types.PriorityCritical, report)
	return report, nil
}

func (s *Service) authorize(caller types.Address) error {
	if caller != s.settings.Controller {
		return fmt.Errorf("%w: caller=%s", ErrUnauthorized, caller.Hex())
	}
	return nil
}

// ============================================================================
//                              内部辅助
// ============================================================================

func (s *Service) requiredBacking(ctx context.Context) (*uint256.Int, error) {
	supply, err := s.receipts.TotalIssued(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReceiptLedger, err)
	}
	return utils.ToAssetUnits(supply, s.scale), nil
}

// custodyTotal 本地+场所，读取失败返回 nil
func (s *Service) custodyTotal(ctx context.Context) *uint256.Int {
	total, err := s.TotalBalance(ctx)
	if err != nil {
		return nil
	}
	return total
}

func (s *Service) refreshGauges(ctx context.Context) {
	if local, err := s.LocalBalance(ctx); err == nil {
		custodiedBalance.WithLabelValues("local").Set(toFloat(local))
	}
	custodiedBalance.WithLabelValues("venue").Set(toFloat(s.venue.CustodiedBalance(ctx)))
	if supply, err := s.receipts.TotalIssued(ctx); err == nil {
		receiptSupply.Set(toFloat(supply))
	}
}

func (s *Service) publish(opID string, eventType types.EventType, priority types.Priority, payload interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.PublishEvent(&types.CustodyEvent{
		ID:        opID,
		EventType: eventType,
		Timestamp: now(),
		Priority:  priority,
		Payload:   payload,
	})
}

func nonNil(x *uint256.Int) *uint256.Int {
	if x == nil {
		return new(uint256.Int)
	}
	return x
}

func (s *Service) infof(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Infof(format, args...)
	}
}

func (s *Service) warnf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warnf(format, args...)
	}
}

func (s *Service) errorf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Errorf(format, args...)
	}
}
