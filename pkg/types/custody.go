// Package types provides custody vault value types.
package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Address 账户标识（持有人、控制者、托管账户、场所、资产）
// 零地址表示"未设置"
type Address = common.Address

// ZeroAddress 未设置的地址
var ZeroAddress = common.Address{}

// ==================== 场所存入结果 ====================

// DepositStatus 场所存入尝试的结果分类
type DepositStatus string

const (
	DepositSucceeded DepositStatus = "succeeded" // 场所已接收（可能部分成交）
	DepositBlocked   DepositStatus = "blocked"   // 场所暂停或冻结，未发生转账
	DepositFailed    DepositStatus = "failed"    // 场所调用出错，未发生转账
)

// FallbackReason 本地托管回退的原因标签
type FallbackReason string

const (
	FallbackNone       FallbackReason = ""
	FallbackPaused     FallbackReason = "paused"
	FallbackFrozen     FallbackReason = "frozen"
	FallbackCallFailed FallbackReason = "call_failed"
)

// DepositOutcome 场所适配器返回的存入结果
//
// Accepted + Returned == 请求金额（Succeeded 时）；
// Blocked 时两者均为 0，资产保留在本地托管。
// Failed 时 Accepted 为实际转出金额（正常为 0）。
type DepositOutcome struct {
	Status   DepositStatus
	Reason   FallbackReason
	Accepted *uint256.Int
	Returned *uint256.Int
	Err      error // Failed 时的底层原因，仅用于日志
}

// IsPartial 场所是否只接收了部分金额
func (o DepositOutcome) IsPartial() bool {
	return o.Status == DepositSucceeded && o.Returned != nil && !o.Returned.IsZero()
}

// VenueStatus 场所暂停/冻结状态快照
type VenueStatus struct {
	Venue           string `json:"venue"`
	Paused          bool   `json:"paused"`
	Frozen          bool   `json:"frozen"`
	DepositBlocked  bool   `json:"deposit_blocked"`
	WithdrawBlocked bool   `json:"withdraw_blocked"`
}

// ==================== 操作回执 ====================

// DepositReceipt 存入操作回执
type DepositReceipt struct {
	OperationID   string         `json:"operation_id"`
	Depositor     Address        `json:"depositor"`
	Amount        *uint256.Int   `json:"amount"`
	Minted        *uint256.Int   `json:"minted"`
	Forwarded     *uint256.Int   `json:"forwarded"`
	RetainedLocal *uint256.Int   `json:"retained_local"`
	Venue         DepositStatus  `json:"venue_status"`
	Fallback      FallbackReason `json:"fallback_reason,omitempty"`
}

// WithdrawalReceipt 取回操作回执
//
// Paid 可能小于 Owed：场所未足额返还时按实际可用金额支付，
// 已销毁的回执代币不会恢复。
type WithdrawalReceipt struct {
	OperationID string       `json:"operation_id"`
	Holder      Address      `json:"holder"`
	Burned      *uint256.Int `json:"burned"`
	Owed        *uint256.Int `json:"owed"`
	Paid        *uint256.Int `json:"paid"`
	FromVenue   *uint256.Int `json:"from_venue"`
}

// Shortfall 应付与实付之差
func (r *WithdrawalReceipt) Shortfall() *uint256.Int {
	if r.Paid.Cmp(r.Owed) >= 0 {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(r.Owed, r.Paid)
}

// SkimReceipt 收益提取回执
type SkimReceipt struct {
	OperationID string       `json:"operation_id"`
	Recipient   Address      `json:"recipient"`
	Skimmed     *uint256.Int `json:"skimmed"`
	Required    *uint256.Int `json:"required"`
	Available   *uint256.Int `json:"available"`
	FromVenue   *uint256.Int `json:"from_venue"`
}

// DrainReport 紧急清空报告（仅信息性，不做强制校验）
//
// BackingRatioBps 以万分比表示：10000 即 100%。
type DrainReport struct {
	OperationID     string       `json:"operation_id"`
	Recipient       Address      `json:"recipient"`
	Moved           *uint256.Int `json:"moved"`
	FromVenue       *uint256.Int `json:"from_venue"`
	ReceiptSupply   *uint256.Int `json:"receipt_supply"`
	RequiredBacking *uint256.Int `json:"required_backing"`
	BackingRatioBps *uint256.Int `json:"backing_ratio_bps"`
}

// VaultSnapshot 金库只读状态快照
type VaultSnapshot struct {
	Paused           bool         `json:"paused"`
	Busy             bool         `json:"busy"`
	Scale            *uint256.Int `json:"scale"`
	LocalBalance     *uint256.Int `json:"local_balance"`
	VenueBalance     *uint256.Int `json:"venue_balance"`
	TotalBalance     *uint256.Int `json:"total_balance"`
	ReceiptSupply    *uint256.Int `json:"receipt_supply"`
	RequiredBacking  *uint256.Int `json:"required_backing"`
	AccumulatedYield *uint256.Int `json:"accumulated_yield"`
	YieldRateBps     *uint256.Int `json:"yield_rate_bps"`
	Venue            VenueStatus  `json:"venue"`
}

// ==================== 通知事件 ====================

// 金库通知事件类型
const (
	EventTypeDepositCompleted    EventType = "custody.deposit.completed"
	EventTypeVenueFallback       EventType = "custody.venue.fallback"
	EventTypeVenuePartialFill    EventType = "custody.venue.partial_fill"
	EventTypeWithdrawalCompleted EventType = "custody.withdrawal.completed"
	EventTypeYieldSkimmed        EventType = "custody.yield.skimmed"
	EventTypeEmergencyDrained    EventType = "custody.emergency.drained"
	EventTypePauseChanged        EventType = "custody.pause.changed"
)

// VenueFallbackEvent 存入回退到本地托管
//
// 场所调用失败前可能已转走部分资产，Forwarded 与 RetainedLocal 以托管余额变化为准。
type VenueFallbackEvent struct {
	OperationID   string         `json:"operation_id"`
	Amount        *uint256.Int   `json:"amount"`
	Forwarded     *uint256.Int   `json:"forwarded"`
	RetainedLocal *uint256.Int   `json:"retained_local"`
	Reason        FallbackReason `json:"reason"`
}

// VenuePartialFillEvent 场所部分成交
type VenuePartialFillEvent struct {
	OperationID string       `json:"operation_id"`
	Requested   *uint256.Int `json:"requested"`
	Accepted    *uint256.Int `json:"accepted"`
	Returned    *uint256.Int `json:"returned"`
}

// PauseChangedEvent 暂停状态变更
type PauseChangedEvent struct {
	Paused bool    `json:"paused"`
	By     Address `json:"by"`
}

// VenueKnobs 模拟场所旋钮，nil 字段保持不变
type VenueKnobs struct {
	Paused          *bool   `json:"paused,omitempty"`
	Frozen          *bool   `json:"frozen,omitempty"`
	SupplyFailure   *bool   `json:"supply_failure,omitempty"`
	WithdrawFailure *bool   `json:"withdraw_failure,omitempty"`
	SupplyFillBps   *uint64 `json:"supply_fill_bps,omitempty"`
	WithdrawFillBps *uint64 `json:"withdraw_fill_bps,omitempty"`
	YieldBps        uint64  `json:"yield_bps,omitempty"`
}
