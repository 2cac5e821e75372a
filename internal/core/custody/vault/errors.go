package vault

import (
	"errors"

	"github.com/weisyn/custody/pkg/interfaces/infrastructure/writegate"
)

// 配置错误（构造期）
var (
	ErrInvalidConfig = errors.New("vault: invalid config")
)

// 输入校验错误
var (
	ErrZeroAmount       = errors.New("vault: zero amount")
	ErrInvalidCaller    = errors.New("vault: invalid caller")
	ErrInvalidRecipient = errors.New("vault: recipient unset")
	ErrBelowMinDeposit  = errors.New("vault: amount below minimum deposit")
	ErrAboveMaxDeposit  = errors.New("vault: amount above maximum deposit")
	ErrBelowMinWithdraw = errors.New("vault: amount below minimum withdrawal")
	ErrAmountOverflow   = errors.New("vault: amount overflow")
)

// 授权错误
var (
	ErrUnauthorized = errors.New("vault: caller is not the controller")
)

// 状态错误
var (
	ErrInsufficientReceipts = errors.New("vault: insufficient receipt balance")
	ErrNothingToReturn      = errors.New("vault: nothing to return")
	ErrVenueWithdrawBlocked = errors.New("vault: local custody short and venue withdrawal blocked")
	ErrNothingToSkim        = errors.New("vault: nothing to skim")
	ErrNothingToDrain       = errors.New("vault: nothing to drain")
	ErrPaused               = writegate.ErrPaused
	ErrReentrant            = writegate.ErrReentrant
)

// 协作方错误：资产拉取失败、回执发行失败（发行方配置错误）等
var (
	ErrAssetTransfer = errors.New("vault: asset transfer failed")
	ErrReceiptLedger = errors.New("vault: receipt ledger rejected the operation")
	ErrStateStore    = errors.New("vault: state store failure")
	// ErrBackingShortfall 恢复出的托管资产不足以背书回执发行总量
	ErrBackingShortfall = errors.New("vault: restored custody does not back receipt supply")
)

// rejections 调用方可预期的拒绝（不含协作方故障）
var rejections = []error{
	ErrZeroAmount, ErrInvalidCaller, ErrInvalidRecipient,
	ErrBelowMinDeposit, ErrAboveMaxDeposit, ErrBelowMinWithdraw, ErrAmountOverflow,
	ErrUnauthorized,
	ErrInsufficientReceipts, ErrNothingToReturn, ErrVenueWithdrawBlocked,
	ErrNothingToSkim, ErrNothingToDrain, ErrPaused, ErrReentrant,
}

// IsRejection 判断错误是否属于输入、授权或状态类拒绝
func IsRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
