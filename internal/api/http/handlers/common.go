// Package handlers provides HTTP API handlers for the custody vault
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/custody/internal/core/custody/vault"
)

// ==================== 标准API响应结构 ====================

// StandardAPIResponse 标准API响应格式
type StandardAPIResponse struct {
	Success bool        `json:"success"`           // 操作是否成功
	Data    interface{} `json:"data,omitempty"`    // 响应数据（成功时）
	Message string      `json:"message,omitempty"` // 成功消息或简要说明
	Error   *APIError   `json:"error,omitempty"`   // 错误信息（失败时）
}

// APIError 标准错误结构
type APIError struct {
	Code    string `json:"code"`              // 错误代码（用于程序化处理）
	Message string `json:"message"`           // 用户友好的错误消息
	Details string `json:"details,omitempty"` // 详细错误信息（调试用）
}

// ==================== 错误代码常量 ====================

// 请求相关错误
const (
	ErrorCodeInvalidJSON    = "INVALID_JSON"
	ErrorCodeInvalidAddress = "INVALID_ADDRESS"
	ErrorCodeInvalidAmount  = "INVALID_AMOUNT"
	ErrorCodeMissingCaller  = "MISSING_CALLER"
)

// 金库拒绝
const (
	ErrorCodeInvalidCaller       = "INVALID_CALLER"
	ErrorCodeInvalidRecipient    = "INVALID_RECIPIENT"
	ErrorCodeOutOfBounds         = "AMOUNT_OUT_OF_BOUNDS"
	ErrorCodeUnauthorized        = "UNAUTHORIZED"
	ErrorCodeInsufficientReceipt = "INSUFFICIENT_RECEIPTS"
	ErrorCodeNothingToReturn     = "NOTHING_TO_RETURN"
	ErrorCodeVenueBlocked        = "VENUE_WITHDRAW_BLOCKED"
	ErrorCodeNothingToSkim       = "NOTHING_TO_SKIM"
	ErrorCodeNothingToDrain      = "NOTHING_TO_DRAIN"
	ErrorCodePaused              = "VAULT_PAUSED"
	ErrorCodeBusy                = "VAULT_BUSY"
	ErrorCodeAssetTransfer       = "ASSET_TRANSFER_FAILED"
)

// 系统相关错误
const (
	ErrorCodeInternalError = "INTERNAL_ERROR"
)

// errorMapping 金库错误到 HTTP 状态与错误码的映射（按顺序匹配）
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{vault.ErrZeroAmount, http.StatusBadRequest, ErrorCodeInvalidAmount},
	{vault.ErrAmountOverflow, http.StatusBadRequest, ErrorCodeInvalidAmount},
	{vault.ErrInvalidCaller, http.StatusBadRequest, ErrorCodeInvalidCaller},
	{vault.ErrInvalidRecipient, http.StatusBadRequest, ErrorCodeInvalidRecipient},
	{vault.ErrBelowMinDeposit, http.StatusBadRequest, ErrorCodeOutOfBounds},
	{vault.ErrAboveMaxDeposit, http.StatusBadRequest, ErrorCodeOutOfBounds},
	{vault.ErrBelowMinWithdraw, http.StatusBadRequest, ErrorCodeOutOfBounds},
	{vault.ErrUnauthorized, http.StatusForbidden, ErrorCodeUnauthorized},
	{vault.ErrInsufficientReceipts, http.StatusUnprocessableEntity, ErrorCodeInsufficientReceipt},
	{vault.ErrNothingToReturn, http.StatusUnprocessableEntity, ErrorCodeNothingToReturn},
	{vault.ErrNothingToSkim, http.StatusUnprocessableEntity, ErrorCodeNothingToSkim},
	{vault.ErrNothingToDrain, http.StatusUnprocessableEntity, ErrorCodeNothingToDrain},
	{vault.ErrAssetTransfer, http.StatusUnprocessableEntity, ErrorCodeAssetTransfer},
	{vault.ErrVenueWithdrawBlocked, http.StatusServiceUnavailable, ErrorCodeVenueBlocked},
	{vault.ErrPaused, http.StatusConflict, ErrorCodePaused},
	{vault.ErrReentrant, http.StatusConflict, ErrorCodeBusy},
}

// classifyError 返回金库错误对应的 HTTP 状态与错误码
func classifyError(err error) (int, string) {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, ErrorCodeInternalError
}

func respondOK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, StandardAPIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func respondError(c *gin.Context, status int, code, message string, err error) {
	resp := StandardAPIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	}
	if err != nil {
		resp.Error.Details = err.Error()
		_ = c.Error(err)
	}
	c.JSON(status, resp)
}

// respondVaultError 按错误类别写入失败响应
func respondVaultError(c *gin.Context, message string, err error) {
	status, code := classifyError(err)
	respondError(c, status, code, message, err)
}
