package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"

	custodyif "github.com/weisyn/custody/pkg/interfaces/custody"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/custody/pkg/types"
	"github.com/weisyn/custody/pkg/utils"
)

// DepositRequest 存入请求（资产最小单位，十进制字符串）
type DepositRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// WithdrawRequest 取回请求（回执最小单位，十进制字符串）
type WithdrawRequest struct {
	ReceiptAmount string `json:"receipt_amount" binding:"required"`
}

// RecipientRequest 收益提取/紧急清空请求
type RecipientRequest struct {
	Recipient string `json:"recipient" binding:"required"`
}

// ReceiptBalanceResponse 回执余额查询结果
type ReceiptBalanceResponse struct {
	Holder  types.Address `json:"holder"`
	Balance *uint256.Int  `json:"balance"`
}

// VaultHandlers 金库 HTTP 处理器
//
// 写操作在 sequencer 下串行执行：并发请求按到达顺序逐个进入金库，
// 金库自身的重入守卫只用于拒绝真正的重入。
type VaultHandlers struct {
	vault        custodyif.Vault
	callerHeader string
	logger       log.Logger

	sequencer sync.Mutex
}

// NewVaultHandlers 创建金库处理器
func NewVaultHandlers(v custodyif.Vault, callerHeader string, logger log.Logger) *VaultHandlers {
	if callerHeader == "" {
		callerHeader = "X-Caller"
	}
	return &VaultHandlers{vault: v, callerHeader: callerHeader, logger: logger}
}

// RegisterRoutes 注册金库路由
func (h *VaultHandlers) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/vault")
	g.GET("", h.GetSnapshot)
	g.GET("/receipt/:holder", h.GetReceiptBalance)
	g.GET("/venue", h.GetVenueStatus)

	g.POST("/deposit", h.Deposit)
	g.POST("/withdraw", h.Withdraw)
	g.POST("/pause", h.Pause)
	g.POST("/unpause", h.Unpause)
	g.POST("/skim", h.SkimYield)
	g.POST("/drain", h.EmergencyDrain)
}

// ==================== 只读查询 ====================

// GetSnapshot 金库状态快照
func (h *VaultHandlers) GetSnapshot(c *gin.Context) {
	snap, err := h.vault.Snapshot(c.Request.Context())
	if err != nil {
		respondVaultError(c, "读取金库状态失败", err)
		return
	}
	respondOK(c, snap, "")
}

// GetReceiptBalance 持有人回执余额
func (h *VaultHandlers) GetReceiptBalance(c *gin.Context) {
	holder, ok := parseAddress(c.Param("holder"))
	if !ok {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidAddress, "持有人地址无效", nil)
		return
	}
	bal, err := h.vault.ReceiptBalanceOf(c.Request.Context(), holder)
	if err != nil {
		respondVaultError(c, "读取回执余额失败", err)
		return
	}
	respondOK(c, ReceiptBalanceResponse{Holder: holder, Balance: bal}, "")
}

// GetVenueStatus 场所状态
func (h *VaultHandlers) GetVenueStatus(c *gin.Context) {
	respondOK(c, h.vault.VenueStatus(c.Request.Context()), "")
}

// ==================== 写操作 ====================

// Deposit 存入资产
func (h *VaultHandlers) Deposit(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "请求体无效", err)
		return
	}
	amount, err := utils.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidAmount, "金额格式无效", err)
		return
	}

	h.write(c, "存入失败", func(ctx context.Context) (interface{}, error) {
		return h.vault.Deposit(ctx, caller, amount)
	})
}

// Withdraw 取回资产
func (h *VaultHandlers) Withdraw(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "请求体无效", err)
		return
	}
	amount, err := utils.ParseAmount(req.ReceiptAmount)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidAmount, "金额格式无效", err)
		return
	}

	h.write(c, "取回失败", func(ctx context.Context) (interface{}, error) {
		return h.vault.Withdraw(ctx, caller, amount)
	})
}

// Pause 暂停存取
func (h *VaultHandlers) Pause(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	h.write(c, "暂停失败", func(ctx context.Context) (interface{}, error) {
		if err := h.vault.Pause(ctx, caller); err != nil {
			return nil, err
		}
		return gin.H{"paused": true}, nil
	})
}

// Unpause 恢复存取
func (h *VaultHandlers) Unpause(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	h.write(c, "恢复失败", func(ctx context.Context) (interface{}, error) {
		if err := h.vault.Unpause(ctx, caller); err != nil {
			return nil, err
		}
		return gin.H{"paused": false}, nil
	})
}

// SkimYield 提取收益
func (h *VaultHandlers) SkimYield(c *gin.Context) {
	caller, recipient, ok := h.callerAndRecipient(c)
	if !ok {
		return
	}
	h.write(c, "收益提取失败", func(ctx context.Context) (interface{}, error) {
		return h.vault.SkimYield(ctx, caller, recipient)
	})
}

// EmergencyDrain 紧急清空
func (h *VaultHandlers) EmergencyDrain(c *gin.Context) {
	caller, recipient, ok := h.callerAndRecipient(c)
	if !ok {
		return
	}
	h.write(c, "紧急清空失败", func(ctx context.Context) (interface{}, error) {
		return h.vault.EmergencyDrain(ctx, caller, recipient)
	})
}

// write 在 sequencer 下执行写操作并写入响应
func (h *VaultHandlers) write(c *gin.Context, failMsg string, op func(ctx context.Context) (interface{}, error)) {
	h.sequencer.Lock()
	result, err := op(c.Request.Context())
	h.sequencer.Unlock()

	if err != nil {
		status, _ := classifyError(err)
		if status >= http.StatusInternalServerError && h.logger != nil {
			h.logger.Errorf("%s: path=%s err=%v", failMsg, c.FullPath(), err)
		}
		respondVaultError(c, failMsg, err)
		return
	}
	respondOK(c, result, "")
}

// caller 从请求头读取调用者地址；缺失或无效时直接写入错误响应
func (h *VaultHandlers) caller(c *gin.Context) (types.Address, bool) {
	raw := c.GetHeader(h.callerHeader)
	if strings.TrimSpace(raw) == "" {
		respondError(c, http.StatusBadRequest, ErrorCodeMissingCaller, "缺少调用者请求头 "+h.callerHeader, nil)
		return types.ZeroAddress, false
	}
	addr, ok := parseAddress(raw)
	if !ok {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidAddress, "调用者地址无效", nil)
		return types.ZeroAddress, false
	}
	return addr, true
}

func (h *VaultHandlers) callerAndRecipient(c *gin.Context) (types.Address, types.Address, bool) {
	caller, ok := h.caller(c)
	if !ok {
		return types.ZeroAddress, types.ZeroAddress, false
	}
	var req RecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "请求体无效", err)
		return types.ZeroAddress, types.ZeroAddress, false
	}
	recipient, ok := parseAddress(req.Recipient)
	if !ok {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidAddress, "接收地址无效", nil)
		return types.ZeroAddress, types.ZeroAddress, false
	}
	return caller, recipient, true
}

// parseAddress 解析十六进制地址；零地址交由金库按业务规则拒绝
func parseAddress(s string) (types.Address, bool) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return types.ZeroAddress, false
	}
	return common.HexToAddress(s), true
}
