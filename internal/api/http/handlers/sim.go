package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"

	custodyif "github.com/weisyn/custody/pkg/interfaces/custody"
	"github.com/weisyn/custody/pkg/types"
	"github.com/weisyn/custody/pkg/utils"
)

// FundRequest 模拟资产发放请求
type FundRequest struct {
	Holder string `json:"holder" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// FundResponse 发放结果
type FundResponse struct {
	Holder types.Address `json:"holder"`
	Amount *uint256.Int  `json:"amount"`
}

// TuneVenueResponse 场所调整结果
type TuneVenueResponse struct {
	Accrued *uint256.Int      `json:"accrued"`
	Venue   types.VenueStatus `json:"venue"`
}

// SimHandlers 模拟环境管理处理器（仅开发模式注册）
//
// 与金库写操作共用同一个 sequencer。
type SimHandlers struct {
	vault *VaultHandlers
	sim   custodyif.Simulator
}

// NewSimHandlers 创建模拟环境处理器
func NewSimHandlers(vault *VaultHandlers, sim custodyif.Simulator) *SimHandlers {
	return &SimHandlers{vault: vault, sim: sim}
}

// RegisterRoutes 注册 /sim 路由
func (h *SimHandlers) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/sim")
	g.POST("/fund", h.Fund)
	g.POST("/venue", h.TuneVenue)
}

// Fund 向持有人发放模拟资产并授权托管账户
func (h *SimHandlers) Fund(c *gin.Context) {
	caller, ok := h.vault.caller(c)
	if !ok {
		return
	}
	var req FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "请求体无效", err)
		return
	}
	holder, ok := parseAddress(req.Holder)
	if !ok {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidAddress, "持有人地址无效", nil)
		return
	}
	amount, err := utils.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidAmount, "金额格式无效", err)
		return
	}

	h.vault.write(c, "发放失败", func(ctx context.Context) (interface{}, error) {
		if err := h.sim.Faucet(ctx, caller, holder, amount); err != nil {
			return nil, err
		}
		return FundResponse{Holder: holder, Amount: amount}, nil
	})
}

// TuneVenue 调整模拟场所故障旋钮，可选计息
func (h *SimHandlers) TuneVenue(c *gin.Context) {
	caller, ok := h.vault.caller(c)
	if !ok {
		return
	}
	var knobs types.VenueKnobs
	if err := c.ShouldBindJSON(&knobs); err != nil {
		respondError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "请求体无效", err)
		return
	}

	h.vault.write(c, "调整模拟场所失败", func(ctx context.Context) (interface{}, error) {
		accrued, err := h.sim.TuneVenue(ctx, caller, knobs)
		if err != nil {
			return nil, err
		}
		return TuneVenueResponse{Accrued: accrued, Venue: h.vault.vault.VenueStatus(ctx)}, nil
	})
}
