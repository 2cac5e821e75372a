package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/custody/internal/api/http/handlers"
	"github.com/weisyn/custody/pkg/types"
)

const statusTimeout = 5 * time.Second

// statusCmd 查询运行中服务的金库状态
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "查询金库状态",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
		defer cancel()

		snap, err := fetchSnapshot(ctx, globalFlags.Endpoint)
		if err != nil {
			return err
		}
		return renderSnapshot(snap)
	},
}

// fetchSnapshot 调用 GET /v1/vault
func fetchSnapshot(ctx context.Context, endpoint string) (*types.VaultSnapshot, error) {
	url := strings.TrimRight(endpoint, "/") + "/v1/vault"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求金库服务失败: %w", err)
	}
	defer resp.Body.Close()

	var env struct {
		Success bool                `json:"success"`
		Data    types.VaultSnapshot `json:"data"`
		Error   *handlers.APIError  `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	if !env.Success {
		if env.Error != nil {
			return nil, fmt.Errorf("金库服务返回错误 %s: %s", env.Error.Code, env.Error.Message)
		}
		return nil, fmt.Errorf("金库服务返回错误: HTTP %d", resp.StatusCode)
	}
	return &env.Data, nil
}

func renderSnapshot(s *types.VaultSnapshot) error {
	data := [][]string{
		{"项目", "值"},
		{"暂停", fmt.Sprint(s.Paused)},
		{"操作进行中", fmt.Sprint(s.Busy)},
		{"换算系数", dec(s.Scale)},
		{"本地余额", dec(s.LocalBalance)},
		{"场所余额", dec(s.VenueBalance)},
		{"托管合计", dec(s.TotalBalance)},
		{"回执发行量", dec(s.ReceiptSupply)},
		{"所需支撑", dec(s.RequiredBacking)},
		{"累计收益", dec(s.AccumulatedYield)},
		{"收益率(bps)", dec(s.YieldRateBps)},
		{"场所", s.Venue.Venue},
		{"场所暂停/冻结", fmt.Sprintf("%v/%v", s.Venue.Paused, s.Venue.Frozen)},
		{"场所存入/取回阻塞", fmt.Sprintf("%v/%v", s.Venue.DepositBlocked, s.Venue.WithdrawBlocked)},
	}
	return pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(data).Render()
}

func dec(v *uint256.Int) string {
	if v == nil {
		return "-"
	}
	return v.Dec()
}
