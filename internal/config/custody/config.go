// Package custody 提供金库配置
package custody

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/weisyn/custody/pkg/types"
	"github.com/weisyn/custody/pkg/utils"
)

// ErrInvalidConfig 金库配置无效（构造期致命错误）
var ErrInvalidConfig = errors.New("invalid custody config")

// CustodyOptions 金库配置选项
type CustodyOptions struct {
	// === 身份配置（构造后不可变） ===
	CustodyAddress    string `json:"custody_address"`    // 金库托管账户
	ControllerAddress string `json:"controller_address"` // 控制者
	AssetAddress      string `json:"asset_address"`      // 托管资产

	// === 精度配置 ===
	AssetDecimals   uint8 `json:"asset_decimals"`
	ReceiptDecimals uint8 `json:"receipt_decimals"`

	// === 回执代币元数据 ===
	ReceiptName   string `json:"receipt_name"`
	ReceiptSymbol string `json:"receipt_symbol"`

	// === 存取边界（十进制整数字符串，空为不限制） ===
	MinDeposit  string `json:"min_deposit"`
	MaxDeposit  string `json:"max_deposit"`
	MinWithdraw string `json:"min_withdraw"`

	// === 场所配置 ===
	VenueKind    string `json:"venue_kind"`
	VenueAddress string `json:"venue_address"`
}

// Bounds 解析后的存取边界，nil 表示不限制
type Bounds struct {
	MinDeposit  *uint256.Int
	MaxDeposit  *uint256.Int
	MinWithdraw *uint256.Int
}

// Config 金库配置实现
type Config struct {
	options *CustodyOptions
}

// New 创建金库配置实现
func New(userConfig interface{}) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultCustodyOptions()

	// 2. 如果有用户配置，应用用户配置覆盖默认值
	if userConfig != nil {
		applyUserCustodyConfig(defaultOptions, userConfig)
	}

	return &Config{options: defaultOptions}
}

// NewFromOptions 从完整选项创建配置
func NewFromOptions(options *CustodyOptions) *Config {
	return &Config{options: options}
}

// createDefaultCustodyOptions 创建默认金库配置
func createDefaultCustodyOptions() *CustodyOptions {
	return &CustodyOptions{
		CustodyAddress:    defaultCustodyAddress,
		ControllerAddress: defaultControllerAddress,
		AssetAddress:      defaultAssetAddress,
		AssetDecimals:     defaultAssetDecimals,
		ReceiptDecimals:   defaultReceiptDecimals,
		ReceiptName:       defaultReceiptName,
		ReceiptSymbol:     defaultReceiptSymbol,
		MinDeposit:        defaultMinDeposit,
		MaxDeposit:        defaultMaxDeposit,
		MinWithdraw:       defaultMinWithdraw,
		VenueKind:         defaultVenueKind,
		VenueAddress:      defaultVenueAddress,
	}
}

// applyUserCustodyConfig 应用用户金库配置覆盖默认值
func applyUserCustodyConfig(options *CustodyOptions, userConfig interface{}) {
	cfg, ok := userConfig.(*types.UserCustodyConfig)
	if !ok || cfg == nil {
		return
	}
	if cfg.CustodyAddress != nil {
		options.CustodyAddress = *cfg.CustodyAddress
	}
	if cfg.ControllerAddress != nil {
		options.ControllerAddress = *cfg.ControllerAddress
	}
	if cfg.AssetAddress != nil {
		options.AssetAddress = *cfg.AssetAddress
	}
	if cfg.AssetDecimals != nil {
		options.AssetDecimals = *cfg.AssetDecimals
	}
	if cfg.ReceiptDecimals != nil {
		options.ReceiptDecimals = *cfg.ReceiptDecimals
	}
	if cfg.ReceiptName != nil {
		options.ReceiptName = *cfg.ReceiptName
	}
	if cfg.ReceiptSymbol != nil {
		options.ReceiptSymbol = *cfg.ReceiptSymbol
	}
	if cfg.MinDeposit != nil {
		options.MinDeposit = *cfg.MinDeposit
	}
	if cfg.MaxDeposit != nil {
		options.MaxDeposit = *cfg.MaxDeposit
	}
	if cfg.MinWithdraw != nil {
		options.MinWithdraw = *cfg.MinWithdraw
	}
	if cfg.Venue != nil {
		if cfg.Venue.Kind != nil {
			options.VenueKind = strings.ToLower(strings.TrimSpace(*cfg.Venue.Kind))
		}
		if cfg.Venue.Address != nil {
			options.VenueAddress = *cfg.Venue.Address
		}
	}
}

// GetOptions 获取完整的金库配置选项
func (c *Config) GetOptions() *CustodyOptions {
	return c.options
}

// Validate 校验配置：所有必需地址已设置，精度可换算，边界可解析且自洽
func (c *Config) Validate() error {
	o := c.options
	for name, addr := range map[string]string{
		"custody_address":    o.CustodyAddress,
		"controller_address": o.ControllerAddress,
		"asset_address":      o.AssetAddress,
		"venue_address":      o.VenueAddress,
	} {
		if _, err := parseAddress(addr); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
		}
	}
	if _, err := utils.ScaleFactor(o.AssetDecimals, o.ReceiptDecimals); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch o.VenueKind {
	case VenueKindPool, VenueKindRegistry, VenueKindComet:
	default:
		return fmt.Errorf("%w: unknown venue kind %q", ErrInvalidConfig, o.VenueKind)
	}
	bounds, err := c.Bounds()
	if err != nil {
		return err
	}
	if bounds.MinDeposit != nil && bounds.MaxDeposit != nil && bounds.MinDeposit.Gt(bounds.MaxDeposit) {
		return fmt.Errorf("%w: min_deposit %s > max_deposit %s", ErrInvalidConfig, bounds.MinDeposit.Dec(), bounds.MaxDeposit.Dec())
	}
	return nil
}

// === 访问方法 ===

// CustodyAddress 金库托管账户地址
func (c *Config) CustodyAddress() types.Address { return mustAddress(c.options.CustodyAddress) }

// ControllerAddress 控制者地址
func (c *Config) ControllerAddress() types.Address { return mustAddress(c.options.ControllerAddress) }

// AssetAddress 资产地址
func (c *Config) AssetAddress() types.Address { return mustAddress(c.options.AssetAddress) }

// VenueAddress 场所地址
func (c *Config) VenueAddress() types.Address { return mustAddress(c.options.VenueAddress) }

// VenueKind 场所形态
func (c *Config) VenueKind() string { return c.options.VenueKind }

// Bounds 解析存取边界
func (c *Config) Bounds() (Bounds, error) {
	var b Bounds
	var err error
	if b.MinDeposit, err = parseBound(c.options.MinDeposit); err != nil {
		return Bounds{}, fmt.Errorf("%w: min_deposit: %v", ErrInvalidConfig, err)
	}
	if b.MaxDeposit, err = parseBound(c.options.MaxDeposit); err != nil {
		return Bounds{}, fmt.Errorf("%w: max_deposit: %v", ErrInvalidConfig, err)
	}
	if b.MinWithdraw, err = parseBound(c.options.MinWithdraw); err != nil {
		return Bounds{}, fmt.Errorf("%w: min_withdraw: %v", ErrInvalidConfig, err)
	}
	return b, nil
}

func parseBound(s string) (*uint256.Int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return utils.ParseAmount(s)
}

// parseAddress 解析并校验地址，零地址视为未设置
func parseAddress(s string) (types.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.ZeroAddress, errors.New("address unset")
	}
	if !common.IsHexAddress(s) {
		return types.ZeroAddress, fmt.Errorf("invalid address %q", s)
	}
	addr := common.HexToAddress(s)
	if addr == types.ZeroAddress {
		return types.ZeroAddress, errors.New("address unset")
	}
	return addr, nil
}

func mustAddress(s string) types.Address {
	addr, err := parseAddress(s)
	if err != nil {
		return types.ZeroAddress
	}
	return addr
}
