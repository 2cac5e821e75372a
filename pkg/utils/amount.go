// Package utils 金额换算与数据路径等通用工具
package utils

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// ========================================
// 精度换算（资产 ↔ 回执代币）
// ========================================

var (
	// ErrAmountOverflow 金额运算溢出 uint256
	ErrAmountOverflow = errors.New("amount overflow")
	// ErrInvalidDecimals 精度配置无效
	ErrInvalidDecimals = errors.New("invalid decimals")
	// ErrInvalidAmount 金额字符串无效
	ErrInvalidAmount = errors.New("invalid amount")
)

// BpsDenominator 万分比分母
const BpsDenominator = 10_000

// ScaleFactor 计算精度换算系数 SCALE = 10^(receiptDecimals - assetDecimals)
//
// 回执代币精度必须不小于资产精度，否则换算会丢失资产精度。
//
// 参数：
//   - assetDecimals: 资产精度（如 6）
//   - receiptDecimals: 回执代币精度（如 18）
//
// 返回：
//   - *uint256.Int: 换算系数（两者相等时为 1）
//   - error: 精度配置无效
func ScaleFactor(assetDecimals, receiptDecimals uint8) (*uint256.Int, error) {
	if receiptDecimals < assetDecimals {
		return nil, fmt.Errorf("%w: receipt decimals %d < asset decimals %d", ErrInvalidDecimals, receiptDecimals, assetDecimals)
	}
	diff := receiptDecimals - assetDecimals
	if diff > 77 {
		return nil, fmt.Errorf("%w: decimals gap %d exceeds uint256", ErrInvalidDecimals, diff)
	}
	return Pow10(diff), nil
}

// Pow10 返回 10^n（n <= 77）
func Pow10(n uint8) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n)))
}

// ToReceiptUnits 资产金额换算为回执代币金额：amount * scale
//
// 发行量必须精确，溢出时返回 ErrAmountOverflow 而不是截断。
func ToReceiptUnits(amount, scale *uint256.Int) (*uint256.Int, error) {
	out, overflow := new(uint256.Int).MulOverflow(amount, scale)
	if overflow {
		return nil, fmt.Errorf("%w: %s * %s", ErrAmountOverflow, amount.Dec(), scale.Dec())
	}
	return out, nil
}

// ToAssetUnits 回执代币金额换算为资产金额：floor(receipt / scale)
//
// 整数除法向零截断，余数（粉尘）留在金库中继续为其他持有人背书。
func ToAssetUnits(receipt, scale *uint256.Int) *uint256.Int {
	return new(uint256.Int).Div(receipt, scale)
}

// MulDiv 安全的乘除运算：(x * y) / d，中间结果使用 512 位避免溢出
//
// 返回：
//   - *uint256.Int: 计算结果
//   - error: 除数为零或结果溢出
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, errors.New("division by zero")
	}
	out, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, fmt.Errorf("%w: (%s * %s) / %s", ErrAmountOverflow, x.Dec(), y.Dec(), d.Dec())
	}
	return out, nil
}

// RatioBps 计算 numerator / denominator 的万分比，分母为零时返回 0
func RatioBps(numerator, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return new(uint256.Int), nil
	}
	return MulDiv(numerator, uint256.NewInt(BpsDenominator), denominator)
}

// Min 返回较小值（新对象）
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Cmp(b) <= 0 {
		return new(uint256.Int).Set(a)
	}
	return new(uint256.Int).Set(b)
}

// SaturatingSub 返回 max(a-b, 0)
func SaturatingSub(a, b *uint256.Int) *uint256.Int {
	if a.Cmp(b) <= 0 {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(a, b)
}

// ========================================
// 解析与格式化
// ========================================

// ParseAmount 解析十进制整数字符串（最小单位）
//
// 空字符串视为 0。
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(uint256.Int), nil
	}
	out, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}
	return out, nil
}

// ParseUnits 解析带小数的金额字符串为最小单位（如 "1.5", 6 → 1500000）
//
// 使用 big.Rat 无损解析，小数位超过精度时报错而不是舍入。
func ParseUnits(s string, decimals uint8) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(uint256.Int), nil
	}
	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if rat.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative amount %q", ErrInvalidAmount, s)
	}
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	rat.Mul(rat, new(big.Rat).SetInt(unit))
	if !rat.IsInt() {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidAmount, s, decimals)
	}
	out, overflow := uint256.FromBig(rat.Num())
	if overflow {
		return nil, fmt.Errorf("%w: %q", ErrAmountOverflow, s)
	}
	return out, nil
}

// FormatUnits 将最小单位金额格式化为可读小数（去除末尾0）
//
// 例如：1500000, 6 → "1.5"；1000000, 6 → "1.0"
func FormatUnits(amount *uint256.Int, decimals uint8) string {
	if amount == nil {
		return "0.0"
	}
	if decimals == 0 {
		return amount.Dec() + ".0"
	}
	unit := Pow10(decimals)
	integerPart := new(uint256.Int).Div(amount, unit)
	fractionalPart := new(uint256.Int).Mod(amount, unit)
	if fractionalPart.IsZero() {
		return integerPart.Dec() + ".0"
	}
	frac := fractionalPart.Dec()
	frac = strings.Repeat("0", int(decimals)-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")
	return integerPart.Dec() + "." + frac
}
