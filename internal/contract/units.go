package contract

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/GTsubekti/madrasah-defi/internal/model"
)

// ParseUnits 把展示单位的十进制字符串转换成代币定点整数
// 小数位数超过decimals时视为非法输入
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, model.ErrInvalidAmount
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, model.ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return nil, model.ErrInvalidAmount
	}
	if len(fracPart) > int(decimals) {
		return nil, fmt.Errorf("%w: more than %d decimal places", model.ErrInvalidAmount, decimals)
	}

	// 补齐小数部分到decimals位后拼成整数
	fracPart += strings.Repeat("0", int(decimals)-len(fracPart))
	value, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, model.ErrInvalidAmount
	}
	return value, nil
}

// FormatUnits 把代币定点整数格式化成展示单位的十进制字符串
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	if decimals == 0 {
		return value.String()
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	quo, rem := new(big.Int).QuoRem(value, divisor, new(big.Int))

	neg := rem.Sign() < 0
	rem.Abs(rem)

	remStr := rem.String()
	if len(remStr) < int(decimals) {
		remStr = strings.Repeat("0", int(decimals)-len(remStr)) + remStr
	}
	frac := strings.TrimRight(remStr, "0")
	out := quo.String()
	if neg && quo.Sign() == 0 {
		out = "-" + out
	}
	if frac == "" {
		return out
	}
	return out + "." + frac
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
