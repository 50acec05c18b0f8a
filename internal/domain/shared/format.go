package shared

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// weiPerEther is the scale between the ledger's smallest unit and the
// display unit (18 decimal places).
var weiPerEther = decimal.New(1, 18)

// FormatNative renders an amount in the ledger's smallest unit (wei) as a
// display-unit string, e.g. 1500000000000000000 -> "1.5".
func FormatNative(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, 0).Div(weiPerEther).String()
}

// ParseNative parses a display-unit amount (e.g. "1.5") into the ledger's
// smallest unit. It rejects negative, zero, and sub-wei precision amounts.
func ParseNative(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, NewValidationError("amount", "must be a decimal number")
	}
	if d.Sign() <= 0 {
		return nil, NewValidationError("amount", "must be greater than zero")
	}
	wei := d.Mul(weiPerEther)
	if !wei.IsInteger() {
		return nil, NewValidationError("amount", "has more than 18 decimal places")
	}
	return wei.BigInt(), nil
}

// ShortenHex abbreviates a hex-encoded identifier (address or CID) for
// display, keeping the leading and trailing characters.
func ShortenHex(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:8] + "..." + s[len(s)-4:]
}
