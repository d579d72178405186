package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// The functions below are the exact arithmetic primitive behind Number.
// Each one receives its scale explicitly and truncates the result to it,
// so no rounding state is shared between calls.

// maxPowExponent bounds |exponent| in decPow; the exact power grows linearly with it.
const maxPowExponent = 1000

// decimalOp is the shape shared by every binary primitive.
type decimalOp func(a, b decimal.Decimal, scale int32) (decimal.Decimal, error)

func decAdd(a, b decimal.Decimal, scale int32) (decimal.Decimal, error) {
	return a.Add(b).Truncate(scale), nil
}

func decSub(a, b decimal.Decimal, scale int32) (decimal.Decimal, error) {
	return a.Sub(b).Truncate(scale), nil
}

func decMul(a, b decimal.Decimal, scale int32) (decimal.Decimal, error) {
	return a.Mul(b).Truncate(scale), nil
}

func decDiv(a, b decimal.Decimal, scale int32) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, newArithmeticError("Division by zero")
	}
	q, _ := a.QuoRem(b, scale)
	return q, nil
}

// decMod returns the remainder of the truncated integer division a / b.
// The result carries the sign of the dividend.
func decMod(a, b decimal.Decimal, scale int32) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, newArithmeticError("Modulo by zero")
	}
	return a.Mod(b).Truncate(scale), nil
}

// decPow raises a to an integral exponent. Negative exponents divide one by
// the positive power at the requested scale.
func decPow(a, exp decimal.Decimal, scale int32) (decimal.Decimal, error) {
	if !exp.IsInteger() {
		return decimal.Zero, newArithmeticError("Exponent cannot have a fractional part, %s given", exp.String())
	}

	n := exp.BigInt()
	if n.CmpAbs(big.NewInt(maxPowExponent)) > 0 {
		return decimal.Zero, newArithmeticError("Exponent must be between -%d and %d, %s given", maxPowExponent, maxPowExponent, exp.String())
	}
	negative := n.Sign() < 0
	n.Abs(n)

	if negative && a.IsZero() {
		return decimal.Zero, newArithmeticError("Negative power of zero")
	}

	result := decimal.NewFromInt(1)
	base := a
	for n.Sign() > 0 {
		if n.Bit(0) == 1 {
			result = result.Mul(base)
		}
		n.Rsh(n, 1)
		if n.Sign() > 0 {
			base = base.Mul(base)
		}
	}

	if negative {
		return decDiv(decimal.NewFromInt(1), result, scale)
	}
	return result.Truncate(scale), nil
}

// decSqrt returns the square root of a truncated to scale digits.
// It works on the integer a×10^(2·scale) so the root is exact up to the last digit.
func decSqrt(a decimal.Decimal, scale int32) (decimal.Decimal, error) {
	if a.IsNegative() {
		return decimal.Zero, newArithmeticError("It is not possible to square a value of a negative number.")
	}

	shifted := a.Shift(2 * scale).Truncate(0).BigInt()
	root := new(big.Int).Sqrt(shifted)

	return decimal.NewFromBigInt(root, -scale), nil
}
