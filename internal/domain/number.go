package domain

import (
	"errors"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultScale is the number of fractional digits kept when none is requested
const DefaultScale int32 = 2

// MaxScale is the largest number of fractional digits a Number may keep
const MaxScale int32 = 100

// maxInputExponent bounds the decimal exponent of inputs such as "1e500".
// Rounding a value to a scale costs time proportional to the exponent gap.
const maxInputExponent = 1000

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	numericPattern    = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
	expressionPattern = regexp.MustCompile(`^[0-9.\-*/%^+()]*$`)
)

// Number is an immutable fixed-scale decimal value.
// The value is always rounded to exactly scale fractional digits and every
// arithmetic method returns a new Number carrying the receiver's scale.
//
// Inputs may be Go integers and floats, decimal.Decimal, another Number, or a
// string holding either a plain numeral or a restricted arithmetic expression
// such as "10 * (2 + 8)", "10^2" or "50%".
type Number struct {
	value decimal.Decimal
	scale int32
}

// Installment is a group of Count installments of the same Amount
type Installment struct {
	Amount Number
	Count  int
}

// NewNumber builds a Number from input rounded half away from zero to scale digits
func NewNumber(input interface{}, scale int32) (Number, error) {
	if scale < 0 {
		return Number{}, newArithmeticError("Scale must be a non-negative integer, %d given", scale)
	}
	if scale > MaxScale {
		return Number{}, newArithmeticError("Scale must not exceed %d, %d given", MaxScale, scale)
	}

	value, err := normalizeInput(input, nil)
	if err != nil {
		return Number{}, err
	}

	return newNumber(value, scale), nil
}

// MustNumber is like NewNumber but panics on error
func MustNumber(input interface{}, scale int32) Number {
	n, err := NewNumber(input, scale)
	if err != nil {
		panic(err)
	}
	return n
}

func newNumber(value decimal.Decimal, scale int32) Number {
	return Number{value: value.Round(scale), scale: scale}
}

// String returns the fixed-point representation with exactly Scale fractional digits
func (n Number) String() string {
	return n.value.StringFixed(n.scale)
}

// Scale returns the number of fractional digits kept by n
func (n Number) Scale() int32 {
	return n.scale
}

// Decimal returns the underlying decimal value
func (n Number) Decimal() decimal.Decimal {
	return n.value
}

// WithScale rebuilds n at another scale
func (n Number) WithScale(scale int32) (Number, error) {
	return NewNumber(n, scale)
}

// Sign returns -1, 0 or 1 depending on the sign of n
func (n Number) Sign() int {
	return n.value.Sign()
}

// IsZero reports whether n is zero
func (n Number) IsZero() bool {
	return n.value.IsZero()
}

// Cmp compares the values of n and other, ignoring their scales
func (n Number) Cmp(other Number) int {
	return n.value.Cmp(other.value)
}

// Equal reports whether n and other hold the same value, ignoring their scales
func (n Number) Equal(other Number) bool {
	return n.value.Equal(other.value)
}

// Float64 returns the nearest float64 to n
func (n Number) Float64() float64 {
	return n.value.InexactFloat64()
}

// FloatString returns the normalized decimal string, same as String
func (n Number) FloatString() string {
	return n.String()
}

// Int64 returns n truncated toward zero
func (n Number) Int64() (int64, error) {
	i := n.value.Truncate(0).BigInt()
	if !i.IsInt64() {
		return 0, newArithmeticError("Integer overflow: %s does not fit into int64", n)
	}
	return i.Int64(), nil
}

// IntString returns n truncated toward zero as a string
func (n Number) IntString() string {
	return n.value.Truncate(0).String()
}

// Add returns n + operand
func (n Number) Add(operand interface{}) (Number, error) {
	return n.apply(decAdd, operand, false)
}

// Subtract returns n - operand, or operand - n when invert is set
func (n Number) Subtract(operand interface{}, invert bool) (Number, error) {
	return n.apply(decSub, operand, invert)
}

// Multiply returns n × operand truncated to the receiver's scale
func (n Number) Multiply(operand interface{}) (Number, error) {
	return n.apply(decMul, operand, false)
}

// Divide returns n / operand, or operand / n when invert is set.
// The quotient is truncated to the receiver's scale.
func (n Number) Divide(operand interface{}, invert bool) (Number, error) {
	return n.apply(decDiv, operand, invert)
}

// Modulus returns the remainder of the truncated division n / operand
func (n Number) Modulus(operand interface{}) (Number, error) {
	return n.apply(decMod, operand, false)
}

// Pow raises n to an integral exponent
func (n Number) Pow(exponent interface{}) (Number, error) {
	return n.apply(decPow, exponent, false)
}

// Sqrt returns the square root of n truncated to the receiver's scale
func (n Number) Sqrt() (Number, error) {
	root, err := decSqrt(n.value, n.scale)
	if err != nil {
		return Number{}, err
	}
	return newNumber(root, n.scale), nil
}

// Split divides n into installments parts that add back up to n exactly.
// The result always has two groups: one installment carrying the leftover
// minor units, followed by installments-1 equal installments.
func (n Number) Split(installments int) ([]Installment, error) {
	if installments < 2 {
		return nil, newArithmeticError("Cannot split %s by %d", n, installments)
	}

	delta := decimal.New(1, n.scale)
	integer := Number{value: n.value.Shift(n.scale), scale: 0}

	modulus, err := integer.Modulus(installments)
	if err != nil {
		return nil, err
	}

	// integer - modulus is a multiple of installments, so the division is exact
	even, err := modulus.Subtract(integer, true)
	if err != nil {
		return nil, err
	}
	even, err = even.Divide(installments, false)
	if err != nil {
		return nil, err
	}

	base, err := even.WithScale(n.scale)
	if err != nil {
		return nil, err
	}

	first, err := base.Add(modulus)
	if err != nil {
		return nil, err
	}
	first, err = first.Divide(delta, false)
	if err != nil {
		return nil, err
	}

	rest, err := base.Divide(delta, false)
	if err != nil {
		return nil, err
	}

	return []Installment{
		{Amount: first, Count: 1},
		{Amount: rest, Count: installments - 1},
	}, nil
}

func (n Number) apply(op decimalOp, operand interface{}, invert bool) (Number, error) {
	other, err := normalizeInput(operand, &n)
	if err != nil {
		return Number{}, err
	}

	a, b := n.value, other
	if invert {
		a, b = b, a
	}

	result, err := op(a, b, n.scale)
	if err != nil {
		return Number{}, err
	}

	return newNumber(result, n.scale), nil
}

// normalizeInput converts any accepted input into an exact decimal.
// receiver is the Number an operand is applied to, nil during construction.
func normalizeInput(input interface{}, receiver *Number) (decimal.Decimal, error) {
	switch v := input.(type) {
	case Number:
		return v.value, nil
	case *Number:
		if v == nil {
			return decimal.Zero, newArithmeticError("Argument #1 ($input) must not be a nil Number")
		}
		return v.value, nil
	case decimal.Decimal:
		if err := checkExponent(v); err != nil {
			return decimal.Zero, err
		}
		return v, nil
	case string:
		return normalizeExpression(v, receiver)
	case int, int8, int16, int32, int64:
		return decimal.NewFromInt(reflect.ValueOf(v).Int()), nil
	case uint, uint8, uint16, uint32, uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(reflect.ValueOf(v).Uint()), 0), nil
	case float32:
		if err := checkFinite(float64(v)); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromFloat32(v), nil
	case float64:
		if err := checkFinite(v); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, newArithmeticError("Argument #1 ($input) must be of type int, float, string or Number, %T given", input)
	}
}

func checkExponent(d decimal.Decimal) error {
	if exp := d.Exponent(); exp > maxInputExponent || exp < -maxInputExponent {
		return newArithmeticError("Argument #1 ($input) is out of range, exponent %d given", exp)
	}
	return nil
}

func checkFinite(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return newArithmeticError("Argument #1 ($input) must be a finite number, %v given", f)
	}
	return nil
}

// normalizeExpression turns a numeral or an arithmetic expression into a decimal.
// Plain numerals are parsed exactly; expressions are evaluated in float64.
func normalizeExpression(raw string, receiver *Number) (decimal.Decimal, error) {
	input := whitespacePattern.ReplaceAllString(raw, "")
	if input == "" {
		return decimal.Zero, nil
	}

	if numericPattern.MatchString(input) {
		value, err := decimal.NewFromString(input)
		if err != nil {
			return decimal.Zero, newArithmeticError("Invalid arithmetic expression given: %v in '%s'", err, raw)
		}
		if err := checkExponent(value); err != nil {
			return decimal.Zero, err
		}
		return value, nil
	}

	if !expressionPattern.MatchString(input) {
		return decimal.Zero, newArithmeticError("Argument #1 ($input) must be a valid arithmetic expression: '%s' given", raw)
	}

	input = strings.ReplaceAll(input, "^", "**")

	if strings.HasSuffix(input, "%") {
		return normalizePercentage(strings.TrimSuffix(input, "%"), receiver)
	}

	result, err := evaluateExpression(input)
	if err != nil {
		var syntaxErr *exprSyntaxError
		switch {
		case errors.As(err, &syntaxErr):
			return decimal.Zero, newArithmeticError("Invalid arithmetic expression given: %s in '%s'", syntaxErr.Error(), raw)
		case errors.Is(err, errExprDivisionByZero):
			return decimal.Zero, newArithmeticError("Division by zero")
		case errors.Is(err, errExprModuloByZero):
			return decimal.Zero, newArithmeticError("Modulo by zero")
		default:
			return decimal.Zero, newArithmeticError("Invalid arithmetic expression given: %v in '%s'", err, raw)
		}
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return decimal.Zero, newArithmeticError("Arithmetic expression '%s' does not evaluate to a finite number", raw)
	}

	return decimal.NewFromFloat(result), nil
}

// normalizePercentage resolves "<prefix>%". Applied to a receiver it yields
// receiver × prefix / 100 at the receiver's scale, otherwise prefix / 100.
func normalizePercentage(prefix string, receiver *Number) (decimal.Decimal, error) {
	if receiver == nil {
		value, err := normalizeExpression(prefix, nil)
		if err != nil {
			return decimal.Zero, err
		}
		return value.Shift(-2), nil
	}

	product, err := receiver.Multiply(prefix)
	if err != nil {
		return decimal.Zero, err
	}

	share, err := product.Divide(100, false)
	if err != nil {
		return decimal.Zero, err
	}

	return share.value, nil
}
