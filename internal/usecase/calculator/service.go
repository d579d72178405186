package calculator

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/sdl-backend/internal/domain"
)

// Operation names a Number method that can be chained
type Operation string

const (
	OperationAdd      Operation = "add"
	OperationSubtract Operation = "subtract"
	OperationMultiply Operation = "multiply"
	OperationDivide   Operation = "divide"
	OperationModulus  Operation = "modulus"
	OperationPow      Operation = "pow"
	OperationSqrt     Operation = "sqrt"
)

// ErrInvalidCalculation is wrapped by errors in the shape of a calculation request
var ErrInvalidCalculation = errors.New("invalid calculation")

// Step is one operation applied to the running value
type Step struct {
	Operation Operation
	Operand   string // ignored for sqrt
	Invert    bool   // only meaningful for subtract and divide
}

// EvaluateInput represents the input for evaluating an expression
type EvaluateInput struct {
	Expression string
	Scale      int32
}

// CalculateInput represents the input for a chained calculation
type CalculateInput struct {
	Initial string
	Scale   int32
	Steps   []Step
}

// CalculateResult holds the final value and the value after every step
type CalculateResult struct {
	Result       domain.Number
	Intermediate []domain.Number
}

// SplitInput represents the input for splitting an amount
type SplitInput struct {
	Amount       string
	Scale        int32
	Installments int
}

// CalculatorService evaluates expressions and runs chained Number arithmetic
type CalculatorService struct{}

// NewCalculatorService creates a new CalculatorService instance
func NewCalculatorService() *CalculatorService {
	return &CalculatorService{}
}

// Evaluate normalizes an expression into a Number at the requested scale
func (s *CalculatorService) Evaluate(ctx context.Context, input EvaluateInput) (domain.Number, error) {
	if err := ctx.Err(); err != nil {
		return domain.Number{}, err
	}

	return domain.NewNumber(input.Expression, input.Scale)
}

// Calculate applies the steps in order, starting from the initial value
// Logic:
//  1. Build the initial Number at the requested scale
//  2. Apply every step to the previous result (each result keeps the scale)
//  3. Stop at the first failing step and report its position
func (s *CalculatorService) Calculate(ctx context.Context, input CalculateInput) (*CalculateResult, error) {
	if len(input.Steps) == 0 {
		return nil, fmt.Errorf("%w: must have at least one step", ErrInvalidCalculation)
	}

	current, err := domain.NewNumber(input.Initial, input.Scale)
	if err != nil {
		return nil, err
	}

	intermediate := make([]domain.Number, 0, len(input.Steps))
	for i, step := range input.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current, err = applyStep(current, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Operation, err)
		}
		intermediate = append(intermediate, current)
	}

	return &CalculateResult{
		Result:       current,
		Intermediate: intermediate,
	}, nil
}

// Split divides an amount into installment groups that add up to it exactly
func (s *CalculatorService) Split(ctx context.Context, input SplitInput) ([]domain.Installment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	amount, err := domain.NewNumber(input.Amount, input.Scale)
	if err != nil {
		return nil, err
	}

	return amount.Split(input.Installments)
}

func applyStep(n domain.Number, step Step) (domain.Number, error) {
	switch step.Operation {
	case OperationAdd:
		return n.Add(step.Operand)
	case OperationSubtract:
		return n.Subtract(step.Operand, step.Invert)
	case OperationMultiply:
		return n.Multiply(step.Operand)
	case OperationDivide:
		return n.Divide(step.Operand, step.Invert)
	case OperationModulus:
		return n.Modulus(step.Operand)
	case OperationPow:
		return n.Pow(step.Operand)
	case OperationSqrt:
		return n.Sqrt()
	default:
		return domain.Number{}, fmt.Errorf("%w: invalid operation %q", ErrInvalidCalculation, step.Operation)
	}
}
