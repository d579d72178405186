package calculator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/sdl-backend/internal/domain"
)

func TestEvaluate(t *testing.T) {
	service := NewCalculatorService()

	result, err := service.Evaluate(context.Background(), EvaluateInput{
		Expression: "(18.78 + 25 + 6.22) * 2",
		Scale:      2,
	})

	require.NoError(t, err)
	assert.Equal(t, "100.00", result.String())
}

func TestEvaluate_InvalidExpression(t *testing.T) {
	service := NewCalculatorService()

	_, err := service.Evaluate(context.Background(), EvaluateInput{Expression: "10 + (10 v 25)", Scale: 2})

	assert.Error(t, err)
	assert.True(t, domain.IsArithmeticError(err))
}

func TestEvaluate_CancelledContext(t *testing.T) {
	service := NewCalculatorService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Evaluate(ctx, EvaluateInput{Expression: "1 + 1", Scale: 2})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculate_DocumentedChain(t *testing.T) {
	service := NewCalculatorService()

	result, err := service.Calculate(context.Background(), CalculateInput{
		Initial: "10 ^ 2",
		Scale:   2,
		Steps: []Step{
			{Operation: OperationAdd, Operand: "10"},
			{Operation: OperationMultiply, Operand: "18"},
			{Operation: OperationSubtract, Operand: "80"},
			{Operation: OperationDivide, Operand: "10"},
			{Operation: OperationSubtract, Operand: "50%"},
			{Operation: OperationAdd, Operand: "5"},
			{Operation: OperationSqrt},
			{Operation: OperationPow, Operand: "2"},
			{Operation: OperationSubtract, Operand: "20", Invert: true},
			{Operation: OperationMultiply, Operand: "-1"},
			{Operation: OperationAdd, Operand: "20"},
			{Operation: OperationModulus, Operand: "3"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "1.00", result.Result.String())
	assert.Equal(t, "1", result.Result.IntString())

	want := []string{"110.00", "1980.00", "1900.00", "190.00", "95.00", "100.00", "10.00", "100.00", "-80.00", "80.00", "100.00", "1.00"}
	require.Len(t, result.Intermediate, len(want))
	for i, value := range want {
		assert.Equal(t, value, result.Intermediate[i].String(), "step %d", i+1)
	}
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   CalculateInput
		wantErr error
		errMsg  string
	}{
		{
			name:   "no steps",
			input:   CalculateInput{Initial: "1", Scale: 2},
			wantErr: ErrInvalidCalculation,
			errMsg:  "at least one step",
		},
		{
			name:   "invalid initial value",
			input:  CalculateInput{Initial: "1 ++ 1", Scale: 2, Steps: []Step{{Operation: OperationAdd, Operand: "1"}}},
			errMsg: "valid arithmetic expression",
		},
		{
			name:   "division by zero",
			input:  CalculateInput{Initial: "10", Scale: 2, Steps: []Step{{Operation: OperationAdd, Operand: "1"}, {Operation: OperationDivide, Operand: "0"}}},
			errMsg: "step 2 (divide): Division by zero",
		},
		{
			name:   "unknown operation",
			input:   CalculateInput{Initial: "10", Scale: 2, Steps: []Step{{Operation: "log", Operand: "10"}}},
			wantErr: ErrInvalidCalculation,
			errMsg:  `invalid operation "log"`,
		},
		{
			name:   "sqrt of negative",
			input:  CalculateInput{Initial: "-4", Scale: 2, Steps: []Step{{Operation: OperationSqrt}}},
			errMsg: "negative number",
		},
	}

	service := NewCalculatorService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Calculate(context.Background(), tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCalculate_ArithmeticErrorsStayDetectable(t *testing.T) {
	service := NewCalculatorService()

	_, err := service.Calculate(context.Background(), CalculateInput{
		Initial: "10",
		Scale:   2,
		Steps:   []Step{{Operation: OperationModulus, Operand: "0"}},
	})

	require.Error(t, err)
	assert.True(t, domain.IsArithmeticError(err))
}

func TestSplit(t *testing.T) {
	service := NewCalculatorService()

	groups, err := service.Split(context.Background(), SplitInput{Amount: "15.8", Scale: 2, Installments: 3})

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "5.28", groups[0].Amount.String())
	assert.Equal(t, 1, groups[0].Count)
	assert.Equal(t, "5.26", groups[1].Amount.String())
	assert.Equal(t, 2, groups[1].Count)
}

func TestSplit_InvalidInstallments(t *testing.T) {
	service := NewCalculatorService()

	_, err := service.Split(context.Background(), SplitInput{Amount: "200", Scale: 2, Installments: 1})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot split")
}
