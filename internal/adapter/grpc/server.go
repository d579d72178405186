package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/sdl-backend/internal/domain"
	"github.com/simaogato/sdl-backend/internal/usecase/calculator"
	"github.com/simaogato/sdl-backend/internal/usecase/installment"
	"github.com/simaogato/sdl-backend/internal/usecase/splitter"
)

// invalidArgumentErrors are the sentinels that mark an error as caused by the request
var invalidArgumentErrors = []error{
	domain.ErrInvalidPlan,
	splitter.ErrTooManyInstallments,
	calculator.ErrInvalidCalculation,
	installment.ErrInvalidPagination,
}

// Server implements the NumberService gRPC server
type Server struct {
	CalculatorService  *calculator.CalculatorService
	InstallmentService *installment.InstallmentService
	DefaultScale       int32
}

// NewServer creates a new gRPC server instance
func NewServer(
	calculatorService *calculator.CalculatorService,
	installmentService *installment.InstallmentService,
	defaultScale int32,
) *Server {
	return &Server{
		CalculatorService:  calculatorService,
		InstallmentService: installmentService,
		DefaultScale:       defaultScale,
	}
}

// Evaluate handles the Evaluate RPC
// Request: {expression, scale?}  Response: {result, scale}
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	expression, err := requiredString(req, "expression")
	if err != nil {
		return nil, err
	}
	scale, err := scaleField(req, s.DefaultScale)
	if err != nil {
		return nil, err
	}

	result, err := s.CalculatorService.Evaluate(ctx, calculator.EvaluateInput{
		Expression: expression,
		Scale:      scale,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(map[string]interface{}{
		"result": result.String(),
		"scale":  int64(result.Scale()),
	})
}

// Calculate handles the Calculate RPC
// Request: {initial, scale?, steps: [{operation, operand?, invert?}]}  Response: {result, intermediate}
func (s *Server) Calculate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	initial, err := requiredString(req, "initial")
	if err != nil {
		return nil, err
	}
	scale, err := scaleField(req, s.DefaultScale)
	if err != nil {
		return nil, err
	}

	rawSteps, err := structList(req, "steps")
	if err != nil {
		return nil, err
	}

	steps := make([]calculator.Step, 0, len(rawSteps))
	for _, raw := range rawSteps {
		operation, err := requiredString(raw, "operation")
		if err != nil {
			return nil, err
		}
		operand, err := optionalString(raw, "operand")
		if err != nil {
			return nil, err
		}
		invert, err := optionalBool(raw, "invert")
		if err != nil {
			return nil, err
		}
		steps = append(steps, calculator.Step{
			Operation: calculator.Operation(operation),
			Operand:   operand,
			Invert:    invert,
		})
	}

	result, err := s.CalculatorService.Calculate(ctx, calculator.CalculateInput{
		Initial: initial,
		Scale:   scale,
		Steps:   steps,
	})
	if err != nil {
		return nil, mapError(err)
	}

	intermediate := make([]interface{}, 0, len(result.Intermediate))
	for _, value := range result.Intermediate {
		intermediate = append(intermediate, value.String())
	}

	return newResponse(map[string]interface{}{
		"result":       result.Result.String(),
		"intermediate": intermediate,
	})
}

// Split handles the Split RPC
// Request: {amount, scale?, installments}  Response: {installments: [{amount, count}]}
func (s *Server) Split(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := requiredString(req, "amount")
	if err != nil {
		return nil, err
	}
	scale, err := scaleField(req, s.DefaultScale)
	if err != nil {
		return nil, err
	}
	installments, err := requiredInt(req, "installments")
	if err != nil {
		return nil, err
	}

	groups, err := s.CalculatorService.Split(ctx, calculator.SplitInput{
		Amount:       amount,
		Scale:        scale,
		Installments: int(installments),
	})
	if err != nil {
		return nil, mapError(err)
	}

	items := make([]interface{}, 0, len(groups))
	for _, group := range groups {
		items = append(items, map[string]interface{}{
			"amount": group.Amount.String(),
			"count":  int64(group.Count),
		})
	}

	return newResponse(map[string]interface{}{
		"installments": items,
	})
}

// CreateInstallmentPlan handles the CreateInstallmentPlan RPC
// Request: {amount, scale?, installments, description?, first_due_date?}  Response: plan
func (s *Server) CreateInstallmentPlan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := requiredString(req, "amount")
	if err != nil {
		return nil, err
	}
	scale, err := scaleField(req, s.DefaultScale)
	if err != nil {
		return nil, err
	}
	installments, err := requiredInt(req, "installments")
	if err != nil {
		return nil, err
	}
	description, err := optionalString(req, "description")
	if err != nil {
		return nil, err
	}
	firstDueDate, err := optionalDate(req, "first_due_date")
	if err != nil {
		return nil, err
	}

	plan, err := s.InstallmentService.CreatePlan(ctx, installment.CreatePlanInput{
		Amount:       amount,
		Scale:        scale,
		Installments: int(installments),
		Description:  description,
		FirstDueDate: firstDueDate,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(planToMap(plan))
}

// GetInstallmentPlan handles the GetInstallmentPlan RPC
// Request: {id}  Response: plan
func (s *Server) GetInstallmentPlan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rawID, err := requiredString(req, "id")
	if err != nil {
		return nil, err
	}

	planID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	plan, err := s.InstallmentService.GetPlan(ctx, planID)
	if err != nil {
		return nil, mapError(err)
	}

	return newResponse(planToMap(plan))
}

// ListInstallmentPlans handles the ListInstallmentPlans RPC
// Request: {limit?, offset?}  Response: {plans}
func (s *Server) ListInstallmentPlans(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit, err := optionalInt(req, "limit", 0)
	if err != nil {
		return nil, err
	}
	offset, err := optionalInt(req, "offset", 0)
	if err != nil {
		return nil, err
	}

	plans, err := s.InstallmentService.ListPlans(ctx, int(limit), int(offset))
	if err != nil {
		return nil, mapError(err)
	}

	items := make([]interface{}, 0, len(plans))
	for _, plan := range plans {
		items = append(items, planToMap(plan))
	}

	return newResponse(map[string]interface{}{
		"plans": items,
	})
}

// planToMap converts a domain plan to its response representation
// Amounts are fixed-scale strings so clients never see float rounding
func planToMap(plan *domain.InstallmentPlan) map[string]interface{} {
	entries := make([]interface{}, 0, len(plan.Entries))
	for _, entry := range plan.Entries {
		entries = append(entries, map[string]interface{}{
			"id":       entry.ID.String(),
			"sequence": int64(entry.Sequence),
			"amount":   entry.Amount.String(),
			"due_date": entry.DueDate.Format(dateLayout),
		})
	}

	return map[string]interface{}{
		"id":           plan.ID.String(),
		"description":  plan.Description,
		"total":        plan.Total.String(),
		"scale":        int64(plan.Total.Scale()),
		"installments": int64(plan.Installments),
		"created_at":   plan.CreatedAt.UTC().Format(time.RFC3339Nano),
		"entries":      entries,
	}
}

func newResponse(fields map[string]interface{}) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to build response: %v", err)
	}
	return resp, nil
}

// mapError maps domain errors to gRPC status codes
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok && status.Code(err) != codes.Unknown {
		return err
	}

	errorMsg := err.Error()

	// Arithmetic failures are caused by the caller's input
	if domain.IsArithmeticError(err) {
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	}

	if errors.Is(err, context.Canceled) {
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	}

	for _, sentinel := range invalidArgumentErrors {
		if errors.Is(err, sentinel) {
			return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
		}
	}

	if errors.Is(err, domain.ErrPlanNotFound) {
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
