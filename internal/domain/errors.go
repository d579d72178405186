package domain

import "errors"

var (
	// ErrInvalidPlan is wrapped by every installment plan validation error
	ErrInvalidPlan = errors.New("invalid installment plan")

	// ErrPlanNotFound is returned by repositories when no plan has the requested ID
	ErrPlanNotFound = errors.New("installment plan not found")
)
