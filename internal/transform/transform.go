package transform

import (
	"fmt"

	"github.com/rgehrsitz/rpnl/internal/domain"
)

// ScenarioTransform defines the interface for all request transformations.
// Transforms are composable operations that derive a new request from a base,
// enabling scenario comparison, headroom search and the interactive explorer.
type ScenarioTransform interface {
	// Apply returns a modified copy of base. The base is never changed.
	Apply(base domain.ScenarioRequest) (domain.ScenarioRequest, error)

	// Name returns a short identifier for this transform (e.g., "set_lump_sum").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks the transform parameters against base without applying.
	Validate(base domain.ScenarioRequest) error
}

// ApplyTransforms applies a sequence of transforms to a base request.
// Each transform receives the output of the previous one, and the final
// request is validated so a chain can never produce an out-of-range request.
func ApplyTransforms(base domain.ScenarioRequest, transforms []ScenarioTransform) (domain.ScenarioRequest, error) {
	current := base
	for i, transform := range transforms {
		if transform == nil {
			return domain.ScenarioRequest{}, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return domain.ScenarioRequest{}, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return domain.ScenarioRequest{}, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	if err := current.Validate(); err != nil {
		return domain.ScenarioRequest{}, fmt.Errorf("transformed request is invalid: %w", err)
	}
	return current, nil
}

// TransformError represents an error that occurred during transformation.
// It unwraps to domain.ErrInvalidInput so callers can treat it as bad input.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return domain.ErrInvalidInput
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
