package services

import (
	"errors"
	"fmt"
)

// ErrOrderNotFound is returned by operations that act on an existing order.
var ErrOrderNotFound = errors.New("order not found")

// Step names one step of order placement.
type Step string

const (
	StepValidate        Step = "validate"
	StepResolveCustomer Step = "resolve_customer"
	StepCreateHeader    Step = "create_order_header"
	StepInsertItems     Step = "insert_items"
	StepFinalizeTotal   Step = "finalize_total"
	StepCommit          Step = "commit"
	StepUpdateStatus    Step = "update_status"
	StepRead            Step = "read"
)

// ValidationError reports input rejected before anything was written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StorageError wraps a storage failure with the step that failed.
type StorageError struct {
	Step Step
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Step, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConsistencyError reports that storage accepted a write but the result does
// not match what was asked for.
type ConsistencyError struct {
	Step    Step
	OrderID uint
	Detail  string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("order %d inconsistent after %s: %s", e.OrderID, e.Step, e.Detail)
}

func storageErr(step Step, err error) error {
	var se *StorageError
	var ce *ConsistencyError
	var ve *ValidationError
	if errors.As(err, &se) || errors.As(err, &ce) || errors.As(err, &ve) {
		return err
	}
	return &StorageError{Step: step, Err: err}
}
