// Package domain defines core types, interfaces, and errors for the migration engine.
package domain

import (
	"fmt"
	"strings"
)

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// PlanningError is a job-level fatal error raised before any record is
// processed, e.g. a required target field with no mapping. Field-level and
// reference-level failures are carried as data on RecordResult, not as errors.
type PlanningError struct {
	EntityType    EntityType
	MissingFields []string
	Message       string
}

func (e *PlanningError) Error() string {
	if len(e.MissingFields) > 0 {
		return fmt.Sprintf("%s: no mapping for required target field(s): %s",
			e.EntityType, strings.Join(e.MissingFields, ", "))
	}
	return e.Message
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrPlanning creates a PlanningError with a formatted message.
func ErrPlanning(entityType EntityType, format string, args ...interface{}) *PlanningError {
	return &PlanningError{EntityType: entityType, Message: fmt.Sprintf(format, args...)}
}
