// Package apperror provides a structured way to handle application errors
// with specific codes, severity levels, and additional details. It also
// includes utilities for converting to and from gRPC status errors.
package apperror

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode represents a specific application error code.
type ErrorCode string

const (
	// Configuration / input
	CodeMissingTable    ErrorCode = "MISSING_TABLE"
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeInvalidPriority ErrorCode = "INVALID_PRIORITY"
	CodeInvalidGoods    ErrorCode = "INVALID_GOODS_TYPE"

	// Geocoding
	CodeGeocodeUpstream  ErrorCode = "GEOCODE_UPSTREAM_ERROR"
	CodeGeocodeNotFound  ErrorCode = "GEOCODE_NOT_FOUND"
	CodeGeocodeCacheRead ErrorCode = "GEOCODE_CACHE_READ_ERROR"

	// Road routing
	CodeRoadUpstream ErrorCode = "ROAD_UPSTREAM_ERROR"
	CodeRoadNoRoute  ErrorCode = "ROAD_NO_ROUTE"

	// Network / graph
	CodeEmptyGraph      ErrorCode = "EMPTY_GRAPH"
	CodeDanglingEdge    ErrorCode = "DANGLING_EDGE"
	CodeMissingLocation ErrorCode = "MISSING_LOCATION"

	// Enumeration / evaluation
	CodeNoCandidates  ErrorCode = "NO_CANDIDATES"
	CodeInvalidRoute  ErrorCode = "INVALID_ROUTE_EVAL"
	CodeMissingEdge   ErrorCode = "MISSING_EDGE"
	CodeContainerFull ErrorCode = "CONTAINER_CAPACITY_EXCEEDED"

	// Optimizer
	CodeOptimizerTimeout ErrorCode = "OPTIMIZER_TIMEOUT"
	CodeOptimizerFailed  ErrorCode = "OPTIMIZER_FAILED"

	// General
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeUnimplemented ErrorCode = "UNIMPLEMENTED"
)

// Severity defines the criticality level of an error.
type Severity int

const (
	// SeverityWarning indicates a non-critical issue that can be ignored or automatically resolved.
	SeverityWarning Severity = iota
	// SeverityError indicates a standard error that requires attention.
	SeverityError
	// SeverityCritical indicates a severe error that might require immediate human intervention.
	SeverityCritical
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is a custom error type that includes an ErrorCode, message, an
// optional field, additional details, an underlying cause, and a severity.
type Error struct {
	Code     ErrorCode
	Message  string
	Field    string
	Details  map[string]any
	Cause    error
	Severity Severity
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, allowing errors.Is/As to traverse it.
func (e *Error) Unwrap() error {
	return e.Cause
}

// GRPCStatus maps the error to a gRPC status, for any future transport layer
// that wraps this library.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.grpcCode(), e.Message)
}

func (e *Error) grpcCode() codes.Code {
	switch e.Code {
	case CodeInvalidArgument, CodeInvalidPriority, CodeInvalidGoods:
		return codes.InvalidArgument
	case CodeMissingTable, CodeMissingLocation, CodeNoCandidates:
		return codes.NotFound
	case CodeOptimizerTimeout:
		return codes.DeadlineExceeded
	case CodeUnimplemented:
		return codes.Unimplemented
	default:
		return codes.Internal
	}
}

// New creates a new application error with the given code and message.
// The default severity is SeverityError.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Details: make(map[string]any), Severity: SeverityError}
}

// NewWarning creates a new application error with SeverityWarning.
func NewWarning(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Details: make(map[string]any), Severity: SeverityWarning}
}

// Wrap creates a new application error that wraps an existing error.
func Wrap(cause error, code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Cause: cause, Details: make(map[string]any), Severity: SeverityError}
}

// WithDetails adds a key-value pair to the error's details map and returns the modified error.
func (e *Error) WithDetails(key string, value any) *Error {
	e.Details[key] = value
	return e
}

// WithField sets the field associated with the error and returns the modified error.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// Is checks if the given error is an application error with a matching ErrorCode.
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Code extracts the ErrorCode from an error. If the error is not an *Error,
// it returns CodeInternal.
func Code(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// ToGRPC converts an application error or any other error into a gRPC error status.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.GRPCStatus().Err()
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.New(codes.Internal, err.Error()).Err()
}
