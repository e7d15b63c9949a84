package wizard

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies an error for programmatic handling.
type ErrorType int

const (
	// ErrValidation is rejected user input.
	ErrValidation ErrorType = iota + 1000
	// ErrNetwork is a failed request to the backend.
	ErrNetwork
	// ErrProtocol is a status token the client does not understand or must not apply.
	ErrProtocol
	// ErrConfiguration is an invalid session configuration.
	ErrConfiguration
	// ErrInternal is a broken invariant.
	ErrInternal
)

func (t ErrorType) String() string {
	switch t {
	case ErrValidation:
		return "validation"
	case ErrNetwork:
		return "network"
	case ErrProtocol:
		return "protocol"
	case ErrConfiguration:
		return "configuration"
	case ErrInternal:
		return "internal"
	default:
		return fmt.Sprintf("error_type(%d)", int(t))
	}
}

// Error codes.
const (
	CodeEmptyExportName     = "VAL_001"
	CodeDuplicateExportName = "VAL_002"
	CodeEmptySolutionName   = "VAL_003"
	CodeUnknownSolution     = "VAL_004"
	CodeUnavailableSolution = "VAL_005"

	CodeRequestFailed = "NET_001"
	CodeBackendWait   = "NET_002"

	CodeUnknownStage    = "PROTO_001"
	CodeUnknownPhase    = "PROTO_002"
	CodePhaseNotAllowed = "PROTO_003"
	CodeStaleStatus     = "PROTO_004"
	CodeSessionFailed   = "PROTO_005"
	CodeMalformedStatus = "PROTO_006"

	CodeInvalidInterval = "CFG_001"
	CodeInvalidTimeout  = "CFG_002"
	CodeMissingAPI      = "CFG_003"

	CodeSelectionLost = "INT_001"
)

// AppError is an error with a type, a stable code and optional context.
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	Details  string
	Original error
}

// NewError creates an AppError.
func NewError(errorType ErrorType, code, message, details string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewErrorWithCause creates an AppError wrapping original.
func NewErrorWithCause(errorType ErrorType, code, message, details string, original error) *AppError {
	err := NewError(errorType, code, message, details)
	err.Original = original
	return err
}

func (e *AppError) Error() string {
	var result strings.Builder

	fmt.Fprintf(&result, "[%s] %s", e.Code, e.Message)

	if e.Details != "" {
		fmt.Fprintf(&result, ": %s", e.Details)
	}

	if e.Original != nil {
		fmt.Fprintf(&result, "; caused by: %v", e.Original)
	}

	return result.String()
}

func (e *AppError) Unwrap() error {
	return e.Original
}

// Is matches another AppError by code, or by type when the target has no code.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}

	if appErr.Code != "" {
		return e.Code == appErr.Code
	}

	return e.Type == appErr.Type
}

func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

func (e *AppError) IsCode(code string) bool {
	return e.Code == code
}

// WithDetails replaces the details of the error.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

func NewValidationError(code, message, details string) *AppError {
	return NewError(ErrValidation, code, message, details)
}

func NewNetworkErrorWithCause(code, message, details string, original error) *AppError {
	return NewErrorWithCause(ErrNetwork, code, message, details, original)
}

func NewProtocolError(code, message, details string) *AppError {
	return NewError(ErrProtocol, code, message, details)
}

func NewConfigurationError(code, message, details string) *AppError {
	return NewError(ErrConfiguration, code, message, details)
}

func NewInternalError(code, message, details string) *AppError {
	return NewError(ErrInternal, code, message, details)
}

// WrapError wraps err into an AppError unless it already is one.
func WrapError(err error, errorType ErrorType, code, message, details string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return NewErrorWithCause(errorType, code, message, details, err)
}

func isType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.IsType(errorType)
	}

	return false
}

func IsValidationError(err error) bool { return isType(err, ErrValidation) }

func IsNetworkError(err error) bool { return isType(err, ErrNetwork) }

func IsProtocolError(err error) bool { return isType(err, ErrProtocol) }

func IsConfigurationError(err error) bool { return isType(err, ErrConfiguration) }
