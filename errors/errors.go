package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Startup errors: abort before the application is built.
	ErrorTypeDuplicate         ErrorType = "duplicate"
	ErrorTypeDependency        ErrorType = "dependency"
	ErrorTypeConfigParse       ErrorType = "config_parse"
	ErrorTypeConfigMerge       ErrorType = "config_merge"
	ErrorTypeConfigDeserialize ErrorType = "config_deserialize"
	ErrorTypeConfigValidation  ErrorType = "config_validation"
	ErrorTypeFrozen            ErrorType = "frozen"
	ErrorTypeInvalidComponent  ErrorType = "invalid_component"
	ErrorTypeCanceled          ErrorType = "canceled"
	ErrorTypePlugin            ErrorType = "plugin"

	// Caller-handled lookups.
	ErrorTypeNotFound ErrorType = "not_found"

	// Running phase errors: logged, never abort.
	ErrorTypeScheduler ErrorType = "scheduler"

	// System errors
	ErrorTypeInternal ErrorType = "internal"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// fatalTypes are the error types that abort startup.
var fatalTypes = map[ErrorType]struct{}{
	ErrorTypeDuplicate:         {},
	ErrorTypeDependency:        {},
	ErrorTypeConfigParse:       {},
	ErrorTypeConfigMerge:       {},
	ErrorTypeConfigDeserialize: {},
	ErrorTypeConfigValidation:  {},
	ErrorTypeFrozen:            {},
	ErrorTypeInvalidComponent:  {},
	ErrorTypeCanceled:          {},
	ErrorTypePlugin:            {},
}

// Kinder is implemented by domain errors that belong to an ErrorType.
type Kinder interface {
	Kind() ErrorType
}

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType      `json:"type"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	InnerError error          `json:"-"`
	Stack      []string       `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	switch {
	case e.Message != "" && e.InnerError != nil:
		return e.Message + ": " + e.InnerError.Error()
	case e.Message != "":
		return e.Message
	case e.InnerError != nil:
		return e.InnerError.Error()
	}
	return string(e.Type)
}

// Unwrap returns the inner error
func (e *AppError) Unwrap() error {
	return e.InnerError
}

// Kind returns the error type.
func (e *AppError) Kind() ErrorType {
	return e.Type
}

// WithMessage adds a message to the error
func (e *AppError) WithMessage(msg string) *AppError {
	e.Message = msg
	return e
}

// WithCode adds a code to the error
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithInnerError sets the inner error
func (e *AppError) WithInnerError(err error) *AppError {
	e.InnerError = err
	return e
}

// WithStack captures the call stack
func (e *AppError) WithStack() *AppError {
	e.Stack = captureStack(3)
	return e
}

// Is checks if this error is of a specific type
func (e *AppError) Is(target error) bool {
	if targetApp, ok := target.(*AppError); ok {
		return e.Type == targetApp.Type
	}
	return false
}

// New creates a new AppError
func New(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    string(errType),
	}
}

// FromError converts a standard error to AppError. Domain errors keep their kind.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	errType := ErrorTypeUnknown
	if k, ok := kindOf(err); ok {
		errType = k
	}
	return &AppError{
		Type:       errType,
		Code:       string(errType),
		InnerError: err,
	}
}

// Wrap wraps an error with additional context, keeping its type.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	errType := ErrorTypeUnknown
	if k, ok := kindOf(err); ok {
		errType = k
	}
	return WrapWithType(err, errType, message)
}

// WrapWithType wraps an error with a specific type
func WrapWithType(err error, errType ErrorType, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		InnerError: err,
		Code:       string(errType),
	}
}

// IsType reports whether any error in err's chain has the given type.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		if k, ok := err.(Kinder); ok && k.Kind() == errType {
			return true
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				if IsType(e, errType) {
					return true
				}
			}
			return false
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsFatal reports whether err must abort application startup.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	for t := range fatalTypes {
		if IsType(err, t) {
			return true
		}
	}
	return false
}

func kindOf(err error) (ErrorType, bool) {
	var k Kinder
	if errors.As(err, &k) {
		return k.Kind(), true
	}
	return "", false
}

// Recover runs fn and converts a panic into an internal AppError with a stack.
func Recover(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			appErr := New(ErrorTypeInternal, fmt.Sprintf("panic: %v", r))
			if inner, ok := r.(error); ok {
				appErr.InnerError = inner
				appErr.Message = "panic"
			}
			appErr.Stack = captureStack(4)
			err = appErr
		}
	}()
	return fn()
}

func captureStack(skip int) []string {
	var stack []string
	for i := skip; i < skip+10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		funcName := fn.Name()
		if idx := strings.LastIndex(funcName, "/"); idx >= 0 {
			funcName = funcName[idx+1:]
		}

		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, funcName))
	}
	return stack
}

// ErrorChain represents a chain of errors
type ErrorChain struct {
	errors []error
}

// NewErrorChain creates a new error chain
func NewErrorChain() *ErrorChain {
	return &ErrorChain{}
}

// Add adds an error to the chain. Nil errors are ignored.
func (c *ErrorChain) Add(err error) *ErrorChain {
	if err != nil {
		c.errors = append(c.errors, err)
	}
	return c
}

// HasErrors checks if there are any errors in the chain
func (c *ErrorChain) HasErrors() bool {
	return len(c.errors) > 0
}

// Error implements the error interface
func (c *ErrorChain) Error() string {
	if len(c.errors) == 0 {
		return ""
	}

	messages := make([]string, len(c.errors))
	for i, err := range c.errors {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Unwrap exposes the chained errors to errors.Is and errors.As.
func (c *ErrorChain) Unwrap() []error {
	return c.errors
}

// Errors returns all errors in the chain
func (c *ErrorChain) Errors() []error {
	return c.errors
}

// Err returns the chain as an error, or nil when empty.
func (c *ErrorChain) Err() error {
	if !c.HasErrors() {
		return nil
	}
	return c
}

// HasType checks if the chain contains an error of the specified type
func (c *ErrorChain) HasType(errType ErrorType) bool {
	for _, err := range c.errors {
		if IsType(err, errType) {
			return true
		}
	}
	return false
}
