package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrMessagingAPITooNew reports a payload that requires a newer messaging API level than the host supports.
var ErrMessagingAPITooNew = stdErrors.New("payload requires a newer messaging API level")

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PayloadParsingError is the single failure kind raised while decoding a message payload.
type PayloadParsingError struct {
	Reason string
	Err    error
}

// NewPayloadParsingError constructs a PayloadParsingError.
func NewPayloadParsingError(reason string, err error) error {
	return &PayloadParsingError{Reason: reason, Err: err}
}

// PayloadParsingErrorf formats a reason without an underlying cause.
func PayloadParsingErrorf(format string, args ...any) error {
	return &PayloadParsingError{Reason: fmt.Sprintf(format, args...)}
}

func (e *PayloadParsingError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("payload parsing error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("payload parsing error: %s", e.Reason)
}

// Unwrap exposes the underlying error.
func (e *PayloadParsingError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorCause classifies why a presented message had to be dismissed.
type ErrorCause int

const (
	CauseUnknown ErrorCause = iota
	CauseServerFailure
	CauseClientNetwork
	CauseInvalidImage
	CauseWebView
)

func (c ErrorCause) String() string {
	switch c {
	case CauseServerFailure:
		return "server_failure"
	case CauseClientNetwork:
		return "client_network"
	case CauseInvalidImage:
		return "invalid_image"
	case CauseWebView:
		return "webview"
	default:
		return "unknown"
	}
}

// DisplayError describes a failure that prevents a message from being displayed.
type DisplayError struct {
	Cause       ErrorCause
	ComponentID string
	Err         error
}

// NewDisplayError constructs a DisplayError.
func NewDisplayError(cause ErrorCause, componentID string, err error) error {
	return &DisplayError{Cause: cause, ComponentID: componentID, Err: err}
}

func (e *DisplayError) Error() string {
	if e == nil {
		return ""
	}
	if e.ComponentID != "" {
		return fmt.Sprintf("display error [%s] on %s: %v", e.Cause, e.ComponentID, e.Err)
	}
	return fmt.Sprintf("display error [%s]: %v", e.Cause, e.Err)
}

// Unwrap exposes the underlying error.
func (e *DisplayError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CauseOf extracts the ErrorCause carried by err, or CauseUnknown.
func CauseOf(err error) ErrorCause {
	var display *DisplayError
	if stdErrors.As(err, &display) {
		return display.Cause
	}
	return CauseUnknown
}

// BridgeError is a web bridge failure whose message can be forwarded to web content as is.
type BridgeError struct {
	Message string
}

// NewBridgeError constructs a public BridgeError.
func NewBridgeError(message string) error {
	return &BridgeError{Message: message}
}

func (e *BridgeError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// BridgeInternalError is a web bridge failure that only surfaces its code to web content.
type BridgeInternalError struct {
	Code    int
	Message string
	Err     error
}

// NewBridgeInternalError constructs a BridgeInternalError.
func NewBridgeInternalError(code int, message string, err error) error {
	return &BridgeInternalError{Code: code, Message: message, Err: err}
}

func (e *BridgeInternalError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("bridge internal error (%d): %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("bridge internal error (%d): %s", e.Code, e.Message)
}

// Unwrap exposes the underlying error.
func (e *BridgeInternalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
