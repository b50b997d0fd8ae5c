package shared

import "errors"

// Error codes carried by DomainError
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates an error for a referenced record that does not exist
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewInvalidArgumentError creates an error for a value that fails a domain constraint
func NewInvalidArgumentError(message string) *DomainError {
	return NewDomainError(CodeInvalidInput, message)
}

// IsNotFound reports whether err is a NOT_FOUND domain error
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsInvalidArgument reports whether err is an INVALID_INPUT domain error
func IsInvalidArgument(err error) bool {
	return hasCode(err, CodeInvalidInput)
}

func hasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
