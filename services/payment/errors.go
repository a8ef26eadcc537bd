package payment

import "fmt"

// Error codes returned by the payment service.
const (
	CodeValidation = "validationError"
	CodeNotFound   = "notFound"
	CodeSecurity   = "securityError"
	CodeGateway    = "gatewayError"
)

type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, format string, args ...interface{}) error {
	return &ServiceError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode extracts the service error code, or empty for foreign errors.
func ErrorCode(err error) string {
	if se, ok := err.(*ServiceError); ok {
		return se.Code
	}
	return ""
}
