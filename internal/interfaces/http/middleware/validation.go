package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Custom validation tags
const (
	TagInvoiceStatus = "invoice_status"
	TagPaymentMethod = "payment_method"
)

// SetupValidator configures the gin validator: JSON field names in errors and
// the billing enumeration tags
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	if err := v.RegisterValidation(TagInvoiceStatus, validateInvoiceStatus); err != nil {
		return err
	}
	return v.RegisterValidation(TagPaymentMethod, validatePaymentMethod)
}

// validateInvoiceStatus matches the status enumeration exactly
func validateInvoiceStatus(fl validator.FieldLevel) bool {
	return invoicing.InvoiceStatus(fl.Field().String()).IsValid()
}

// validatePaymentMethod matches the method enumeration ignoring case
func validatePaymentMethod(fl validator.FieldLevel) bool {
	return invoicing.PaymentMethod(fl.Field().String()).IsValid()
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	)
}

// HandleValidationError writes the response for a failed ShouldBind call.
// Field violations get per-field details; unreadable bodies get a single code.
func HandleValidationError(c *gin.Context, err error) {
	requestID := GetRequestID(c)

	var (
		validationErrors validator.ValidationErrors
		syntaxErr        *json.SyntaxError
		typeErr          *json.UnmarshalTypeError
		tooLarge         *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationErrors):
		c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestID))
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size", requestID))
	case errors.Is(err, io.EOF):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Request body is required", requestID))
	case errors.As(err, &typeErr):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInvalidJSON, "Field '"+typeErr.Field+"' has the wrong type", requestID))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInvalidJSON, "Malformed JSON body", requestID))
	default:
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, err.Error(), requestID))
	}
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case TagInvoiceStatus:
		_, err := invoicing.ParseInvoiceStatus(valueString(e))
		return messageOf(err)
	case TagPaymentMethod:
		_, err := invoicing.ParsePaymentMethod(valueString(e))
		return messageOf(err)
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "gtefield":
		return "Must not be earlier than " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}

func valueString(e validator.FieldError) string {
	if s, ok := e.Value().(string); ok {
		return s
	}
	return ""
}

func messageOf(err error) string {
	if err == nil {
		return "Invalid value"
	}
	return err.Error()
}
