package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pantryfresh/backend/internal/domain/order"
	"github.com/pantryfresh/backend/internal/domain/shared/valueobject"
	"github.com/pantryfresh/backend/internal/interfaces/http/dto"
)

// SetupValidator registers the storefront tags on gin's validator
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return RegisterValidators(v)
}

// RegisterValidators adds the pincode, order_status and payment_method tags
// and reports fields by their json (or form) name.
func RegisterValidators(v *validator.Validate) error {
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

	validators := map[string]validator.Func{
		"pincode": func(fl validator.FieldLevel) bool {
			return valueobject.IsValidPincode(fl.Field().String())
		},
		"order_status": func(fl validator.FieldLevel) bool {
			_, err := order.ParseStatus(fl.Field().String())
			return err == nil
		},
		"payment_method": func(fl validator.FieldLevel) bool {
			return order.PaymentMethod(strings.ToUpper(strings.TrimSpace(fl.Field().String()))).IsValid()
		},
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// BindingErrorInfo turns a gin binding error into the validation error body.
// Field errors are listed under details.fields keyed by field name. Bodies cut
// off by BodyLimit while streaming come back as ERR_BODY_TOO_LARGE.
func BindingErrorInfo(err error) *dto.ErrorInfo {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fieldPath(fe)] = validationMessage(fe)
		}
		return &dto.ErrorInfo{
			Code:    dto.ErrCodeValidation,
			Message: "Request validation failed",
			Details: map[string]any{"fields": fields},
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return &dto.ErrorInfo{Code: dto.ErrCodeBodyTooLarge, Message: "Request body exceeds maximum allowed size"}
	case errors.Is(err, io.EOF):
		return &dto.ErrorInfo{Code: dto.ErrCodeInvalidJSON, Message: "Request body is required"}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &dto.ErrorInfo{Code: dto.ErrCodeInvalidJSON, Message: "Request body is not valid JSON"}
	}
	return &dto.ErrorInfo{Code: dto.ErrCodeBadRequest, Message: "Invalid request parameters"}
}

// fieldPath drops the root struct name: CreateOrderRequest.deliveryAddress.pincode
// becomes deliveryAddress.pincode
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if isString {
			return "Must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if isString {
			return "Must be at most " + fe.Param() + " characters"
		}
		return "Must be at most " + fe.Param()
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	case "numeric":
		return "Must be numeric"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "pincode":
		return "Must be a 6 digit pincode"
	case "order_status":
		return "Unknown order status"
	case "payment_method":
		return "Must be one of: COD, UPI, CARD, NETBANKING"
	default:
		return "Invalid value"
	}
}

// BindingStatus is the HTTP status for a BindingErrorInfo result
func BindingStatus(info *dto.ErrorInfo) int {
	if info.Code == dto.ErrCodeBodyTooLarge {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
