package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/Avdeevkonst/dip-user/shared/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("plate", func(fl validator.FieldLevel) bool {
		return utils.ValidatePlateNumber(fl.Field().String())
	})
	return v
}

// ValidateRequest returns nil when obj passes its validate tags.
func ValidateRequest(obj any) []apperr.FieldError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []apperr.FieldError{{Field: "", Message: err.Error(), Type: "invalid"}}
	}

	validationErrors := make([]apperr.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apperr.FieldError{
			Field:   fieldPath(fe),
			Message: getErrorMsg(fe),
			Type:    fe.Tag(),
		})
	}
	return validationErrors
}

// fieldPath drops the root struct name: "SignUpRequest.user.login" -> "user.login".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gt":
		return "Value must be greater than " + err.Param()
	case "gte":
		return "Value must be greater than or equal to " + err.Param()
	case "lte":
		return "Value must be less than or equal to " + err.Param()
	case "oneof":
		return "Value must be one of: " + err.Param()
	case "plate":
		return "Plate number must match letter, 3 digits, 2 letters, 2 digits"
	default:
		return "Invalid value"
	}
}

func RespondWithValidationError(c *gin.Context, validationErrors []apperr.FieldError) {
	RespondWithAppError(c, apperr.Validation("Invalid request data", validationErrors...))
}

// RespondWithAppError writes err as {"code","message","details"}. Errors
// outside the taxonomy become a generic 500.
func RespondWithAppError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, appErr)
}
