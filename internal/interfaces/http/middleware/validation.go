package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/foodgram/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// customTags are the validator tags registered on top of the built-in ones
var customTags = map[string]*regexp.Regexp{
	"username":  regexp.MustCompile(`^[\w.@+-]+$`),
	"hexcolor6": regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`),
}

// fixedMessages are validation messages that do not depend on the parameter
var fixedMessages = map[string]string{
	"required":  "This field is required",
	"email":     "Invalid email format",
	"uuid":      "Invalid UUID format",
	"username":  "May contain only letters, digits and @/./+/-/_",
	"hexcolor6": "Must be a color in #RRGGBB format",
}

// SetupValidator makes gin's validator report JSON (or form) field names and
// registers customTags
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
		}
		return name
	})

	for tag, re := range customTags {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
}

// FormatValidationErrors lists one message per failed field
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details = make([]dto.ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: getValidationMessage(fe)})
		}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError answers 400 for a failed bind. A body that is not
// valid JSON has no field details and gets ERR_INVALID_JSON.
func HandleValidationError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		abortWithError(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body")
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func getValidationMessage(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}

	p := fe.Param()
	switch fe.Tag() {
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return "Must be at least " + p + " characters"
		case reflect.Slice:
			return "Must contain at least " + p + " items"
		}
		return "Must be at least " + p
	case "max":
		if fe.Kind() == reflect.String {
			return "Must be at most " + p + " characters"
		}
		return "Must be at most " + p
	case "oneof":
		return "Must be one of: " + p
	}
	return "Invalid value"
}
