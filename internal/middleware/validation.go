package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/emre/termplan/internal/app/models/dto"
	"github.com/emre/termplan/internal/pkg/helpers"
)

// RegisterCustomValidators installs engine-specific validation tags on gin's
// binding validator. Must be called once before the router handles requests.
func RegisterCustomValidators() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	// clock validates a wall-clock string in HH:MM form.
	return engine.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return helpers.ValidClock(fl.Field().String())
	})
}

// HandleBindingError writes a 400 response for a request binding failure,
// with per-field messages when the failure came from struct validation.
func HandleBindingError(c *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		messages := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			messages = append(messages, formatValidationError(fieldErr))
		}
		errorDetail = errorDetail.WithDetails(messages)
	} else {
		errorDetail = errorDetail.WithDetails(err.Error())
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "clock":
		return e.Field() + " must be a HH:MM clock value"
	case "datetime":
		return e.Field() + " must match the layout " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
