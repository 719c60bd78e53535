package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/emre/termplan/internal/app/models/dto"
	"github.com/emre/termplan/internal/pkg/apperrors"
)

// HandleAPIError maps engine errors onto HTTP responses. Conflicts carry the
// complete conflict list in the error details; nothing here retries.
func HandleAPIError(c *gin.Context, err error) {
	var conflictErr *apperrors.ConflictError
	if errors.As(err, &conflictErr) {
		detail := dto.NewErrorDetail(dto.ErrorCodeSchedulingConflict, "Scheduling conflict")
		detail = detail.WithDetails(conflictErr.Conflicts)
		c.JSON(409, dto.NewErrorResponse(detail))
		return
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, validationErr.Message)
		detail = detail.WithField(validationErr.Field)
		c.JSON(400, dto.NewErrorResponse(detail))
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(404, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(409, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, err.Error())))
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(400, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")))
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))
	default:
		c.JSON(500, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
