package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
	"github.com/Apurer/store-orders-api/internal/shared/validation"
)

// ContentTypeProblemJSON is the media type for problem responses.
const ContentTypeProblemJSON = "application/problem+json"

// FromError maps an application error to its problem document. Unclassified
// errors become a 500 whose detail does not leak the cause.
func FromError(err error) ProblemDetail {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	switch apperrors.KindOf(err) {
	case apperrors.ErrNotFound:
		return ErrNotFound.WithDetail(err.Error())
	case apperrors.ErrValidation:
		return NewValidationProblem(validation.Fields(apperrors.FieldsOf(err))).WithDetail(err.Error())
	case apperrors.ErrInvalidTransition:
		return ErrInvalidTransition.WithDetail(err.Error())
	case apperrors.ErrDuplicateKey:
		p := ErrDuplicateKey.WithDetail(err.Error())
		if fields := apperrors.FieldsOf(err); len(fields) > 0 {
			p = p.WithExtension("fields", validation.Fields(fields))
		}
		return p
	case apperrors.ErrInvalidInput:
		return ErrInvalidInput.WithDetail(err.Error())
	case apperrors.ErrUnauthorized:
		return ErrUnauthorized.WithDetail(err.Error())
	default:
		return ErrInternal.WithDetail(http.StatusText(http.StatusInternalServerError))
	}
}

// Respond sends problem with the problem+json content type.
func Respond(c *gin.Context, problem ProblemDetail) {
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError maps err and responds. Unclassified errors are attached to the
// gin context so the logging middleware records the cause.
func RespondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problem := FromError(err)
	if problem.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	Respond(c, problem)
}
