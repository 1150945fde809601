package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
)

type errorMapping struct {
	status int
	code   string
}

var kindMappings = map[apperr.Kind]errorMapping{
	apperr.KindNotFound:     {http.StatusNotFound, CodeNotFound},
	apperr.KindInvalidState: {http.StatusConflict, CodeInvalidState},
	apperr.KindForbidden:    {http.StatusForbidden, CodeForbidden},
	apperr.KindInvalidInput: {http.StatusUnprocessableEntity, CodeInvalidInput},
	apperr.KindConflict:     {http.StatusConflict, CodeConflict},
}

// HandleError maps domain errors to HTTP responses. Errors without a kind are
// logged and reported as 500 without their message.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		Fail(w, http.StatusUnprocessableEntity, CodeValidation, "Validation failed", validationErrs.ToMap())
		return
	}

	if kind, ok := apperr.KindOf(err); ok {
		if m, found := kindMappings[kind]; found {
			Fail(w, m.status, m.code, err.Error(), nil)
			return
		}
	}

	slog.Error("unhandled error", "error", err)
	InternalServerError(w, "An unexpected error occurred")
}
