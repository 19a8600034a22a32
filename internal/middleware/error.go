package middleware

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medreminder-api/internal/handler"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
)

// ErrorHandler renders the last error pushed with c.Error as the response envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		lastErr := c.Errors.Last().Err
		appErr := translate(lastErr)
		status := appErr.StatusCode()
		if stderrors.Is(lastErr, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}

		event := log.Debug()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Err(lastErr).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Int("status", status).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}
		c.JSON(status, handler.NewErrorResponse(appErr.Message, appErr.Fields...))
	}
}

// translate maps binding, decoding and unknown errors onto the AppError taxonomy.
func translate(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		return apperrors.InvalidInput("validation failed", FieldErrors(validationErrs)...)
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return apperrors.InvalidInput("validation failed", apperrors.FieldError{
			Field:   typeErr.Field,
			Message: "has the wrong type",
		})
	}

	var syntaxErr *json.SyntaxError
	var maxBytesErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &syntaxErr), stderrors.Is(err, io.EOF), stderrors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.InvalidInput("malformed request body")
	case stderrors.As(err, &maxBytesErr):
		return apperrors.InvalidInput("request body too large")
	}

	return apperrors.Internal(err)
}
