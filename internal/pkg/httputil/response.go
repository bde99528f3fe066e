package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/marcos-nsantos/accounts-backend/internal/pkg/apperror"
)

// ErrorResponse is the single error envelope returned by the API.
type ErrorResponse struct {
	Status           string                `json:"status"`
	StatusCode       int                   `json:"status_code"`
	Code             string                `json:"code,omitempty"`
	Message          string                `json:"message"`
	Timestamp        time.Time             `json:"timestamp"`
	Path             string                `json:"path"`
	RequestID        string                `json:"request_id,omitempty"`
	ValidationErrors []apperror.FieldError `json:"validation_errors,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, status int, message string) {
	ErrorWithCode(c, status, "", message)
}

func ErrorWithCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, newErrorResponse(c, status, code, message, nil))
}

// ValidationError turns binding failures into a 400. Validator failures are
// reported per field; decoding failures carry the decoder message.
func ValidationError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]apperror.FieldError, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, apperror.FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
		HandleError(c, apperror.Validation(fields))
		return
	}
	HandleError(c, apperror.BadRequest("invalid request body: "+err.Error()))
}

func InternalError(c *gin.Context) {
	ErrorWithCode(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func HandleError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode >= http.StatusInternalServerError && appErr.Err != nil {
			_ = c.Error(appErr.Err)
		}
		c.JSON(appErr.StatusCode, newErrorResponse(c, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Fields))
		return
	}
	_ = c.Error(err)
	InternalError(c)
}

func GetUserID(c *gin.Context) int64 {
	if id, exists := c.Get("user_id"); exists {
		return id.(int64)
	}
	return 0
}

func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		return id.(string)
	}
	return ""
}

func newErrorResponse(c *gin.Context, status int, code, message string, fields []apperror.FieldError) ErrorResponse {
	return ErrorResponse{
		Status:           statusName(status),
		StatusCode:       status,
		Code:             code,
		Message:          message,
		Timestamp:        time.Now().UTC(),
		Path:             c.Request.URL.Path,
		RequestID:        GetRequestID(c),
		ValidationErrors: fields,
	}
}

// statusName renders 404 as NOT_FOUND, 409 as CONFLICT and so on.
func statusName(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("STATUS_%d", status)
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("must be at least %s", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("must be at most %s", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %q validation", fe.Tag())
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
