package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/marcos-nsantos/accounts-backend/internal/domain"
	"github.com/marcos-nsantos/accounts-backend/internal/pkg/apperror"
	"github.com/marcos-nsantos/accounts-backend/internal/pkg/httputil"
)

// respondError translates use case errors into the API error envelope.
// Anything unrecognised becomes a 500 with the cause attached to the context.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		httputil.HandleError(c, apperror.NotFound("user"))
	case errors.Is(err, domain.ErrUserAlreadyExists):
		httputil.HandleError(c, apperror.New("USER_EXISTS", "email already registered", http.StatusConflict))
	case errors.Is(err, domain.ErrInvalidCredentials):
		httputil.HandleError(c, apperror.New("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized))
	case errors.Is(err, domain.ErrInvalidSortField):
		httputil.HandleError(c, apperror.Validation([]apperror.FieldError{{
			Field:   "sort",
			Message: "unsupported sort field",
		}}))
	case errors.Is(err, domain.ErrTokenExpired):
		httputil.HandleError(c, apperror.New("TOKEN_EXPIRED", "refresh token expired", http.StatusUnauthorized))
	case errors.Is(err, domain.ErrTokenRevoked):
		httputil.HandleError(c, apperror.New("TOKEN_REVOKED", "refresh token revoked", http.StatusUnauthorized))
	case errors.Is(err, domain.ErrTokenInvalid):
		httputil.HandleError(c, apperror.New("TOKEN_INVALID", "invalid refresh token", http.StatusUnauthorized))
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.HandleError(c, apperror.Unauthorized("authentication required"))
	default:
		httputil.HandleError(c, apperror.Internal(err))
	}
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid user id")
		return 0, false
	}
	return id, true
}

// bindStrictJSON decodes like ShouldBindJSON but rejects keys the target
// struct does not declare and anything after the first JSON value.
func bindStrictJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return binding.Validator.ValidateStruct(obj)
}
