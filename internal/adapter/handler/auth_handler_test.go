package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/marcos-nsantos/accounts-backend/internal/adapter/handler"
	"github.com/marcos-nsantos/accounts-backend/internal/domain"
	"github.com/marcos-nsantos/accounts-backend/internal/domain/entity"
	"github.com/marcos-nsantos/accounts-backend/internal/mocks"
	"github.com/marcos-nsantos/accounts-backend/internal/pkg/httputil"
	"github.com/marcos-nsantos/accounts-backend/internal/usecase/auth"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("registers user successfully", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		authSvc := mocks.NewMockAuthService(ctrl)
		h := handler.NewAuthHandler(authSvc)

		router := setupRouter()
		router.POST("/register", h.Register)

		user := &entity.User{
			ID:           1,
			Email:        "test@example.com",
			PasswordHash: "$2a$04$secret",
			FirstName:    "Ada",
			LastName:     "Lovelace",
		}

		authSvc.EXPECT().Register(gomock.Any(), auth.RegisterInput{
			Email:     "test@example.com",
			Password:  "password123",
			FirstName: "Ada",
			LastName:  "Lovelace",
		}).Return(user, nil)

		body := `{"email":"test@example.com","password":"password123","first_name":"Ada","last_name":"Lovelace"}`
		w := doJSON(router, http.MethodPost, "/register", body)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(1), resp["id"])
		assert.Equal(t, "test@example.com", resp["email"])
		assert.Equal(t, "Ada", resp["first_name"])
		assert.NotContains(t, w.Body.String(), "password")
		assert.NotContains(t, w.Body.String(), "$2a$04$secret")
	})

	t.Run("returns conflict for existing email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		authSvc := mocks.NewMockAuthService(ctrl)
		h := handler.NewAuthHandler(authSvc)

		router := setupRouter()
		router.POST("/register", h.Register)

		authSvc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, domain.ErrUserAlreadyExists)

		w := doJSON(router, http.MethodPost, "/register", `{"email":"existing@example.com","password":"password123"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "USER_EXISTS", resp.Code)
		assert.Equal(t, "CONFLICT", resp.Status)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		authSvc := mocks.NewMockAuthService(ctrl)
		h := handler.NewAuthHandler(authSvc)

		router := setupRouter()
		router.POST("/register", h.Register)

		w := doJSON(router, http.MethodPost, "/register", `{"email":"invalid","password":"short"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "VALIDATION_ERROR", resp.Code)

		fields := make([]string, 0, len(resp.ValidationErrors))
		for _, fe := range resp.ValidationErrors {
			fields = append(fields, fe.Field)
		}
		assert.ElementsMatch(t, []string{"email", "password"}, fields)
	})

	t.Run("hides unexpected errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		authSvc := mocks.NewMockAuthService(ctrl)
		h := handler.NewAuthHandler(authSvc)

		router := setupRouter()
		router.POST("/register", h.Register)

		authSvc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, errors.New("pq: relation users does not exist"))

		w := doJSON(router, http.MethodPost, "/register", `{"email":"a@example.com","password":"password123"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "relation")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("logs in successfully", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		authSvc := mocks.NewMockAuthService(ctrl)
		h := handler.NewAuthHandler(authSvc)

		router := setupRouter()
		router.POST("/login", h.Login)

		result := &auth.AuthResult{
			TokenPair: auth.TokenPair{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
				ExpiresAt:    time.Now().Add(15 * time.Minute),
			},
			User: &entity.User{ID: 3, Email: "test@example.com"},
		}

		authSvc.EXPECT().Login(gomock.Any(), auth.LoginInput{
			Email:    "test@example.com",
			Password: "password123",
		}).Return(result, nil)

		w := doJSON(router, http.MethodPost, "/login", `{"email":"test@example.com","password":"password123"}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "access-token", resp["access_token"])
		assert.Equal(t, "refresh-token", resp["refresh_token"])
		assert.Equal(t, "Bearer", resp["token_type"])
		user, ok := resp["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "test@example.com", user["email"])
	})

	t.Run("returns unauthorized for invalid credentials", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		authSvc := mocks.NewMockAuthService(ctrl)
		h := handler.NewAuthHandler(authSvc)

		router := setupRouter()
		router.POST("/login", h.Login)

		authSvc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, domain.ErrInvalidCredentials)

		w := doJSON(router, http.MethodPost, "/login", `{"email":"test@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, w).Code)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("refreshes token successfully", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		authSvc := mocks.NewMockAuthService(ctrl)
		h := handler.NewAuthHandler(authSvc)

		router := setupRouter()
		router.POST("/refresh", h.Refresh)

		tokens := &auth.TokenPair{
			AccessToken:  "new-access-token",
			RefreshToken: "new-refresh-token",
			ExpiresAt:    time.Now().Add(15 * time.Minute),
		}

		authSvc.EXPECT().Refresh(gomock.Any(), "valid-refresh-token").Return(tokens, nil)

		w := doJSON(router, http.MethodPost, "/refresh", `{"refresh_token":"valid-refresh-token"}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "new-access-token", resp["access_token"])
		assert.Equal(t, "new-refresh-token", resp["refresh_token"])
	})

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"expired token", domain.ErrTokenExpired, "TOKEN_EXPIRED"},
		{"revoked token", domain.ErrTokenRevoked, "TOKEN_REVOKED"},
		{"unknown token", domain.ErrTokenInvalid, "TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			authSvc := mocks.NewMockAuthService(ctrl)
			h := handler.NewAuthHandler(authSvc)

			router := setupRouter()
			router.POST("/refresh", h.Refresh)

			authSvc.EXPECT().Refresh(gomock.Any(), "some-token").Return(nil, tt.err)

			w := doJSON(router, http.MethodPost, "/refresh", `{"refresh_token":"some-token"}`)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authSvc := mocks.NewMockAuthService(ctrl)
	h := handler.NewAuthHandler(authSvc)

	router := setupRouter()
	router.POST("/logout", func(c *gin.Context) {
		c.Set("user_id", int64(12))
		c.Next()
	}, h.Logout)

	authSvc.EXPECT().Logout(gomock.Any(), int64(12)).Return(nil)

	w := doJSON(router, http.MethodPost, "/logout", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
}
