package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/accounts-backend/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/accounts-backend/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/accounts-backend/internal/pkg/httputil"
	"github.com/marcos-nsantos/accounts-backend/internal/usecase/auth"
)

type AuthHandler struct {
	authSvc AuthService
}

func NewAuthHandler(authSvc AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Create a new user account
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		request.RegisterRequest	true	"Registration data"
//	@Success		201		{object}	response.UserResponse
//	@Failure		400		{object}	httputil.ErrorResponse
//	@Failure		409		{object}	httputil.ErrorResponse	"Email already exists"
//	@Router			/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.Created(c, response.UserFromEntity(user))
}

// Login godoc
//
//	@Summary		Login user
//	@Description	Authenticate user and return tokens
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		request.LoginRequest	true	"Login credentials"
//	@Success		200		{object}	response.LoginResponse
//	@Failure		400		{object}	httputil.ErrorResponse
//	@Failure		401		{object}	httputil.ErrorResponse	"Invalid credentials"
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		TokenType:    response.TokenTypeBearer,
		ExpiresAt:    result.ExpiresAt,
		User:         response.UserFromEntity(result.User),
	})
}

// Refresh godoc
//
//	@Summary		Refresh access token
//	@Description	Exchange a refresh token for a new token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		request.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	response.RefreshResponse
//	@Failure		400		{object}	httputil.ErrorResponse
//	@Failure		401		{object}	httputil.ErrorResponse	"Token expired/revoked/invalid"
//	@Router			/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	tokens, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.RefreshResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    response.TokenTypeBearer,
		ExpiresAt:    tokens.ExpiresAt,
	})
}

// Logout godoc
//
//	@Summary		Logout user
//	@Description	Revoke all refresh tokens for the user
//	@Tags			auth
//	@Security		BearerAuth
//	@Success		204	"No content"
//	@Failure		401	{object}	httputil.ErrorResponse
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := httputil.GetUserID(c)
	if err := h.authSvc.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	httputil.NoContent(c)
}
