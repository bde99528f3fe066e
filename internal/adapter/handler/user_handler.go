package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/accounts-backend/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/accounts-backend/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/accounts-backend/internal/domain"
	"github.com/marcos-nsantos/accounts-backend/internal/pkg/httputil"
	"github.com/marcos-nsantos/accounts-backend/internal/pkg/pagination"
	"github.com/marcos-nsantos/accounts-backend/internal/usecase/auth"
	"github.com/marcos-nsantos/accounts-backend/internal/usecase/user"
)

type UserHandler struct {
	userSvc UserService
	authSvc AuthService
}

func NewUserHandler(userSvc UserService, authSvc AuthService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
		authSvc: authSvc,
	}
}

// List godoc
//
//	@Summary		List users
//	@Description	Page through users. Pages are zero-indexed.
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page	query		int		false	"Page number (from 0)"
//	@Param			size	query		int		false	"Page size (max 100)"
//	@Param			sort	query		string	false	"Sort as field,direction e.g. id,desc"
//	@Success		200		{object}	response.UsersPageResponse
//	@Failure		400		{object}	httputil.ErrorResponse
//	@Failure		401		{object}	httputil.ErrorResponse
//	@Router			/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var req request.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	sort := pagination.ParseSort(req.Sort)

	users, pageInfo, err := h.userSvc.List(c.Request.Context(), user.ListInput{
		Page:          req.Page,
		Size:          req.Size,
		SortField:     sort.Field,
		SortDirection: string(sort.Direction),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.UsersPage(users, pageInfo))
}

// Create godoc
//
//	@Summary		Create a user
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		request.CreateUserRequest	true	"User data"
//	@Success		201		{object}	response.UserResponse
//	@Failure		400		{object}	httputil.ErrorResponse
//	@Failure		409		{object}	httputil.ErrorResponse
//	@Router			/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req request.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	u, err := h.authSvc.Register(c.Request.Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.Created(c, response.UserFromEntity(u))
}

// Me godoc
//
//	@Summary	Current user
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	response.UserResponse
//	@Failure	401	{object}	httputil.ErrorResponse
//	@Failure	404	{object}	httputil.ErrorResponse
//	@Router		/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.userSvc.Current(c.Request.Context(), httputil.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.UserFromEntity(u))
}

// Get godoc
//
//	@Summary	Get a user
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"User ID"
//	@Success	200	{object}	response.UserResponse
//	@Failure	400	{object}	httputil.ErrorResponse
//	@Failure	404	{object}	httputil.ErrorResponse
//	@Router		/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	u, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil {
		respondError(c, domain.ErrUserNotFound)
		return
	}

	httputil.OK(c, response.UserFromEntity(u))
}

// Replace godoc
//
//	@Summary		Replace a user
//	@Description	Overwrite every profile field. The password is not touched.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int							true	"User ID"
//	@Param			request	body		request.ReplaceUserRequest	true	"User data"
//	@Success		200		{object}	response.UserResponse
//	@Failure		400		{object}	httputil.ErrorResponse
//	@Failure		404		{object}	httputil.ErrorResponse
//	@Failure		409		{object}	httputil.ErrorResponse
//	@Router			/users/{id} [put]
func (h *UserHandler) Replace(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req request.ReplaceUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	u, err := h.userSvc.Replace(c.Request.Context(), id, user.ReplaceInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.UserFromEntity(u))
}

// Patch godoc
//
//	@Summary		Patch a user
//	@Description	Merge-patch: absent keys and nulls are left unchanged, unknown keys are rejected.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int							true	"User ID"
//	@Param			request	body		request.PatchUserRequest	true	"Fields to change"
//	@Success		200		{object}	response.UserResponse
//	@Failure		400		{object}	httputil.ErrorResponse
//	@Failure		404		{object}	httputil.ErrorResponse
//	@Failure		409		{object}	httputil.ErrorResponse
//	@Router			/users/{id} [patch]
func (h *UserHandler) Patch(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req request.PatchUserRequest
	if err := bindStrictJSON(c, &req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	u, err := h.userSvc.Patch(c.Request.Context(), id, user.PatchInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil {
		respondError(c, domain.ErrUserNotFound)
		return
	}

	httputil.OK(c, response.UserFromEntity(u))
}

// Delete godoc
//
//	@Summary	Delete a user
//	@Tags		users
//	@Security	BearerAuth
//	@Param		id	path	int	true	"User ID"
//	@Success	204	"No content"
//	@Failure	404	{object}	httputil.ErrorResponse
//	@Router		/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	httputil.NoContent(c)
}
