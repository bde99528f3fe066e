package request

// CreateUserRequest is the administrative twin of RegisterRequest.
type CreateUserRequest = RegisterRequest

type ListUsersRequest struct {
	Page int    `form:"page" binding:"min=0"`
	Size int    `form:"size" binding:"min=0"`
	Sort string `form:"sort"`
}

type ReplaceUserRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=32"`
}

// PatchUserRequest is a merge-patch: a missing key and an explicit null both
// decode to nil and leave the stored value alone.
type PatchUserRequest struct {
	Email     *string `json:"email" binding:"omitnil,email,max=255"`
	FirstName *string `json:"first_name" binding:"omitnil,max=100"`
	LastName  *string `json:"last_name" binding:"omitnil,max=100"`
	Phone     *string `json:"phone" binding:"omitnil,max=32"`
	Password  *string `json:"password" binding:"omitnil,min=8,max=72"`
}
