package response

import (
	"github.com/marcos-nsantos/accounts-backend/internal/domain/entity"
	"github.com/marcos-nsantos/accounts-backend/internal/pkg/pagination"
)

type PageResponse struct {
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	TotalElements int  `json:"total_elements"`
	TotalPages    int  `json:"total_pages"`
	HasNext       bool `json:"has_next"`
	HasPrev       bool `json:"has_prev"`
}

type UsersPageResponse struct {
	Users []UserResponse `json:"users"`
	Page  PageResponse   `json:"page"`
}

func PageFromInfo(info *pagination.Info) PageResponse {
	return PageResponse{
		Number:        info.Page,
		Size:          info.Size,
		TotalElements: info.TotalItems,
		TotalPages:    info.TotalPages,
		HasNext:       info.HasNext,
		HasPrev:       info.HasPrev,
	}
}

func UsersPage(users []entity.User, info *pagination.Info) UsersPageResponse {
	return UsersPageResponse{
		Users: UsersFromEntities(users),
		Page:  PageFromInfo(info),
	}
}
