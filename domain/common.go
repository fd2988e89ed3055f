package domain

import (
	"errors"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageServerError          = "Server error"

	ErrParseUUID       = errors.New("failed to parse UUID")
	ErrTokenNotFound   = errors.New("no token, authorization denied")
	ErrTokenInvalid    = errors.New("token is not valid")
	ErrTokenExpired    = errors.New("token has expired")
	ErrInvalidFileType = errors.New("file type is not allowed")
)

type (
	Pagination struct {
		CurrentPage  int   `json:"currentPage"`
		TotalPages   int   `json:"totalPages"`
		TotalRecipes int64 `json:"totalRecipes"`
		HasMore      bool  `json:"hasMore"`
	}

	// Author is the public face of a user attached to recipes and comments.
	Author struct {
		Username     string `json:"username"`
		ProfileImage string `json:"profile_image,omitempty"`
	}
)

// NewPagination derives page metadata from a total match count.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalRecipes: total,
		HasMore:      page < totalPages,
	}
}
