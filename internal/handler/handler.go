package handler

import (
	"github.com/labstack/echo/v4"

	apperrors "bistro/internal/errors"
	"bistro/internal/model"
)

// contextUserKey is where the session middleware stores the resolved user.
const contextUserKey = "session_user"

// SetCurrentUser stores the resolved identity on the request context.
func SetCurrentUser(c echo.Context, user *model.User) {
	c.Set(contextUserKey, user)
}

// currentUser returns the resolved identity, or nil for anonymous requests.
func currentUser(c echo.Context) *model.User {
	user, _ := c.Get(contextUserKey).(*model.User)
	return user
}

// respondError translates a domain error into the standard error envelope.
func respondError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// PageResponse is the envelope for paginated listings.
type PageResponse struct {
	Items      interface{} `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

func newPageResponse(items interface{}, page, pageSize int, total int64) PageResponse {
	totalPages := 0
	if pageSize > 0 && total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PageResponse{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
