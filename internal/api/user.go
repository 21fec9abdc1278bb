package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/flockr/internal/middleware"
	"github.com/lalith-99/flockr/internal/models"
	"go.uber.org/zap"
)

// UserAccounts edits user records. *service.UserService satisfies it.
type UserAccounts interface {
	Profile(ctx context.Context, userID int) (*models.UserProfile, error)
	SetName(ctx context.Context, callerID int, first, last string) error
	SetEmail(ctx context.Context, callerID int, email string) error
	SetHandle(ctx context.Context, callerID int, handle string) error
	ChangePermission(ctx context.Context, callerID, targetID int, permission models.Permission) error
}

// UserQueries lists users and searches messages.
// *service.QueryService satisfies it.
type UserQueries interface {
	ListUsers(ctx context.Context) []models.UserProfile
	Search(ctx context.Context, callerID int, query string) ([]models.SearchResult, error)
}

// UserHandler handles profiles, the user directory, search and the admin
// permission change.
//
// Profile setters always act on the caller. There is no u_id in their
// request bodies, so one user cannot rename another.
type UserHandler struct {
	users  UserAccounts
	query  UserQueries
	logger *zap.Logger
}

func NewUserHandler(users UserAccounts, query UserQueries, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, query: query, logger: logger}
}

type profileQuery struct {
	UserID int `form:"u_id" binding:"required"`
}

type setNameRequest struct {
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
}

type setEmailRequest struct {
	Email string `json:"email"`
}

type setHandleRequest struct {
	Handle string `json:"handle_str"`
}

type searchQuery struct {
	Query string `form:"query_str"`
}

// PermissionID is not required so that 0 is reported as an invalid
// permission rather than a malformed request.
type permissionChangeRequest struct {
	UserID       int `json:"u_id" binding:"required"`
	PermissionID int `json:"permission_id"`
}

// Profile handles GET /user/profile?u_id=
func (h *UserHandler) Profile(c *gin.Context) {
	var q profileQuery
	if !bindQuery(c, &q) {
		return
	}

	profile, err := h.users.Profile(c.Request.Context(), q.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SetName handles PUT /user/profile/setname
func (h *UserHandler) SetName(c *gin.Context) {
	var req setNameRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.users.SetName(c.Request.Context(), middleware.GetUserID(c), req.NameFirst, req.NameLast))
}

// SetEmail handles PUT /user/profile/setemail
func (h *UserHandler) SetEmail(c *gin.Context) {
	var req setEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.users.SetEmail(c.Request.Context(), middleware.GetUserID(c), req.Email))
}

// SetHandle handles PUT /user/profile/sethandle
func (h *UserHandler) SetHandle(c *gin.Context) {
	var req setHandleRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.users.SetHandle(c.Request.Context(), middleware.GetUserID(c), req.Handle))
}

// All handles GET /users/all
func (h *UserHandler) All(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.query.ListUsers(c.Request.Context())})
}

// Search handles GET /search?query_str=
func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if !bindQuery(c, &q) {
		return
	}

	messages, err := h.query.Search(c.Request.Context(), middleware.GetUserID(c), q.Query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// ChangePermission handles POST /admin/userpermission/change
func (h *UserHandler) ChangePermission(c *gin.Context) {
	var req permissionChangeRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.users.ChangePermission(
		c.Request.Context(),
		middleware.GetUserID(c),
		req.UserID,
		models.Permission(req.PermissionID),
	))
}
