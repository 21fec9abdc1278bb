package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/lalith-99/flockr/internal/middleware"
	"github.com/lalith-99/flockr/internal/service"
	"go.uber.org/zap"
)

// Identity is the part of the identity service AuthHandler calls.
type Identity interface {
	Register(ctx context.Context, email, password, first, last string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	EndSession(ctx context.Context, token string) (bool, error)
}

// AuthHandler handles register, login and logout, the only endpoints that do
// not need a live session.
//
// Why does logout sit outside the auth group?
//   - Logging out a token that is already dead must still answer 200 with
//     is_success false. Behind AuthMiddleware it would be a 403 instead.
//   - The handler reads the token itself with middleware.TokenFromRequest,
//     so header, query and body tokens all work the same as elsewhere.
type AuthHandler struct {
	identity Identity
	logger   *zap.Logger
}

func NewAuthHandler(identity Identity, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, logger: logger}
}

// Field checks (name, email, password) are done by the service so they come
// back as typed input errors rather than binding failures.
type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.identity.Register(c.Request.Context(), req.Email, req.Password, req.NameFirst, req.NameLast)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout handles POST /auth/logout
//
// Logging out an unknown or already-ended session is not an error; the
// response just says nothing was removed.
func (h *AuthHandler) Logout(c *gin.Context) {
	removed, err := h.identity.EndSession(c.Request.Context(), middleware.TokenFromRequest(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_success": removed})
}

// bindJSON decodes the (possibly already cached) JSON body into req. On
// failure it records an InvalidRequest error and returns false.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindBodyWith(req, binding.JSON); err != nil {
		_ = c.Error(invalidRequest(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		_ = c.Error(invalidRequest(err))
		return false
	}
	return true
}
