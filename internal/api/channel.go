package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/flockr/internal/middleware"
	"github.com/lalith-99/flockr/internal/models"
	"go.uber.org/zap"
)

// ChannelCommands changes channels and their membership lists.
// *service.ChannelService satisfies it.
type ChannelCommands interface {
	Create(ctx context.Context, callerID int, name string, isPublic bool) (int, error)
	Invite(ctx context.Context, callerID, channelID, inviteeID int) error
	Join(ctx context.Context, callerID, channelID int) error
	Leave(ctx context.Context, callerID, channelID int) error
	AddOwner(ctx context.Context, callerID, channelID, targetID int) error
	RemoveOwner(ctx context.Context, callerID, channelID, targetID int) error
}

// ChannelQueries reads channels. *service.QueryService satisfies it.
type ChannelQueries interface {
	ListJoinedChannels(ctx context.Context, callerID int) ([]models.ChannelSummary, error)
	ListAllChannels(ctx context.Context) []models.ChannelSummary
	ChannelDetails(ctx context.Context, callerID, channelID int) (*models.ChannelDetails, error)
	ChannelMessages(ctx context.Context, callerID, channelID, start int) (*models.MessagePage, error)
}

// ChannelHandler holds the channel and membership endpoints.
//
// Why two interfaces and not one channel service?
//   - Writes go through the Directory's write lock and reads through its read
//     lock, and the services are split the same way.
//   - A test can fake the read side without building any channels.
//
// The handler never checks membership or ownership itself. It binds the
// request, hands the caller id from AuthMiddleware to the service, and lets
// ErrorHandler turn a failure into a 400 or 403.
type ChannelHandler struct {
	channels ChannelCommands
	query    ChannelQueries
	logger   *zap.Logger
}

func NewChannelHandler(channels ChannelCommands, query ChannelQueries, logger *zap.Logger) *ChannelHandler {
	return &ChannelHandler{channels: channels, query: query, logger: logger}
}

type createChannelRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

// IDs are required because 0 is never a valid id; a missing field is a
// malformed request rather than an unknown channel.
type channelRequest struct {
	ChannelID int `json:"channel_id" binding:"required"`
}

type channelUserRequest struct {
	ChannelID int `json:"channel_id" binding:"required"`
	UserID    int `json:"u_id" binding:"required"`
}

type channelQuery struct {
	ChannelID int `form:"channel_id" binding:"required"`
}

type channelMessagesQuery struct {
	ChannelID int `form:"channel_id" binding:"required"`
	Start     int `form:"start"`
}

// Create handles POST /channels/create
func (h *ChannelHandler) Create(c *gin.Context) {
	var req createChannelRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.channels.Create(c.Request.Context(), middleware.GetUserID(c), req.Name, req.IsPublic)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel_id": id})
}

// List handles GET /channels/list
func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.query.ListJoinedChannels(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// ListAll handles GET /channels/listall
func (h *ChannelHandler) ListAll(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"channels": h.query.ListAllChannels(c.Request.Context())})
}

// Details handles GET /channel/details?channel_id=
func (h *ChannelHandler) Details(c *gin.Context) {
	var q channelQuery
	if !bindQuery(c, &q) {
		return
	}

	details, err := h.query.ChannelDetails(c.Request.Context(), middleware.GetUserID(c), q.ChannelID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Messages handles GET /channel/messages?channel_id=&start=
func (h *ChannelHandler) Messages(c *gin.Context) {
	var q channelMessagesQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.query.ChannelMessages(c.Request.Context(), middleware.GetUserID(c), q.ChannelID, q.Start)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Invite handles POST /channel/invite
func (h *ChannelHandler) Invite(c *gin.Context) {
	var req channelUserRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.channels.Invite(c.Request.Context(), middleware.GetUserID(c), req.ChannelID, req.UserID))
}

// Join handles POST /channel/join
func (h *ChannelHandler) Join(c *gin.Context) {
	var req channelRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.channels.Join(c.Request.Context(), middleware.GetUserID(c), req.ChannelID))
}

// Leave handles POST /channel/leave
func (h *ChannelHandler) Leave(c *gin.Context) {
	var req channelRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.channels.Leave(c.Request.Context(), middleware.GetUserID(c), req.ChannelID))
}

// AddOwner handles POST /channel/addowner
func (h *ChannelHandler) AddOwner(c *gin.Context) {
	var req channelUserRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.channels.AddOwner(c.Request.Context(), middleware.GetUserID(c), req.ChannelID, req.UserID))
}

// RemoveOwner handles POST /channel/removeowner
func (h *ChannelHandler) RemoveOwner(c *gin.Context) {
	var req channelUserRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.channels.RemoveOwner(c.Request.Context(), middleware.GetUserID(c), req.ChannelID, req.UserID))
}

// respondEmpty writes {} on success, or records err for the ErrorHandler.
func respondEmpty(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
