package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/flockr/internal/middleware"
	"go.uber.org/zap"
)

// Messenger is the message lifecycle as MessageHandler uses it.
// *service.MessageService satisfies it.
type Messenger interface {
	Send(ctx context.Context, callerID, channelID int, body string) (int, error)
	SendLater(ctx context.Context, token string, channelID int, body string, timeSent int64) error
	Edit(ctx context.Context, callerID, messageID int, body string) error
	Remove(ctx context.Context, callerID, messageID int) error
	React(ctx context.Context, callerID, messageID, reactID int) error
	Unreact(ctx context.Context, callerID, messageID, reactID int) error
	Pin(ctx context.Context, callerID, messageID int) error
	Unpin(ctx context.Context, callerID, messageID int) error
}

// MessageHandler holds the /message/* endpoints.
//
// Why does SendLater take the token and not the caller id?
//   - The message is posted later, when the timer fires. The session may
//     have ended by then, and the service has to resolve it again.
//   - Every other endpoint acts now, so the id AuthMiddleware resolved is
//     enough.
type MessageHandler struct {
	messages Messenger
	logger   *zap.Logger
}

func NewMessageHandler(messages Messenger, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

type sendMessageRequest struct {
	ChannelID int    `json:"channel_id" binding:"required"`
	Message   string `json:"message"`
}

type sendLaterRequest struct {
	ChannelID int    `json:"channel_id" binding:"required"`
	Message   string `json:"message"`
	TimeSent  int64  `json:"time_sent" binding:"required"`
}

type editMessageRequest struct {
	MessageID int    `json:"message_id" binding:"required"`
	Message   string `json:"message"`
}

type messageRequest struct {
	MessageID int `json:"message_id" binding:"required"`
}

// ReactID is deliberately not required: 0 must reach the service and fail as
// an invalid react kind.
type reactRequest struct {
	MessageID int `json:"message_id" binding:"required"`
	ReactID   int `json:"react_id"`
}

// Send handles POST /message/send
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.messages.Send(c.Request.Context(), middleware.GetUserID(c), req.ChannelID, req.Message)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": id})
}

// SendLater handles POST /message/sendlater
func (h *MessageHandler) SendLater(c *gin.Context) {
	var req sendLaterRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.messages.SendLater(c.Request.Context(), middleware.GetToken(c), req.ChannelID, req.Message, req.TimeSent))
}

// Edit handles PUT /message/edit
func (h *MessageHandler) Edit(c *gin.Context) {
	var req editMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.messages.Edit(c.Request.Context(), middleware.GetUserID(c), req.MessageID, req.Message))
}

// Remove handles DELETE /message/remove
func (h *MessageHandler) Remove(c *gin.Context) {
	var req messageRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.messages.Remove(c.Request.Context(), middleware.GetUserID(c), req.MessageID))
}

// React handles POST /message/react
func (h *MessageHandler) React(c *gin.Context) {
	var req reactRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.messages.React(c.Request.Context(), middleware.GetUserID(c), req.MessageID, req.ReactID))
}

// Unreact handles POST /message/unreact
func (h *MessageHandler) Unreact(c *gin.Context) {
	var req reactRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.messages.Unreact(c.Request.Context(), middleware.GetUserID(c), req.MessageID, req.ReactID))
}

// Pin handles POST /message/pin
func (h *MessageHandler) Pin(c *gin.Context) {
	var req messageRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.messages.Pin(c.Request.Context(), middleware.GetUserID(c), req.MessageID))
}

// Unpin handles POST /message/unpin
func (h *MessageHandler) Unpin(c *gin.Context) {
	var req messageRequest
	if !bindJSON(c, &req) {
		return
	}
	respondEmpty(c, h.messages.Unpin(c.Request.Context(), middleware.GetUserID(c), req.MessageID))
}
