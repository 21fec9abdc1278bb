package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/flockr/internal/middleware"
	"github.com/lalith-99/flockr/internal/observ"
	"github.com/lalith-99/flockr/internal/service"
	"go.uber.org/zap"
)

// NewRouter wires every endpoint onto a fresh gin engine.
//
// Middleware order matters: ErrorHandler sits outside AuthMiddleware so it can
// render the error an aborted auth check records.
func NewRouter(svc *service.Services, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(observ.GinLogger(logger), gin.Recovery(), middleware.ErrorHandler(logger))

	authH := NewAuthHandler(svc.Identity, logger)
	channelH := NewChannelHandler(svc.Channels, svc.Query, logger)
	messageH := NewMessageHandler(svc.Messages, logger)
	userH := NewUserHandler(svc.Users, svc.Query, logger)

	// Public.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/auth/register", authH.Register)
	r.POST("/auth/login", authH.Login)
	r.POST("/auth/logout", authH.Logout)
	r.DELETE("/clear", func(c *gin.Context) {
		respondEmpty(c, svc.Clear(c.Request.Context()))
	})

	// Everything else needs a live session.
	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(svc.Identity))

	authed.POST("/channels/create", channelH.Create)
	authed.GET("/channels/list", channelH.List)
	authed.GET("/channels/listall", channelH.ListAll)

	authed.GET("/channel/details", channelH.Details)
	authed.GET("/channel/messages", channelH.Messages)
	authed.POST("/channel/invite", channelH.Invite)
	authed.POST("/channel/join", channelH.Join)
	authed.POST("/channel/leave", channelH.Leave)
	authed.POST("/channel/addowner", channelH.AddOwner)
	authed.POST("/channel/removeowner", channelH.RemoveOwner)

	authed.POST("/message/send", messageH.Send)
	authed.POST("/message/sendlater", messageH.SendLater)
	authed.PUT("/message/edit", messageH.Edit)
	authed.DELETE("/message/remove", messageH.Remove)
	authed.POST("/message/react", messageH.React)
	authed.POST("/message/unreact", messageH.Unreact)
	authed.POST("/message/pin", messageH.Pin)
	authed.POST("/message/unpin", messageH.Unpin)

	authed.GET("/user/profile", userH.Profile)
	authed.PUT("/user/profile/setname", userH.SetName)
	authed.PUT("/user/profile/setemail", userH.SetEmail)
	authed.PUT("/user/profile/sethandle", userH.SetHandle)
	authed.GET("/users/all", userH.All)
	authed.GET("/search", userH.Search)
	authed.POST("/admin/userpermission/change", userH.ChangePermission)

	return r
}
