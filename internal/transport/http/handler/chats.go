package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"estate-api/internal/domain"
	"estate-api/internal/service"
	"estate-api/internal/transport/http/ez"
	"estate-api/internal/transport/http/router"
)

// Chats 聊天和消息两组路由
type Chats struct {
	Chats     *service.Chats
	Integrity *service.Integrity
	Log       *zap.Logger
}

type newChatIn struct {
	ReceiverID string `json:"receiverId"`
}

type messageIn struct {
	Text string `json:"text"`
}

func (h Chats) MountAPI(r router.Routes) {
	e := ez.New(r.Private.Group("/chats"), h.Log)

	ez.RegisterAction(e, ez.Action[struct{}, []service.ChatSummary]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.ChatSummary, error) {
			return h.Chats.ListChats(c.Request.Context(), ez.Caller(c).ID)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *service.ChatThread]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.ChatThread, error) {
			return h.Chats.MarkSeenByViewing(c.Request.Context(), ez.Caller(c).ID, c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[newChatIn, *service.ChatSummary]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *newChatIn) (*service.ChatSummary, error) {
			return h.Chats.Create(c.Request.Context(), ez.Caller(c).ID, in.ReceiverID)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Chat]{
		Method: http.MethodPut, Path: "/read/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Chat, error) {
			return h.Chats.MarkSeenExplicit(c.Request.Context(), ez.Caller(c).ID, c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.Integrity.DeleteChat(c.Request.Context(), ez.Caller(c), c.Param("id")); err != nil {
				return nil, err
			}
			return ez.Message("Chat deleted"), nil
		},
	})

	msgs := ez.New(r.Private.Group("/messages"), h.Log)
	ez.RegisterAction(msgs, ez.Action[messageIn, *domain.Message]{
		Method: http.MethodPost, Path: "/:chatId", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *messageIn) (*domain.Message, error) {
			return h.Chats.SendMessage(c.Request.Context(), ez.Caller(c).ID, c.Param("chatId"), in.Text)
		},
	})
}
