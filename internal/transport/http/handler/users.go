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

type Users struct {
	Users     *service.Users
	Integrity *service.Integrity
	Chats     *service.Chats
	Log       *zap.Logger
}

type saveIn struct {
	PostID string `json:"postId"`
}

func (h Users) MountAPI(r router.Routes) {
	e := ez.New(r.Private.Group("/users"), h.Log)

	// 静态路径先注册，和 /:id 并存
	ez.RegisterAction(e, ez.Action[saveIn, gin.H]{
		Method: http.MethodPost, Path: "/save", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *saveIn) (gin.H, error) {
			saved, err := h.Users.ToggleSaved(c.Request.Context(), ez.Caller(c), in.PostID)
			if err != nil {
				return nil, err
			}
			if saved {
				return ez.Message("Post saved"), nil
			}
			return ez.Message("Post removed from saved list"), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *service.ProfilePosts]{
		Method: http.MethodGet, Path: "/profilePosts", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.ProfilePosts, error) {
			return h.Users.ProfilePosts(c.Request.Context(), ez.Caller(c).ID)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, int]{
		Method: http.MethodGet, Path: "/notification", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (int, error) {
			return h.Chats.UnreadChatCount(c.Request.Context(), ez.Caller(c).ID)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.PublicProfile]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.PublicProfile, error) {
			return h.Users.List(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.Users.Get(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[service.UpdateUserInput, *domain.User]{
		Method: http.MethodPut, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdateUserInput) (*domain.User, error) {
			return h.Users.Update(c.Request.Context(), ez.Caller(c), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.Integrity.DeleteUser(c.Request.Context(), ez.Caller(c), c.Param("id")); err != nil {
				return nil, err
			}
			return ez.Message("User deleted"), nil
		},
	})
}
