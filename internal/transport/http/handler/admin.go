package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"estate-api/internal/domain"
	"estate-api/internal/service"
	"estate-api/internal/transport/http/ez"
)

// Admin 管理端：审核队列、通过/驳回、删除用户或帖子。分组和每个动作都要求 admin 角色。
type Admin struct {
	Users      *service.Users
	Moderation *service.Moderation
	Integrity  *service.Integrity
	Log        *zap.Logger
}

var adminOnly = []domain.Role{domain.RoleAdmin}

type queueQ struct {
	State string `form:"state"`
}

func (h Admin) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.Log)

	ez.RegisterAction(e, ez.Action[struct{}, []service.UserWithPosts]{
		Method: http.MethodGet, Path: "/users", Binder: ez.BindNone, Auth: true, Roles: adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.UserWithPosts, error) {
			return h.Users.UsersWithPosts(c.Request.Context(), ez.Caller(c))
		},
	})

	ez.RegisterAction(e, ez.Action[queueQ, []service.PostWithDetail]{
		Method: http.MethodGet, Path: "/posts", Binder: ez.BindQuery, Auth: true, Roles: adminOnly,
		Handler: func(c *gin.Context, q *queueQ) ([]service.PostWithDetail, error) {
			return h.Moderation.Queue(c.Request.Context(), ez.Caller(c), domain.ModerationState(q.State))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Post]{
		Method: http.MethodPost, Path: "/posts/:id/approve", Binder: ez.BindNone, Auth: true, Roles: adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Post, error) {
			return h.Moderation.Approve(c.Request.Context(), ez.Caller(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost, Path: "/posts/:id/reject", Binder: ez.BindNone, Auth: true, Roles: adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.Moderation.Reject(c.Request.Context(), ez.Caller(c), c.Param("id")); err != nil {
				return nil, err
			}
			return ez.Message("Post rejected and deleted"), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete, Path: "/users/:id", Binder: ez.BindNone, Auth: true, Roles: adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.Integrity.DeleteUser(c.Request.Context(), ez.Caller(c), c.Param("id")); err != nil {
				return nil, err
			}
			return ez.Message("User deleted"), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete, Path: "/posts/:id", Binder: ez.BindNone, Auth: true, Roles: adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.Integrity.DeletePost(c.Request.Context(), ez.Caller(c), c.Param("id")); err != nil {
				return nil, err
			}
			return ez.Message("Post deleted"), nil
		},
	})
}
