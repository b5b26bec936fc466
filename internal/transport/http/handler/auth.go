// Package handler 把各业务模块挂到路由上；只做参数搬运，规则都在 service 里。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"estate-api/internal/core/auth"
	"estate-api/internal/domain"
	"estate-api/internal/service"
	"estate-api/internal/transport/http/ez"
	mdw "estate-api/internal/transport/http/middleware"
	"estate-api/internal/transport/http/router"
)

type Auth struct {
	Users        *service.Users
	Reset        *service.PasswordReset
	JWT          *auth.JWTer
	SecureCookie bool
	Log          *zap.Logger
}

func (Auth) Priority() int { return 10 }

type loginOut struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type forgotIn struct {
	Email string `json:"email"`
}

type resetIn struct {
	Password string `json:"password"`
}

func (h Auth) MountAPI(r router.Routes) {
	// 公开写接口额外按 IP 限速
	g := r.Public.Group("/auth", mdw.RateLimitPerIP(5, 20))
	e := ez.New(g, h.Log)

	ez.RegisterAction(e, ez.Action[service.RegisterInput, gin.H]{
		Method: http.MethodPost, Path: "/register", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.RegisterInput) (gin.H, error) {
			if _, err := h.Users.Register(c.Request.Context(), *in); err != nil {
				return nil, err
			}
			return ez.Message("User created successfully"), nil
		},
	})

	ez.RegisterAction(e, ez.Action[service.LoginInput, loginOut]{
		Method: http.MethodPost, Path: "/login", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.LoginInput) (loginOut, error) {
			u, err := h.Users.Authenticate(c.Request.Context(), *in)
			if err != nil {
				return loginOut{}, err
			}
			tok, err := h.JWT.Issue(u.ID, string(u.Role))
			if err != nil {
				return loginOut{}, err
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(mdw.TokenCookie, tok, int(h.JWT.TTL.Seconds()), "/", "", h.SecureCookie, true)
			return loginOut{User: u, Token: tok}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost, Path: "/logout", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			c.SetCookie(mdw.TokenCookie, "", -1, "/", "", h.SecureCookie, true)
			return ez.Message("Logout Successful"), nil
		},
	})

	ez.RegisterAction(e, ez.Action[forgotIn, gin.H]{
		Method: http.MethodPost, Path: "/forgot-password", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *forgotIn) (gin.H, error) {
			if err := h.Reset.Forgot(c.Request.Context(), in.Email); err != nil {
				return nil, err
			}
			return ez.Message("Password reset link sent to your email"), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodGet, Path: "/reset-password/:token", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.Reset.Verify(c.Request.Context(), c.Param("token")); err != nil {
				return nil, err
			}
			return ez.Message("Valid token"), nil
		},
	})

	ez.RegisterAction(e, ez.Action[resetIn, gin.H]{
		Method: http.MethodPost, Path: "/reset-password/:token", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *resetIn) (gin.H, error) {
			if err := h.Reset.Reset(c.Request.Context(), c.Param("token"), in.Password); err != nil {
				return nil, err
			}
			return ez.Message("Password has been reset successfully"), nil
		},
	})
}
