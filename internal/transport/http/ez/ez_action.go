// Package ez 把「绑定入参 → 调用业务 → 统一错误映射 → 包装响应」压成一行注册。
package ez

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"estate-api/internal/core/apperr"
	"estate-api/internal/domain"
	mdw "estate-api/internal/transport/http/middleware"
	resp "estate-api/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string        // "GET" | "POST" | "PUT" | "DELETE"
	Path    string        // 例："/auth/login"、"/posts/:id/approve"
	Binder  Binder        // 绑定方式
	Auth    bool          // 是否要求登录（检查 userId）
	Roles   []domain.Role // 限定角色（可选）
	Handler func(c *gin.Context, in *I) (O, error)
}

// codeOf apperr 分类 → 响应码
func codeOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return resp.CodeBadRequest
	case apperr.KindUnauthenticated, apperr.KindInvalidCredential:
		return resp.CodeUnauthorized
	case apperr.KindForbidden:
		return resp.CodeForbidden
	case apperr.KindNotFound:
		return resp.CodeNotFound
	case apperr.KindConflict:
		return resp.CodeConflict
	default:
		return resp.CodeServerError
	}
}

// Fail 写错误响应；内部错误只对外暴露固定文案，原因进日志
func (e EZ) Fail(c *gin.Context, err error) {
	code := codeOf(err)
	if code == resp.CodeServerError {
		e.log.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("uid", c.GetString(mdw.KeyUserID)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	resp.Abort(c, code, apperr.Message(err))
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			caller, ok := mdw.CallerOf(c)
			if !ok {
				resp.Abort(c, resp.CodeUnauthorized, "Not Authenticated!")
				return
			}
			if len(a.Roles) > 0 && !slices.Contains(a.Roles, caller.Role) {
				resp.Abort(c, resp.CodeForbidden, "Not authorized!")
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			resp.Abort(c, resp.CodeBadRequest, "Invalid request body")
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			e.Fail(c, err)
			return
		}
		resp.Write(c, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// Caller 取已鉴权的调用方；只在 Auth 动作或鉴权分组里调用
func Caller(c *gin.Context) domain.Caller {
	caller, _ := mdw.CallerOf(c)
	return caller
}

// OptionalCaller 匿名访问时返回 nil
func OptionalCaller(c *gin.Context) *domain.Caller {
	caller, ok := mdw.CallerOf(c)
	if !ok {
		return nil
	}
	return &caller
}

// Message 只带提示语的成功体
func Message(msg string) gin.H { return gin.H{"message": msg} }
