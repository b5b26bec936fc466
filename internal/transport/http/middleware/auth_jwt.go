package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"estate-api/internal/core/auth"
	"estate-api/internal/domain"
	resp "estate-api/internal/transport/http/response"
)

const (
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyCaller = "caller"

	// TokenCookie 登录时写入的 cookie 名
	TokenCookie = "token"
)

// tokenFrom 优先 Authorization: Bearer，其次 cookie
func tokenFrom(c *gin.Context) string {
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
	}
	if tok, err := c.Cookie(TokenCookie); err == nil {
		return tok
	}
	return ""
}

func setCaller(c *gin.Context, claims *auth.Claims) {
	c.Set(KeyUserID, claims.UID)
	c.Set(KeyRole, claims.Role)
	c.Set(KeyCaller, domain.Caller{ID: claims.UID, Role: domain.Role(claims.Role)})
}

// AuthJWT 必须登录；requireRole 非空时还要求角色匹配
func AuthJWT(j *auth.JWTer, requireRole domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := tokenFrom(c)
		if tok == "" {
			resp.Abort(c, resp.CodeUnauthorized, "Not Authenticated!")
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "Token is not Valid!")
			return
		}
		if requireRole != "" && domain.Role(claims.Role) != requireRole {
			resp.Abort(c, resp.CodeForbidden, "Not authorized!")
			return
		}
		setCaller(c, claims)
		c.Next()
	}
}

// OptionalAuth 有合法 token 就解析身份，没有或无效都按匿名放行
func OptionalAuth(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := tokenFrom(c); tok != "" {
			if claims, err := j.Parse(tok); err == nil {
				setCaller(c, claims)
			}
		}
		c.Next()
	}
}

// CallerOf 取鉴权中间件写入的调用方
func CallerOf(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(KeyCaller)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}
