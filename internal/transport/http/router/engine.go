package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"estate-api/internal/core/auth"
	"estate-api/internal/core/server"
	mdw "estate-api/internal/transport/http/middleware"
	resp "estate-api/internal/transport/http/response"
)

// Deps 两个引擎共用的依赖
type Deps struct {
	Log      *zap.Logger
	JWT      *auth.JWTer
	Server   server.Options
	Registry *Registry
}

func onPanic(c *gin.Context, _ any) {
	resp.Abort(c, resp.CodeServerError, "Internal Server Error")
}

// baseEngine 中间件顺序：请求 id → 限流 → 并发 → 体积 → 超时 → 指标 → 访问日志
func baseEngine(d Deps, name string) *gin.Engine {
	r := server.NewRouter(d.Log, d.Server, onPanic)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(name),
		mdw.AccessLog(d.Log.Named(name), "/health", "/metrics"),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, resp.CodeNotFound, "") })
	return r
}
