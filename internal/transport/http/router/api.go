package router

import (
	"github.com/gin-gonic/gin"

	mdw "estate-api/internal/transport/http/middleware"
)

func NewAPIEngine(d Deps) *gin.Engine {
	r := baseEngine(d, "api")

	// 前缀
	api := r.Group("/api/v1")

	routes := Routes{
		Public:   api.Group(""),
		Optional: api.Group("", mdw.OptionalAuth(d.JWT)),
		Private:  api.Group("", mdw.AuthJWT(d.JWT, "")),
	}
	d.Registry.MountAllAPI(routes)
	return r
}
