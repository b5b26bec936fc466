package router

import (
	"github.com/gin-gonic/gin"

	"estate-api/internal/domain"
	mdw "estate-api/internal/transport/http/middleware"
)

func NewAdminEngine(d Deps) *gin.Engine {
	r := baseEngine(d, "admin")

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, domain.RoleAdmin))

	d.Registry.MountAllAdmin(admin)
	return r
}
