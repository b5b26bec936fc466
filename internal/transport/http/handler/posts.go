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

type Posts struct {
	Listings   *service.Listings
	Moderation *service.Moderation
	Integrity  *service.Integrity
	Log        *zap.Logger
}

type browseQ struct {
	City     string `form:"city"`
	Type     string `form:"type"`
	Property string `form:"property"`
	Bedroom  int    `form:"bedroom"`
	MinPrice int    `form:"minPrice"`
	MaxPrice int    `form:"maxPrice"`
}

func (h Posts) MountAPI(r router.Routes) {
	pub := ez.New(r.Public.Group("/posts"), h.Log)
	opt := ez.New(r.Optional.Group("/posts"), h.Log)
	priv := ez.New(r.Private.Group("/posts"), h.Log)

	ez.RegisterAction(pub, ez.Action[browseQ, []domain.Post]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, q *browseQ) ([]domain.Post, error) {
			return h.Listings.Browse(c.Request.Context(), domain.PostFilter{
				City: q.City, Type: q.Type, Property: q.Property,
				Bedroom: q.Bedroom, MinPrice: q.MinPrice, MaxPrice: q.MaxPrice,
			})
		},
	})

	ez.RegisterAction(opt, ez.Action[struct{}, *service.PostView]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.PostView, error) {
			return h.Listings.Get(c.Request.Context(), ez.OptionalCaller(c), c.Param("id"))
		},
	})

	ez.RegisterAction(priv, ez.Action[service.ListingInput, *service.PostWithDetail]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.ListingInput) (*service.PostWithDetail, error) {
			return h.Moderation.Submit(c.Request.Context(), ez.Caller(c).ID, *in)
		},
	})

	ez.RegisterAction(priv, ez.Action[service.ListingInput, *service.PostWithDetail]{
		Method: http.MethodPut, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.ListingInput) (*service.PostWithDetail, error) {
			return h.Listings.Update(c.Request.Context(), ez.Caller(c), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(priv, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.Integrity.DeletePost(c.Request.Context(), ez.Caller(c), c.Param("id")); err != nil {
				return nil, err
			}
			return ez.Message("Post deleted"), nil
		},
	})
}
