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

type Testimonials struct {
	Testimonials *service.Testimonials
	Log          *zap.Logger
}

func (h Testimonials) MountAPI(r router.Routes) {
	pub := ez.New(r.Public.Group("/testimonials"), h.Log)
	priv := ez.New(r.Private.Group("/testimonials"), h.Log)

	ez.RegisterAction(pub, ez.Action[struct{}, []service.TestimonialView]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.TestimonialView, error) {
			return h.Testimonials.List(c.Request.Context())
		},
	})

	ez.RegisterAction(priv, ez.Action[service.TestimonialInput, *domain.Testimonial]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.TestimonialInput) (*domain.Testimonial, error) {
			return h.Testimonials.Add(c.Request.Context(), ez.Caller(c), *in)
		},
	})

	ez.RegisterAction(priv, ez.Action[service.TestimonialInput, *domain.Testimonial]{
		Method: http.MethodPut, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.TestimonialInput) (*domain.Testimonial, error) {
			return h.Testimonials.Update(c.Request.Context(), ez.Caller(c), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(priv, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := h.Testimonials.Delete(c.Request.Context(), ez.Caller(c), c.Param("id")); err != nil {
				return nil, err
			}
			return ez.Message("Testimonial deleted"), nil
		},
	})
}
