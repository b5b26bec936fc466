// Package service 业务层：实体生命周期（级联删除）、帖子审核状态机、聊天已读追踪，
// 以及围绕它们的用户/评价/重置密码等常规用例。只依赖 domain.Store，不感知 HTTP。
package service

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"estate-api/internal/core/apperr"
	"estate-api/internal/domain"
	"estate-api/pkg/utils"
)

var (
	ErrNotAuthorized       = apperr.Forbidden("Not Authorized!")
	ErrAdminOnly           = apperr.Forbidden("Not authorized!")
	ErrUserNotFound        = apperr.NotFound("User not found!")
	ErrPostNotFound        = apperr.NotFound("Post not found")
	ErrChatNotFound        = apperr.NotFound("Chat not found!")
	ErrTestimonialNotFound = apperr.NotFound("Testimonial not found")
	ErrInvalidRating       = apperr.Validation("Rating must be between 1 and 5")
	ErrInvalidCredentials  = apperr.InvalidCredential("Invalid Credentials!")
	ErrInvalidResetToken   = apperr.Validation("Invalid or expired token")
)

var cascadeTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "marketplace_cascade_total",
		Help: "Cascade deletions by root entity and outcome",
	},
	[]string{"root", "outcome"},
)

func init() { prometheus.MustRegister(cascadeTotal) }

func checkID(id, what string) error {
	if !utils.ValidID(id) {
		return apperr.Validation("Invalid " + what + " ID")
	}
	return nil
}

// newValidator 报错字段名用 json tag，和请求体保持一致
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return apperr.Validation("Invalid field " + fe.Namespace() + ": failed " + fe.Tag())
	}
	return apperr.Validation(err.Error())
}

// PostWithDetail 帖子 + 详情（详情可能缺失）
type PostWithDetail struct {
	domain.Post
	PostDetail *domain.PostDetail `json:"postDetail"`
}

func withDetails(ctx context.Context, s domain.Store, posts []domain.Post) ([]PostWithDetail, error) {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	details, err := s.PostDetails().FindByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byPost := make(map[string]*domain.PostDetail, len(details))
	for i := range details {
		byPost[details[i].PostID] = &details[i]
	}
	out := make([]PostWithDetail, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostWithDetail{Post: p, PostDetail: byPost[p.ID]})
	}
	return out, nil
}
