package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"estate-api/internal/core/apperr"
	"estate-api/internal/domain"
	"estate-api/pkg/utils"
)

type PostData struct {
	Title     string `json:"title" validate:"required,max=191"`
	Price     int    `json:"price" validate:"gte=0"`
	Address   string `json:"address" validate:"max=255"`
	City      string `json:"city" validate:"required,max=128"`
	Bedroom   int    `json:"bedroom" validate:"gte=0"`
	Bathroom  int    `json:"bathroom" validate:"gte=0"`
	Latitude  string `json:"latitude" validate:"max=32"`
	Longitude string `json:"longitude" validate:"max=32"`
	Type      string `json:"type" validate:"required,oneof=buy rent"`
	Property  string `json:"property" validate:"required,oneof=apartment house condo land"`
}

type DetailData struct {
	Desc           string `json:"desc"`
	Utilities      string `json:"utilities" validate:"max=64"`
	Pet            string `json:"pet" validate:"max=64"`
	Income         string `json:"income" validate:"max=128"`
	Size           int    `json:"size" validate:"gte=0"`
	School         int    `json:"school" validate:"gte=0"`
	Bus            int    `json:"bus" validate:"gte=0"`
	Restaurant     int    `json:"restaurant" validate:"gte=0"`
	PropertyStatus string `json:"propertyStatus" validate:"omitempty,oneof=Available Booked SoldOut"`
}

// ListingInput 发帖/改帖的请求体
type ListingInput struct {
	PostData   PostData   `json:"postData"`
	PostDetail DetailData `json:"postDetail"`
}

func (in ListingInput) apply(p *domain.Post, d *domain.PostDetail) {
	pd := in.PostData
	p.Title, p.Price, p.Address, p.City = pd.Title, pd.Price, pd.Address, pd.City
	p.Bedroom, p.Bathroom, p.Latitude, p.Longitude = pd.Bedroom, pd.Bathroom, pd.Latitude, pd.Longitude
	p.Type, p.Property = pd.Type, pd.Property

	dd := in.PostDetail
	d.PostID = p.ID
	d.Desc, d.Utilities, d.Pet, d.Income = dd.Desc, dd.Utilities, dd.Pet, dd.Income
	d.Size, d.School, d.Bus, d.Restaurant = dd.Size, dd.School, dd.Bus, dd.Restaurant
	d.PropertyStatus = domain.PropertyStatus(dd.PropertyStatus)
	if d.PropertyStatus == "" {
		d.PropertyStatus = domain.StatusAvailable
	}
}

// Moderation 帖子审核状态机：pending → approved。
// 没有持久化的 rejected 状态，驳回即删除（帖子 + 详情）。
type Moderation struct {
	store     domain.Store
	integrity *Integrity
	validate  *validator.Validate
	log       *zap.Logger
}

func NewModeration(store domain.Store, integrity *Integrity, l *zap.Logger) *Moderation {
	return &Moderation{store: store, integrity: integrity, validate: newValidator(), log: l.Named("moderation")}
}

// Submit 新帖一律 pending，详情同事务写入
func (m *Moderation) Submit(ctx context.Context, ownerID string, in ListingInput) (*PostWithDetail, error) {
	if err := m.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	post := &domain.Post{ID: utils.NewID(), UserID: ownerID, ModerationState: domain.StatePending, CreatedAt: time.Now()}
	detail := &domain.PostDetail{ID: utils.NewID()}
	in.apply(post, detail)

	err := m.store.WithinTx(ctx, func(tx domain.Store) error {
		if err := tx.Posts().Create(ctx, post); err != nil {
			return err
		}
		return tx.PostDetails().Create(ctx, detail)
	})
	if err != nil {
		return nil, apperr.Internal("Failed to create post", err)
	}
	m.log.Info("post submitted", zap.String("post_id", post.ID), zap.String("owner_id", ownerID))
	return &PostWithDetail{Post: *post, PostDetail: detail}, nil
}

// Approve 幂等：已通过的帖子直接返回
func (m *Moderation) Approve(ctx context.Context, caller domain.Caller, postID string) (*domain.Post, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if err := checkID(postID, "Post"); err != nil {
		return nil, err
	}
	post, err := m.store.Posts().FindByID(ctx, postID)
	if err != nil {
		return nil, apperr.Internal("Failed to approve post", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.Approved() {
		return post, nil
	}
	if err := m.store.Posts().SetState(ctx, postID, domain.StateApproved); err != nil {
		return nil, apperr.Internal("Failed to approve post", err)
	}
	post.ModerationState = domain.StateApproved
	m.log.Info("post approved", zap.String("post_id", postID), zap.String("admin_id", caller.ID))
	return post, nil
}

// Reject 删除帖子及详情。待审帖子理论上没人收藏，但收藏记录仍一并清理。
func (m *Moderation) Reject(ctx context.Context, caller domain.Caller, postID string) error {
	if !caller.IsAdmin() {
		return ErrAdminOnly
	}
	if err := checkID(postID, "Post"); err != nil {
		return err
	}
	post, err := m.store.Posts().FindByID(ctx, postID)
	if err != nil {
		return apperr.Internal("Failed to reject post", err)
	}
	if post == nil {
		return ErrPostNotFound
	}
	if err := m.integrity.purgePost(ctx, "reject", postID); err != nil {
		return apperr.Internal("Failed to reject post", err)
	}
	m.log.Info("post rejected", zap.String("post_id", postID), zap.String("admin_id", caller.ID))
	return nil
}

// Queue 管理端审核列表，state 为空时返回全部
func (m *Moderation) Queue(ctx context.Context, caller domain.Caller, state domain.ModerationState) ([]PostWithDetail, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminOnly
	}
	switch state {
	case "", domain.StatePending, domain.StateApproved:
	default:
		return nil, apperr.Validation("Invalid moderation state")
	}
	posts, err := m.store.Posts().List(ctx, domain.PostFilter{State: state})
	if err != nil {
		return nil, apperr.Internal("Failed to get posts", err)
	}
	out, err := withDetails(ctx, m.store, posts)
	if err != nil {
		return nil, apperr.Internal("Failed to get posts", err)
	}
	return out, nil
}

// CanView 已通过：所有人可见；待审：仅作者和管理员。caller 为 nil 表示未登录。
func CanView(caller *domain.Caller, post *domain.Post) bool {
	if post.Approved() {
		return true
	}
	if caller == nil {
		return false
	}
	return caller.ID == post.UserID || caller.IsAdmin()
}
