package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"estate-api/internal/core/apperr"
	"estate-api/internal/domain"
	"estate-api/pkg/utils"
)

// Listings 帖子读路径 + 编辑。浏览只返回已通过审核的帖子。
type Listings struct {
	store    domain.Store
	profiles ProfileSource
	validate *validator.Validate
}

func NewListings(store domain.Store, profiles ProfileSource) *Listings {
	return &Listings{store: store, profiles: profiles, validate: newValidator()}
}

type PostView struct {
	domain.Post
	PostDetail *domain.PostDetail    `json:"postDetail"`
	User       *domain.PublicProfile `json:"user"`
	IsSaved    bool                  `json:"isSaved"`
}

func (l *Listings) Browse(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	f.State = domain.StateApproved
	if f.MinPrice < 0 || f.MaxPrice < 0 || f.Bedroom < 0 {
		return nil, apperr.Validation("Invalid filter")
	}
	posts, err := l.store.Posts().List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("Failed to get posts", err)
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

// Get 看不到的帖子和不存在的帖子一样返回 NotFound
func (l *Listings) Get(ctx context.Context, caller *domain.Caller, postID string) (*PostView, error) {
	if err := checkID(postID, "Post"); err != nil {
		return nil, err
	}
	post, err := l.store.Posts().FindByID(ctx, postID)
	if err != nil {
		return nil, apperr.Internal("Failed to get post", err)
	}
	if post == nil || !CanView(caller, post) {
		return nil, ErrPostNotFound
	}
	view := &PostView{Post: *post}
	if view.PostDetail, err = l.store.PostDetails().FindByPostID(ctx, postID); err != nil {
		return nil, apperr.Internal("Failed to get post", err)
	}
	if view.User, err = l.profiles.Profile(ctx, post.UserID); err != nil {
		return nil, apperr.Internal("Failed to get post", err)
	}
	if caller != nil {
		saved, err := l.store.SavedPosts().Find(ctx, caller.ID, postID)
		if err != nil {
			return nil, apperr.Internal("Failed to get post", err)
		}
		view.IsSaved = saved != nil
	}
	return view, nil
}

// Update 作者或管理员；审核状态不变，详情不存在时补建
func (l *Listings) Update(ctx context.Context, caller domain.Caller, postID string, in ListingInput) (*PostWithDetail, error) {
	if err := checkID(postID, "Post"); err != nil {
		return nil, err
	}
	if err := l.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	post, err := l.store.Posts().FindByID(ctx, postID)
	if err != nil {
		return nil, apperr.Internal("Failed to update post", err)
	}
	if post == nil || !CanView(&caller, post) {
		return nil, ErrPostNotFound
	}
	if post.UserID != caller.ID && !caller.IsAdmin() {
		return nil, ErrNotAuthorized
	}
	detail := &domain.PostDetail{ID: utils.NewID()}
	in.apply(post, detail)

	err = l.store.WithinTx(ctx, func(tx domain.Store) error {
		if err := tx.Posts().Update(ctx, post); err != nil {
			return err
		}
		return tx.PostDetails().Upsert(ctx, detail)
	})
	if err != nil {
		return nil, apperr.Internal("Failed to update post", err)
	}
	stored, err := l.store.PostDetails().FindByPostID(ctx, postID)
	if err != nil {
		return nil, apperr.Internal("Failed to update post", err)
	}
	return &PostWithDetail{Post: *post, PostDetail: stored}, nil
}
