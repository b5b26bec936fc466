package repo

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"estate-api/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	return wrap(r.db.WithContext(ctx).Create(p).Error, "postRepo.Create")
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "postRepo.FindByID")
	}
	return &p, nil
}

func (r *PostRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []domain.Post
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at desc").Find(&posts).Error
	return posts, wrap(err, "postRepo.FindByIDs")
}

func (r *PostRepo) List(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	q := r.db.WithContext(ctx).Model(&domain.Post{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.State != "" {
		q = q.Where("moderation_state = ?", f.State)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Property != "" {
		q = q.Where("property = ?", f.Property)
	}
	if f.Bedroom > 0 {
		q = q.Where("bedroom = ?", f.Bedroom)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	var posts []domain.Post
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).Find(&posts).Error
	return posts, wrap(err, "postRepo.List")
}

func (r *PostRepo) IDsByOwner(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.Post{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, wrap(err, "postRepo.IDsByOwner")
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	return wrap(r.db.WithContext(ctx).Save(p).Error, "postRepo.Update")
}

func (r *PostRepo) SetState(ctx context.Context, id string, state domain.ModerationState) error {
	err := r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).
		Update("moderation_state", state).Error
	return wrap(err, "postRepo.SetState")
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	return wrap(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Post{}).Error, "postRepo.Delete")
}

func (r *PostRepo) DeleteByOwner(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Post{}).Error
	return wrap(err, "postRepo.DeleteByOwner")
}

type PostDetailRepo struct{ db *gorm.DB }

func (r *PostDetailRepo) Create(ctx context.Context, d *domain.PostDetail) error {
	return wrap(r.db.WithContext(ctx).Create(d).Error, "postDetailRepo.Create")
}

func (r *PostDetailRepo) FindByPostID(ctx context.Context, postID string) (*domain.PostDetail, error) {
	var d domain.PostDetail
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "postDetailRepo.FindByPostID")
	}
	return &d, nil
}

func (r *PostDetailRepo) FindByPostIDs(ctx context.Context, postIDs []string) ([]domain.PostDetail, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var ds []domain.PostDetail
	err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&ds).Error
	return ds, wrap(err, "postDetailRepo.FindByPostIDs")
}

// Upsert 按 PostID 插入或覆盖详情
func (r *PostDetailRepo) Upsert(ctx context.Context, d *domain.PostDetail) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "utilities", "pet", "income", "size", "school", "bus", "restaurant", "property_status",
		}),
	}).Create(d).Error
	return wrap(err, "postDetailRepo.Upsert")
}

func (r *PostDetailRepo) DeleteByPostIDs(ctx context.Context, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Delete(&domain.PostDetail{}).Error
	return wrap(err, "postDetailRepo.DeleteByPostIDs")
}

type SavedPostRepo struct{ db *gorm.DB }

func (r *SavedPostRepo) Create(ctx context.Context, s *domain.SavedPost) error {
	return wrap(r.db.WithContext(ctx).Create(s).Error, "savedPostRepo.Create")
}

func (r *SavedPostRepo) Find(ctx context.Context, userID, postID string) (*domain.SavedPost, error) {
	var s domain.SavedPost
	err := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "savedPostRepo.Find")
	}
	return &s, nil
}

func (r *SavedPostRepo) ListByUser(ctx context.Context, userID string) ([]domain.SavedPost, error) {
	var out []domain.SavedPost
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&out).Error
	return out, wrap(err, "savedPostRepo.ListByUser")
}

func (r *SavedPostRepo) Delete(ctx context.Context, id string) error {
	return wrap(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.SavedPost{}).Error, "savedPostRepo.Delete")
}

func (r *SavedPostRepo) DeleteByPostIDs(ctx context.Context, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Delete(&domain.SavedPost{}).Error
	return wrap(err, "savedPostRepo.DeleteByPostIDs")
}

func (r *SavedPostRepo) DeleteByUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.SavedPost{}).Error
	return wrap(err, "savedPostRepo.DeleteByUser")
}
