package repo

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"estate-api/internal/domain"
)

type TestimonialRepo struct{ db *gorm.DB }

func (r *TestimonialRepo) Create(ctx context.Context, t *domain.Testimonial) error {
	return wrap(r.db.WithContext(ctx).Create(t).Error, "testimonialRepo.Create")
}

func (r *TestimonialRepo) FindByID(ctx context.Context, id string) (*domain.Testimonial, error) {
	var t domain.Testimonial
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "testimonialRepo.FindByID")
	}
	return &t, nil
}

func (r *TestimonialRepo) List(ctx context.Context) ([]domain.Testimonial, error) {
	var out []domain.Testimonial
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, wrap(err, "testimonialRepo.List")
}

func (r *TestimonialRepo) Update(ctx context.Context, t *domain.Testimonial) error {
	return wrap(r.db.WithContext(ctx).Save(t).Error, "testimonialRepo.Update")
}

func (r *TestimonialRepo) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Testimonial{}).Error
	return wrap(err, "testimonialRepo.Delete")
}

func (r *TestimonialRepo) DeleteByUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Testimonial{}).Error
	return wrap(err, "testimonialRepo.DeleteByUser")
}
