package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"estate-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return wrap(r.db.WithContext(ctx).Create(u).Error, "userRepo.Create")
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "userRepo.FindByID", "id = ?", id)
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "userRepo.FindByUsername", "username = ?", username)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "userRepo.FindByEmail", "email = ?", email)
}

func (r *UserRepo) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	if tokenHash == "" {
		return nil, nil
	}
	return r.first(ctx, "userRepo.FindByResetToken",
		"reset_token_hash = ? AND reset_token_expiry > ?", tokenHash, now)
}

func (r *UserRepo) first(ctx context.Context, op string, query string, args ...any) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&users).Error
	return users, wrap(err, "userRepo.List")
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return wrap(r.db.WithContext(ctx).Save(u).Error, "userRepo.Update")
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return wrap(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error, "userRepo.Delete")
}

func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, op)
}
