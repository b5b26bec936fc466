package service

import (
	"context"
	"time"

	"estate-api/internal/core/apperr"
	"estate-api/internal/domain"
	"estate-api/pkg/utils"
)

type Testimonials struct {
	store    domain.Store
	profiles ProfileSource
}

func NewTestimonials(store domain.Store, profiles ProfileSource) *Testimonials {
	return &Testimonials{store: store, profiles: profiles}
}

type TestimonialInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type TestimonialView struct {
	domain.Testimonial
	User *domain.PublicProfile `json:"user"`
}

func checkRating(r int) error {
	if r < domain.MinRating || r > domain.MaxRating {
		return ErrInvalidRating
	}
	return nil
}

func (s *Testimonials) Add(ctx context.Context, caller domain.Caller, in TestimonialInput) (*domain.Testimonial, error) {
	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}
	t := &domain.Testimonial{ID: utils.NewID(), UserID: caller.ID, Rating: in.Rating, Comment: in.Comment, CreatedAt: time.Now()}
	if err := s.store.Testimonials().Create(ctx, t); err != nil {
		return nil, apperr.Internal("Failed to add testimonial", err)
	}
	return t, nil
}

func (s *Testimonials) List(ctx context.Context) ([]TestimonialView, error) {
	list, err := s.store.Testimonials().List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to get testimonials", err)
	}
	out := make([]TestimonialView, 0, len(list))
	for _, t := range list {
		author, err := s.profiles.Profile(ctx, t.UserID)
		if err != nil {
			return nil, apperr.Internal("Failed to get testimonials", err)
		}
		out = append(out, TestimonialView{Testimonial: t, User: author})
	}
	return out, nil
}

func (s *Testimonials) authored(ctx context.Context, caller domain.Caller, id, failMsg string) (*domain.Testimonial, error) {
	if err := checkID(id, "Testimonial"); err != nil {
		return nil, err
	}
	t, err := s.store.Testimonials().FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(failMsg, err)
	}
	if t == nil {
		return nil, ErrTestimonialNotFound
	}
	if t.UserID != caller.ID {
		return nil, ErrNotAuthorized
	}
	return t, nil
}

func (s *Testimonials) Update(ctx context.Context, caller domain.Caller, id string, in TestimonialInput) (*domain.Testimonial, error) {
	t, err := s.authored(ctx, caller, id, "Failed to update testimonial")
	if err != nil {
		return nil, err
	}
	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}
	t.Rating, t.Comment = in.Rating, in.Comment
	if err := s.store.Testimonials().Update(ctx, t); err != nil {
		return nil, apperr.Internal("Failed to update testimonial", err)
	}
	return t, nil
}

func (s *Testimonials) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if _, err := s.authored(ctx, caller, id, "Failed to delete testimonial"); err != nil {
		return err
	}
	if err := s.store.Testimonials().Delete(ctx, id); err != nil {
		return apperr.Internal("Failed to delete testimonial", err)
	}
	return nil
}
