package domain

import (
	"context"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Testimonial struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index;not null" json:"userId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type TestimonialRepository interface {
	Create(ctx context.Context, t *Testimonial) error
	FindByID(ctx context.Context, id string) (*Testimonial, error)
	List(ctx context.Context) ([]Testimonial, error)
	Update(ctx context.Context, t *Testimonial) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
