package domain

import (
	"context"
	"time"
)

type ModerationState string

const (
	StatePending  ModerationState = "pending"
	StateApproved ModerationState = "approved"
)

type PropertyStatus string

const (
	StatusAvailable PropertyStatus = "Available"
	StatusBooked    PropertyStatus = "Booked"
	StatusSoldOut   PropertyStatus = "SoldOut"
)

type Post struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	UserID          string          `gorm:"size:36;index;not null" json:"userId"`
	Title           string          `gorm:"size:191;not null" json:"title"`
	Price           int             `json:"price"`
	Address         string          `gorm:"size:255" json:"address"`
	City            string          `gorm:"size:128;index" json:"city"`
	Bedroom         int             `json:"bedroom"`
	Bathroom        int             `json:"bathroom"`
	Latitude        string          `gorm:"size:32" json:"latitude"`
	Longitude       string          `gorm:"size:32" json:"longitude"`
	Type            string          `gorm:"size:16;index" json:"type"`
	Property        string          `gorm:"size:16;index" json:"property"`
	ModerationState ModerationState `gorm:"size:16;index;not null;default:pending" json:"moderationState"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (p *Post) Approved() bool { return p.ModerationState == StateApproved }

type PostDetail struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	PostID         string         `gorm:"uniqueIndex;size:36;not null" json:"postId"`
	Desc           string         `gorm:"column:description;type:text" json:"desc"`
	Utilities      string         `gorm:"size:64" json:"utilities"`
	Pet            string         `gorm:"size:64" json:"pet"`
	Income         string         `gorm:"size:128" json:"income"`
	Size           int            `json:"size"`
	School         int            `json:"school"`
	Bus            int            `json:"bus"`
	Restaurant     int            `json:"restaurant"`
	PropertyStatus PropertyStatus `gorm:"size:16;not null;default:Available" json:"propertyStatus"`
}

type SavedPost struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_saved_user_post" json:"userId"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_saved_user_post;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostFilter 列表过滤条件，零值表示不限
type PostFilter struct {
	UserID   string
	State    ModerationState
	City     string
	Type     string
	Property string
	Bedroom  int
	MinPrice int
	MaxPrice int
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	FindByIDs(ctx context.Context, ids []string) ([]Post, error)
	List(ctx context.Context, f PostFilter) ([]Post, error)
	IDsByOwner(ctx context.Context, userID string) ([]string, error)
	Update(ctx context.Context, p *Post) error
	SetState(ctx context.Context, id string, state ModerationState) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, userID string) error
}

type PostDetailRepository interface {
	Create(ctx context.Context, d *PostDetail) error
	FindByPostID(ctx context.Context, postID string) (*PostDetail, error)
	FindByPostIDs(ctx context.Context, postIDs []string) ([]PostDetail, error)
	Upsert(ctx context.Context, d *PostDetail) error
	DeleteByPostIDs(ctx context.Context, postIDs []string) error
}

type SavedPostRepository interface {
	Create(ctx context.Context, s *SavedPost) error
	Find(ctx context.Context, userID, postID string) (*SavedPost, error)
	ListByUser(ctx context.Context, userID string) ([]SavedPost, error)
	Delete(ctx context.Context, id string) error
	DeleteByPostIDs(ctx context.Context, postIDs []string) error
	DeleteByUser(ctx context.Context, userID string) error
}
