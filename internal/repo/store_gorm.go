package repo

import (
	"context"

	"gorm.io/gorm"

	"estate-api/internal/domain"
)

// Store gorm 实现；各 repo 共用同一个 *gorm.DB，WithinTx 内看到的是同一事务
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Users() domain.UserRepository               { return &UserRepo{db: s.db} }
func (s *Store) Posts() domain.PostRepository               { return &PostRepo{db: s.db} }
func (s *Store) PostDetails() domain.PostDetailRepository   { return &PostDetailRepo{db: s.db} }
func (s *Store) SavedPosts() domain.SavedPostRepository     { return &SavedPostRepo{db: s.db} }
func (s *Store) Chats() domain.ChatRepository               { return &ChatRepo{db: s.db} }
func (s *Store) Messages() domain.MessageRepository         { return &MessageRepo{db: s.db} }
func (s *Store) Testimonials() domain.TestimonialRepository { return &TestimonialRepo{db: s.db} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Migrate 自动迁移全部表
func Migrate(db *gorm.DB) error { return db.AutoMigrate(domain.Models()...) }
