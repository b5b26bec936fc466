package domain

import "context"

// Store 持久化边界，只提供单实体 CRUD；跨表一致性由上层负责
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	PostDetails() PostDetailRepository
	SavedPosts() SavedPostRepository
	Chats() ChatRepository
	Messages() MessageRepository
	Testimonials() TestimonialRepository

	// WithinTx 在同一事务里执行 fn
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// Models 需要迁移的实体，按迁移顺序
func Models() []any {
	return []any{
		&User{}, &Post{}, &PostDetail{}, &SavedPost{},
		&Chat{}, &Message{}, &Testimonial{},
	}
}
