package repo

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"estate-api/internal/domain"
)

type ChatRepo struct{ db *gorm.DB }

func (r *ChatRepo) Create(ctx context.Context, c *domain.Chat) error {
	return wrap(r.db.WithContext(ctx).Create(c).Error, "chatRepo.Create")
}

func (r *ChatRepo) FindByID(ctx context.Context, id string) (*domain.Chat, error) {
	var c domain.Chat
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "chatRepo.FindByID")
	}
	return &c, nil
}

func (r *ChatRepo) FindBetween(ctx context.Context, userA, userB string) (*domain.Chat, error) {
	var c domain.Chat
	err := r.db.WithContext(ctx).
		Where("(user_a = ? AND user_b = ?) OR (user_a = ? AND user_b = ?)", userA, userB, userB, userA).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "chatRepo.FindBetween")
	}
	return &c, nil
}

func (r *ChatRepo) ListByParticipant(ctx context.Context, userID string) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Order("created_at desc").
		Find(&chats).Error
	return chats, wrap(err, "chatRepo.ListByParticipant")
}

func (r *ChatRepo) IDsByParticipant(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.Chat{}).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Pluck("id", &ids).Error
	return ids, wrap(err, "chatRepo.IDsByParticipant")
}

func (r *ChatRepo) UpdateState(ctx context.Context, id string, seenBy []string, lastMessage *string) error {
	fields := map[string]any{"seen_by": datatypes.JSONSlice[string](seenBy)}
	if lastMessage != nil {
		fields["last_message"] = *lastMessage
	}
	err := r.db.WithContext(ctx).Model(&domain.Chat{}).Where("id = ?", id).Updates(fields).Error
	return wrap(err, "chatRepo.UpdateState")
}

func (r *ChatRepo) Delete(ctx context.Context, id string) error {
	return wrap(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Chat{}).Error, "chatRepo.Delete")
}

func (r *ChatRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return wrap(r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Chat{}).Error, "chatRepo.DeleteByIDs")
}

type MessageRepo struct{ db *gorm.DB }

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	return wrap(r.db.WithContext(ctx).Create(m).Error, "messageRepo.Create")
}

func (r *MessageRepo) ListByChat(ctx context.Context, chatID string) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Order("created_at asc").Order("id asc").Find(&msgs).Error
	return msgs, wrap(err, "messageRepo.ListByChat")
}

func (r *MessageRepo) DeleteByChatIDs(ctx context.Context, chatIDs []string) error {
	if len(chatIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Where("chat_id IN ?", chatIDs).Delete(&domain.Message{}).Error
	return wrap(err, "messageRepo.DeleteByChatIDs")
}
