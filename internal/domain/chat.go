package domain

import (
	"context"
	"slices"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Chat 两人会话；参与者落在两个带索引的列上，对外用 UserIDs 暴露。SeenBy 只能是 UserIDs 的子集
type Chat struct {
	ID          string                      `gorm:"primaryKey;size:36" json:"id"`
	UserA       string                      `gorm:"size:36;not null;index" json:"-"`
	UserB       string                      `gorm:"size:36;not null;index" json:"-"`
	UserIDs     []string                    `gorm:"-" json:"userIDs"`
	SeenBy      datatypes.JSONSlice[string] `json:"seenBy"`
	LastMessage string                      `gorm:"type:text" json:"lastMessage"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

func (c *Chat) BeforeCreate(*gorm.DB) error {
	if len(c.UserIDs) == 2 {
		c.UserA, c.UserB = c.UserIDs[0], c.UserIDs[1]
	}
	return nil
}

func (c *Chat) AfterFind(*gorm.DB) error {
	c.UserIDs = []string{c.UserA, c.UserB}
	return nil
}

func (c *Chat) HasParticipant(userID string) bool {
	return userID != "" && (c.UserA == userID || c.UserB == userID)
}

// Other 返回另一方
func (c *Chat) Other(userID string) string {
	if c.UserA == userID {
		return c.UserB
	}
	return c.UserA
}

func (c *Chat) SeenByUser(userID string) bool { return slices.Contains(c.SeenBy, userID) }

type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ChatID    string    `gorm:"size:36;index;not null" json:"chatId"`
	UserID    string    `gorm:"size:36;not null" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

type ChatRepository interface {
	Create(ctx context.Context, c *Chat) error
	FindByID(ctx context.Context, id string) (*Chat, error)
	FindBetween(ctx context.Context, userA, userB string) (*Chat, error)
	ListByParticipant(ctx context.Context, userID string) ([]Chat, error)
	IDsByParticipant(ctx context.Context, userID string) ([]string, error)
	// UpdateState 覆盖 seenBy；lastMessage 非 nil 时同时更新最后一条消息
	UpdateState(ctx context.Context, id string, seenBy []string, lastMessage *string) error
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	// ListByChat 按时间正序
	ListByChat(ctx context.Context, chatID string) ([]Message, error)
	DeleteByChatIDs(ctx context.Context, chatIDs []string) error
}
