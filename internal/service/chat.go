package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"estate-api/internal/core/apperr"
	"estate-api/internal/domain"
	"estate-api/pkg/utils"
)

// Chats 聊天已读追踪。未读数按需计算，不存计数器。
//
// 注意两个已读入口语义不同：查看历史是并集，显式标记已读是覆盖。
type Chats struct {
	store    domain.Store
	profiles ProfileSource
	log      *zap.Logger
}

func NewChats(store domain.Store, profiles ProfileSource, l *zap.Logger) *Chats {
	return &Chats{store: store, profiles: profiles, log: l.Named("chats")}
}

type ChatSummary struct {
	domain.Chat
	Receiver *domain.PublicProfile `json:"receiver"`
}

type ChatThread struct {
	domain.Chat
	Messages []domain.Message `json:"messages"`
}

// participantChat 非参与者和不存在一样返回 NotFound
func (c *Chats) participantChat(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	if err := checkID(chatID, "Chat"); err != nil {
		return nil, err
	}
	chat, err := c.store.Chats().FindByID(ctx, chatID)
	if err != nil {
		return nil, apperr.Internal("Failed to get chat!", err)
	}
	if chat == nil || !chat.HasParticipant(userID) {
		return nil, ErrChatNotFound
	}
	return chat, nil
}

// Create 同一对用户只保留一个聊天
func (c *Chats) Create(ctx context.Context, callerID, receiverID string) (*ChatSummary, error) {
	if err := checkID(receiverID, "User"); err != nil {
		return nil, err
	}
	if receiverID == callerID {
		return nil, apperr.Validation("Cannot start a chat with yourself")
	}
	receiver, err := c.profiles.Profile(ctx, receiverID)
	if err != nil {
		return nil, apperr.Internal("Failed to add chat!", err)
	}
	if receiver == nil {
		return nil, ErrUserNotFound
	}

	chat, err := c.store.Chats().FindBetween(ctx, callerID, receiverID)
	if err != nil {
		return nil, apperr.Internal("Failed to add chat!", err)
	}
	if chat == nil {
		chat = &domain.Chat{
			ID:        utils.NewID(),
			UserIDs:   []string{callerID, receiverID},
			SeenBy:    []string{callerID},
			CreatedAt: time.Now(),
		}
		if err := c.store.Chats().Create(ctx, chat); err != nil {
			return nil, apperr.Internal("Failed to add chat!", err)
		}
		c.log.Info("chat created", zap.String("chat_id", chat.ID))
	}
	return &ChatSummary{Chat: *chat, Receiver: receiver}, nil
}

// SendMessage 发消息后 seenBy 只剩发送者
func (c *Chats) SendMessage(ctx context.Context, senderID, chatID, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("Message text is required")
	}
	if _, err := c.participantChat(ctx, senderID, chatID); err != nil {
		return nil, err
	}
	msg := &domain.Message{ID: utils.NewID(), ChatID: chatID, UserID: senderID, Text: text, CreatedAt: time.Now()}
	if err := c.store.Messages().Create(ctx, msg); err != nil {
		return nil, apperr.Internal("Failed to add message!", err)
	}
	if err := c.store.Chats().UpdateState(ctx, chatID, []string{senderID}, &text); err != nil {
		return nil, apperr.Internal("Failed to add message!", err)
	}
	return msg, nil
}

// MarkSeenByViewing 打开聊天：把 userID 并入 seenBy，返回按时间升序的消息
func (c *Chats) MarkSeenByViewing(ctx context.Context, userID, chatID string) (*ChatThread, error) {
	chat, err := c.participantChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.SeenByUser(userID) {
		seen := append(slices.Clone([]string(chat.SeenBy)), userID)
		if err := c.store.Chats().UpdateState(ctx, chatID, seen, nil); err != nil {
			return nil, apperr.Internal("Failed to get chat!", err)
		}
		chat.SeenBy = seen
	}
	msgs, err := c.store.Messages().ListByChat(ctx, chatID)
	if err != nil {
		return nil, apperr.Internal("Failed to get chat!", err)
	}
	return &ChatThread{Chat: *chat, Messages: msgs}, nil
}

// MarkSeenExplicit 显式已读：seenBy 直接覆盖为 {userID}，会清掉对方的已读
func (c *Chats) MarkSeenExplicit(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	chat, err := c.participantChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	seen := []string{userID}
	if err := c.store.Chats().UpdateState(ctx, chatID, seen, nil); err != nil {
		return nil, apperr.Internal("Failed to read chat!", err)
	}
	chat.SeenBy = seen
	return chat, nil
}

func (c *Chats) UnreadChatCount(ctx context.Context, userID string) (int, error) {
	chats, err := c.store.Chats().ListByParticipant(ctx, userID)
	if err != nil {
		return 0, apperr.Internal("Failed to get notification count", err)
	}
	n := 0
	for i := range chats {
		if !chats[i].SeenByUser(userID) {
			n++
		}
	}
	return n, nil
}

// ListChats 对方已被删除时 receiver 为 nil
func (c *Chats) ListChats(ctx context.Context, userID string) ([]ChatSummary, error) {
	chats, err := c.store.Chats().ListByParticipant(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to get chats!", err)
	}
	out := make([]ChatSummary, 0, len(chats))
	for _, ch := range chats {
		receiver, err := c.profiles.Profile(ctx, ch.Other(userID))
		if err != nil {
			return nil, apperr.Internal("Failed to get chats!", err)
		}
		out = append(out, ChatSummary{Chat: ch, Receiver: receiver})
	}
	return out, nil
}
