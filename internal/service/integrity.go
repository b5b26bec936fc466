package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"estate-api/internal/core/apperr"
	"estate-api/internal/domain"
)

// Integrity 手工维护跨集合的引用完整性：存储层没有外键和级联，
// 删除根实体（用户/帖子/聊天）时按固定顺序清掉所有依赖记录。
//
// 顺序固定为 关系证据 → 详情 → 内容 → 容器；后面的步骤依赖前面读出的 id 集合，
// 所以只能串行。每一步对空集合是 no-op，中途失败后从头重试是安全的。
type Integrity struct {
	store         domain.Store
	profiles      ProfileSource
	log           *zap.Logger
	transactional bool
}

func NewIntegrity(store domain.Store, profiles ProfileSource, l *zap.Logger, transactional bool) *Integrity {
	return &Integrity{store: store, profiles: profiles, log: l.Named("integrity"), transactional: transactional}
}

type cascadeStep struct {
	name string
	run  func(ctx context.Context, s domain.Store) error
}

// StepError 标出级联在哪一步失败
type StepError struct {
	Root string
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("cascade %s: step %s: %v", e.Root, e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

func (o *Integrity) cascade(ctx context.Context, root, id string, steps []cascadeStep) error {
	exec := func(s domain.Store) error {
		for _, st := range steps {
			if err := ctx.Err(); err != nil {
				return &StepError{Root: root, Step: st.name, Err: err}
			}
			if err := st.run(ctx, s); err != nil {
				return &StepError{Root: root, Step: st.name, Err: err}
			}
			o.log.Debug("cascade step done", zap.String("root", root), zap.String("id", id), zap.String("step", st.name))
		}
		return nil
	}

	var err error
	if o.transactional {
		err = o.store.WithinTx(ctx, exec)
	} else {
		err = exec(o.store)
	}
	if err != nil {
		cascadeTotal.WithLabelValues(root, "failed").Inc()
		o.log.Error("cascade failed",
			zap.String("root", root), zap.String("id", id),
			zap.Bool("transactional", o.transactional), zap.Error(err))
		return err
	}
	cascadeTotal.WithLabelValues(root, "ok").Inc()
	o.log.Info("cascade done", zap.String("root", root), zap.String("id", id), zap.Int("steps", len(steps)))
	return nil
}

// DeleteUser 删除用户及其全部依赖：本人或管理员可操作。
// 该用户参与的聊天对双方一起删除：两人聊天失去任一方都不再成立。
func (o *Integrity) DeleteUser(ctx context.Context, caller domain.Caller, targetID string) error {
	if err := checkID(targetID, "User"); err != nil {
		return err
	}
	if caller.ID != targetID && !caller.IsAdmin() {
		return ErrNotAuthorized
	}
	u, err := o.store.Users().FindByID(ctx, targetID)
	if err != nil {
		return apperr.Internal("Failed to delete user!", err)
	}
	if u == nil {
		return ErrUserNotFound
	}

	var postIDs, chatIDs []string
	steps := []cascadeStep{
		{"resolve-posts", func(ctx context.Context, s domain.Store) (err error) {
			postIDs, err = s.Posts().IDsByOwner(ctx, targetID)
			return err
		}},
		{"saved-posts-of-owned-posts", func(ctx context.Context, s domain.Store) error {
			return s.SavedPosts().DeleteByPostIDs(ctx, postIDs)
		}},
		{"saved-posts-of-user", func(ctx context.Context, s domain.Store) error {
			return s.SavedPosts().DeleteByUser(ctx, targetID)
		}},
		{"post-details", func(ctx context.Context, s domain.Store) error {
			return s.PostDetails().DeleteByPostIDs(ctx, postIDs)
		}},
		{"resolve-chats", func(ctx context.Context, s domain.Store) (err error) {
			chatIDs, err = s.Chats().IDsByParticipant(ctx, targetID)
			return err
		}},
		{"messages", func(ctx context.Context, s domain.Store) error {
			return s.Messages().DeleteByChatIDs(ctx, chatIDs)
		}},
		{"chats", func(ctx context.Context, s domain.Store) error {
			return s.Chats().DeleteByIDs(ctx, chatIDs)
		}},
		{"posts", func(ctx context.Context, s domain.Store) error {
			return s.Posts().DeleteByOwner(ctx, targetID)
		}},
		{"testimonials", func(ctx context.Context, s domain.Store) error {
			return s.Testimonials().DeleteByUser(ctx, targetID)
		}},
		{"user", func(ctx context.Context, s domain.Store) error {
			return s.Users().Delete(ctx, targetID)
		}},
	}
	if err := o.cascade(ctx, "user", targetID, steps); err != nil {
		return apperr.Internal("Failed to delete user!", err)
	}
	o.profiles.Forget(ctx, targetID)
	return nil
}

// DeletePost 作者或管理员删除帖子
func (o *Integrity) DeletePost(ctx context.Context, caller domain.Caller, postID string) error {
	if err := checkID(postID, "Post"); err != nil {
		return err
	}
	post, err := o.store.Posts().FindByID(ctx, postID)
	if err != nil {
		return apperr.Internal("Failed to delete post", err)
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != caller.ID && !caller.IsAdmin() {
		return ErrNotAuthorized
	}
	if err := o.purgePost(ctx, "post", postID); err != nil {
		return apperr.Internal("Failed to delete post", err)
	}
	return nil
}

// purgePost 不做鉴权，调用方（删除/驳回）负责
func (o *Integrity) purgePost(ctx context.Context, root, postID string) error {
	ids := []string{postID}
	return o.cascade(ctx, root, postID, []cascadeStep{
		{"saved-posts", func(ctx context.Context, s domain.Store) error {
			return s.SavedPosts().DeleteByPostIDs(ctx, ids)
		}},
		{"post-detail", func(ctx context.Context, s domain.Store) error {
			return s.PostDetails().DeleteByPostIDs(ctx, ids)
		}},
		{"post", func(ctx context.Context, s domain.Store) error {
			return s.Posts().Delete(ctx, postID)
		}},
	})
}

// DeleteChat 参与者删除聊天；非参与者一律 NotFound，不暴露聊天是否存在
func (o *Integrity) DeleteChat(ctx context.Context, caller domain.Caller, chatID string) error {
	if err := checkID(chatID, "Chat"); err != nil {
		return err
	}
	chat, err := o.store.Chats().FindByID(ctx, chatID)
	if err != nil {
		return apperr.Internal("Failed to delete chat!", err)
	}
	if chat == nil || !chat.HasParticipant(caller.ID) {
		return ErrChatNotFound
	}
	ids := []string{chatID}
	err = o.cascade(ctx, "chat", chatID, []cascadeStep{
		{"messages", func(ctx context.Context, s domain.Store) error {
			return s.Messages().DeleteByChatIDs(ctx, ids)
		}},
		{"chat", func(ctx context.Context, s domain.Store) error {
			return s.Chats().Delete(ctx, chatID)
		}},
	})
	if err != nil {
		return apperr.Internal("Failed to delete chat!", err)
	}
	return nil
}
