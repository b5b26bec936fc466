package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-api/internal/core/apperr"
	"estate-api/internal/domain"
	"estate-api/internal/repo/repotest"
	"estate-api/internal/service"
)

// flakyStore 让 Posts().DeleteByOwner 失败指定次数
type flakyStore struct {
	domain.Store
	failures *int
}

type flakyPosts struct {
	domain.PostRepository
	failures *int
}

var errFlaky = errors.New("connection reset")

func (s flakyStore) Posts() domain.PostRepository {
	return flakyPosts{PostRepository: s.Store.Posts(), failures: s.failures}
}

func (s flakyStore) WithinTx(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx domain.Store) error {
		return fn(flakyStore{Store: tx, failures: s.failures})
	})
}

func (p flakyPosts) DeleteByOwner(ctx context.Context, userID string) error {
	if *p.failures > 0 {
		*p.failures--
		return errFlaky
	}
	return p.PostRepository.DeleteByOwner(ctx, userID)
}

type world struct {
	owner, other, admin domain.Caller
	ownPost, otherPost  string
	chatWithOther       string
}

// seed 两个用户互相收藏对方的帖子，有一个聊天和一条评价
func seed(t *testing.T, e *env) world {
	t.Helper()
	ctx := context.Background()
	w := world{owner: e.user(t, "owner"), other: e.user(t, "other"), admin: e.admin(t)}
	w.ownPost = e.post(t, w.owner, w.admin, "owner flat")
	w.otherPost = e.post(t, w.other, w.admin, "other flat")

	saved, err := e.users.ToggleSaved(ctx, w.other, w.ownPost)
	require.NoError(t, err)
	require.True(t, saved)
	saved, err = e.users.ToggleSaved(ctx, w.owner, w.otherPost)
	require.NoError(t, err)
	require.True(t, saved)

	w.chatWithOther = e.chat(t, w.owner, w.other)
	_, err = e.chats.SendMessage(ctx, w.other.ID, w.chatWithOther, "is it available?")
	require.NoError(t, err)
	_, err = e.testimonials.Add(ctx, w.owner, service.TestimonialInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	_, err = e.testimonials.Add(ctx, w.other, service.TestimonialInput{Rating: 4})
	require.NoError(t, err)
	return w
}

func countRows(t *testing.T, s domain.Store, userID string, postIDs []string, chatID string) map[string]int {
	t.Helper()
	ctx := context.Background()
	out := map[string]int{}

	u, err := s.Users().FindByID(ctx, userID)
	require.NoError(t, err)
	if u != nil {
		out["user"] = 1
	}
	owned, err := s.Posts().IDsByOwner(ctx, userID)
	require.NoError(t, err)
	out["posts"] = len(owned)
	details, err := s.PostDetails().FindByPostIDs(ctx, postIDs)
	require.NoError(t, err)
	out["details"] = len(details)
	saves, err := s.SavedPosts().ListByUser(ctx, userID)
	require.NoError(t, err)
	out["saves"] = len(saves)
	chats, err := s.Chats().IDsByParticipant(ctx, userID)
	require.NoError(t, err)
	out["chats"] = len(chats)
	msgs, err := s.Messages().ListByChat(ctx, chatID)
	require.NoError(t, err)
	out["messages"] = len(msgs)
	list, err := s.Testimonials().List(ctx)
	require.NoError(t, err)
	out["testimonials"] = 0
	for _, tm := range list {
		if tm.UserID == userID {
			out["testimonials"]++
		}
	}
	return out
}

func TestDeleteUser_RemovesEveryDependent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	w := seed(t, e)

	require.NoError(t, e.integrity.DeleteUser(ctx, w.owner, w.owner.ID))

	assert.Equal(t, map[string]int{
		"posts": 0, "details": 0, "saves": 0, "chats": 0, "messages": 0, "testimonials": 0,
	}, countRows(t, e.store, w.owner.ID, []string{w.ownPost}, w.chatWithOther))

	// 其他用户的帖子、详情和评价保留；收藏了被删帖子的记录被清掉
	left := countRows(t, e.store, w.other.ID, []string{w.otherPost}, w.chatWithOther)
	assert.Equal(t, map[string]int{
		"user": 1, "posts": 1, "details": 1, "saves": 0, "chats": 0, "messages": 0, "testimonials": 1,
	}, left)

	n, err := e.chats.UnreadChatCount(ctx, w.other.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteUser_Authorization(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	w := seed(t, e)

	err := e.integrity.DeleteUser(ctx, w.other, w.owner.ID)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)
	assert.Equal(t, 1, countRows(t, e.store, w.owner.ID, nil, "")["user"])

	err = e.integrity.DeleteUser(ctx, w.admin, "not-a-uuid")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, e.integrity.DeleteUser(ctx, w.admin, w.owner.ID))
	err = e.integrity.DeleteUser(ctx, w.admin, w.owner.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestDeleteUser_FailedStepIsRetryable(t *testing.T) {
	ctx := context.Background()
	base := repotest.NewStore(t)
	failures := 0
	e := newEnvWith(t, flakyStore{Store: base, failures: &failures}, false)
	w := seed(t, e)

	failures = 1
	err := e.integrity.DeleteUser(ctx, w.owner, w.owner.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
	var stepErr *service.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "posts", stepErr.Step)
	assert.ErrorIs(t, err, errFlaky)

	// 非事务模式：失败之前的步骤已生效
	partial := countRows(t, base, w.owner.ID, []string{w.ownPost}, w.chatWithOther)
	assert.Equal(t, 1, partial["user"])
	assert.Equal(t, 1, partial["posts"])
	assert.Zero(t, partial["details"])
	assert.Zero(t, partial["saves"])
	assert.Zero(t, partial["chats"])

	require.NoError(t, e.integrity.DeleteUser(ctx, w.owner, w.owner.ID))
	assert.Empty(t, countRows(t, base, w.owner.ID, []string{w.ownPost}, w.chatWithOther)["user"])
	assert.Zero(t, countRows(t, base, w.owner.ID, nil, "")["posts"])
}

func TestDeleteUser_TransactionalRollsBack(t *testing.T) {
	ctx := context.Background()
	base := repotest.NewStore(t)
	failures := 0
	e := newEnvWith(t, flakyStore{Store: base, failures: &failures}, true)
	w := seed(t, e)
	before := countRows(t, base, w.owner.ID, []string{w.ownPost}, w.chatWithOther)

	failures = 1
	require.Error(t, e.integrity.DeleteUser(ctx, w.owner, w.owner.ID))
	assert.Equal(t, before, countRows(t, base, w.owner.ID, []string{w.ownPost}, w.chatWithOther))

	require.NoError(t, e.integrity.DeleteUser(ctx, w.owner, w.owner.ID))
	assert.Zero(t, countRows(t, base, w.owner.ID, nil, "")["user"])
}

func TestDeletePost_ExactCascade(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	w := seed(t, e)

	err := e.integrity.DeletePost(ctx, w.other, w.ownPost)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)

	require.NoError(t, e.integrity.DeletePost(ctx, w.owner, w.ownPost))

	p, err := e.store.Posts().FindByID(ctx, w.ownPost)
	require.NoError(t, err)
	assert.Nil(t, p)
	d, err := e.store.PostDetails().FindByPostID(ctx, w.ownPost)
	require.NoError(t, err)
	assert.Nil(t, d)
	s, err := e.store.SavedPosts().Find(ctx, w.other.ID, w.ownPost)
	require.NoError(t, err)
	assert.Nil(t, s)

	// 与该帖无关的收藏和聊天不受影响
	s, err = e.store.SavedPosts().Find(ctx, w.owner.ID, w.otherPost)
	require.NoError(t, err)
	assert.NotNil(t, s)
	c, err := e.store.Chats().FindByID(ctx, w.chatWithOther)
	require.NoError(t, err)
	assert.NotNil(t, c)

	err = e.integrity.DeletePost(ctx, w.owner, w.ownPost)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestDeletePost_AdminMayDeleteAnyPost(t *testing.T) {
	e := newEnv(t)
	w := seed(t, e)
	require.NoError(t, e.integrity.DeletePost(context.Background(), w.admin, w.otherPost))
}

func TestDeleteChat_OnlyParticipants(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	w := seed(t, e)

	err := e.integrity.DeleteChat(ctx, w.admin, w.chatWithOther)
	assert.ErrorIs(t, err, service.ErrChatNotFound)

	require.NoError(t, e.integrity.DeleteChat(ctx, w.other, w.chatWithOther))
	msgs, err := e.store.Messages().ListByChat(ctx, w.chatWithOther)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	err = e.integrity.DeleteChat(ctx, w.other, w.chatWithOther)
	assert.ErrorIs(t, err, service.ErrChatNotFound)
}
