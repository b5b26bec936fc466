package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-api/internal/core/apperr"
	"estate-api/internal/domain"
	"estate-api/internal/service"
	"estate-api/pkg/utils"
)

func TestModeration_SubmitStartsPending(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner := e.user(t, "owner")

	p, err := e.moderation.Submit(ctx, owner.ID, listing("loft"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, p.ModerationState)
	assert.Equal(t, owner.ID, p.UserID)
	require.NotNil(t, p.PostDetail)
	assert.Equal(t, p.ID, p.PostDetail.PostID)
	assert.Equal(t, domain.StatusAvailable, p.PostDetail.PropertyStatus)

	bad := listing("")
	bad.PostData.Type = "lease"
	_, err = e.moderation.Submit(ctx, owner.ID, bad)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestModeration_ApproveIsAdminOnlyAndIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner, admin := e.user(t, "owner"), e.admin(t)
	p, err := e.moderation.Submit(ctx, owner.ID, listing("loft"))
	require.NoError(t, err)

	_, err = e.moderation.Approve(ctx, owner, p.ID)
	assert.ErrorIs(t, err, service.ErrAdminOnly)

	_, err = e.moderation.Approve(ctx, admin, utils.NewID())
	assert.ErrorIs(t, err, service.ErrPostNotFound)

	for range 2 {
		got, err := e.moderation.Approve(ctx, admin, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateApproved, got.ModerationState)
	}
}

func TestModeration_RejectDeletesPostAndDetail(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner, admin := e.user(t, "owner"), e.admin(t)
	p, err := e.moderation.Submit(ctx, owner.ID, listing("loft"))
	require.NoError(t, err)

	assert.ErrorIs(t, e.moderation.Reject(ctx, owner, p.ID), service.ErrAdminOnly)
	require.NoError(t, e.moderation.Reject(ctx, admin, p.ID))

	post, err := e.store.Posts().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, post)
	d, err := e.store.PostDetails().FindByPostID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, d)

	assert.ErrorIs(t, e.moderation.Reject(ctx, admin, p.ID), service.ErrPostNotFound)
}

func TestModeration_Queue(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner, admin := e.user(t, "owner"), e.admin(t)
	e.post(t, owner, admin, "approved")
	pending, err := e.moderation.Submit(ctx, owner.ID, listing("pending"))
	require.NoError(t, err)

	_, err = e.moderation.Queue(ctx, owner, domain.StatePending)
	assert.ErrorIs(t, err, service.ErrAdminOnly)

	q, err := e.moderation.Queue(ctx, admin, domain.StatePending)
	require.NoError(t, err)
	require.Len(t, q, 1)
	assert.Equal(t, pending.ID, q[0].ID)
	assert.NotNil(t, q[0].PostDetail)

	all, err := e.moderation.Queue(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = e.moderation.Queue(ctx, admin, "rejected")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCanView(t *testing.T) {
	owner := domain.Caller{ID: "o", Role: domain.RoleUser}
	stranger := domain.Caller{ID: "s", Role: domain.RoleUser}
	admin := domain.Caller{ID: "a", Role: domain.RoleAdmin}
	pending := &domain.Post{UserID: "o", ModerationState: domain.StatePending}
	approved := &domain.Post{UserID: "o", ModerationState: domain.StateApproved}

	assert.True(t, service.CanView(nil, approved))
	assert.True(t, service.CanView(&stranger, approved))
	assert.False(t, service.CanView(nil, pending))
	assert.False(t, service.CanView(&stranger, pending))
	assert.True(t, service.CanView(&owner, pending))
	assert.True(t, service.CanView(&admin, pending))
}

func TestListings_VisibilityAndBrowse(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner, other, admin := e.user(t, "owner"), e.user(t, "other"), e.admin(t)
	approvedID := e.post(t, owner, admin, "approved")
	pending, err := e.moderation.Submit(ctx, owner.ID, listing("pending"))
	require.NoError(t, err)

	posts, err := e.listings.Browse(ctx, domain.PostFilter{City: "Lisbon", UserID: owner.ID, State: domain.StatePending})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, approvedID, posts[0].ID)

	_, err = e.listings.Get(ctx, nil, pending.ID)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
	_, err = e.listings.Get(ctx, &other, pending.ID)
	assert.ErrorIs(t, err, service.ErrPostNotFound)

	view, err := e.listings.Get(ctx, &owner, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", view.User.Username)
	assert.NotNil(t, view.PostDetail)

	saved, err := e.users.ToggleSaved(ctx, other, approvedID)
	require.NoError(t, err)
	require.True(t, saved)
	view, err = e.listings.Get(ctx, &other, approvedID)
	require.NoError(t, err)
	assert.True(t, view.IsSaved)
	view, err = e.listings.Get(ctx, nil, approvedID)
	require.NoError(t, err)
	assert.False(t, view.IsSaved)
}

func TestListings_UpdateKeepsState(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	owner, other, admin := e.user(t, "owner"), e.user(t, "other"), e.admin(t)
	id := e.post(t, owner, admin, "before")

	in := listing("after")
	in.PostDetail.PropertyStatus = "Booked"
	_, err := e.listings.Update(ctx, other, id, in)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)

	got, err := e.listings.Update(ctx, owner, id, in)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, domain.StateApproved, got.ModerationState)
	require.NotNil(t, got.PostDetail)
	assert.Equal(t, domain.StatusBooked, got.PostDetail.PropertyStatus)

	got, err = e.listings.Update(ctx, admin, id, listing("by admin"))
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.UserID)
}
