package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"estate-api/internal/core/apperr"
	"estate-api/internal/domain"
	"estate-api/pkg/utils"
)

type Users struct {
	store    domain.Store
	profiles ProfileSource
	validate *validator.Validate
	log      *zap.Logger
}

func NewUsers(store domain.Store, profiles ProfileSource, l *zap.Logger) *Users {
	return &Users{store: store, profiles: profiles, validate: newValidator(), log: l.Named("users")}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserInput 空字段表示不修改
type UpdateUserInput struct {
	Username string `json:"username" validate:"omitempty,min=3,max=64"`
	Email    string `json:"email" validate:"omitempty,email,max=191"`
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
	Avatar   string `json:"avatar" validate:"omitempty,max=512"`
}

type ProfilePosts struct {
	UserPosts  []PostWithDetail `json:"userPosts"`
	SavedPosts []PostWithDetail `json:"savedPosts"`
}

type UserWithPosts struct {
	domain.User
	Posts []PostWithDetail `json:"posts"`
}

func (s *Users) ensureUnique(ctx context.Context, selfID, username, email string) error {
	if username != "" {
		u, err := s.store.Users().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if u != nil && u.ID != selfID {
			return apperr.Conflict("Username already exists")
		}
	}
	if email != "" {
		u, err := s.store.Users().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u != nil && u.ID != selfID {
			return apperr.Conflict("Email already exists")
		}
	}
	return nil
}

func (s *Users) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username, in.Email = strings.TrimSpace(in.Username), strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	if err := s.ensureUnique(ctx, "", in.Username, in.Email); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, err
		}
		return nil, apperr.Internal("Failed to create user!", err)
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("Failed to create user!", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, apperr.Internal("Failed to create user!", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

// Authenticate 用户不存在和密码错误返回同一个错误
func (s *Users) Authenticate(ctx context.Context, in LoginInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	u, err := s.store.Users().FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, apperr.Internal("Failed to login!", err)
	}
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Users) Get(ctx context.Context, id string) (*domain.User, error) {
	if err := checkID(id, "User"); err != nil {
		return nil, err
	}
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to get user!", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Users) List(ctx context.Context) ([]domain.PublicProfile, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to get users!", err)
	}
	out := make([]domain.PublicProfile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Profile())
	}
	return out, nil
}

// Update 只能改自己；角色不能通过这里修改
func (s *Users) Update(ctx context.Context, caller domain.Caller, id string, in UpdateUserInput) (*domain.User, error) {
	if err := checkID(id, "User"); err != nil {
		return nil, err
	}
	if caller.ID != id {
		return nil, ErrNotAuthorized
	}
	in.Username, in.Email = strings.TrimSpace(in.Username), strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to update users!", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if err := s.ensureUnique(ctx, id, in.Username, in.Email); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, err
		}
		return nil, apperr.Internal("Failed to update users!", err)
	}

	if in.Username != "" {
		u.Username = in.Username
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Avatar != "" {
		u.Avatar = in.Avatar
	}
	if in.Password != "" {
		if u.PasswordHash, err = utils.HashPassword(in.Password); err != nil {
			return nil, apperr.Internal("Failed to update users!", err)
		}
	}
	if err := s.store.Users().Update(ctx, u); err != nil {
		return nil, apperr.Internal("Failed to update users!", err)
	}
	s.profiles.Forget(ctx, id)
	return u, nil
}

// ToggleSaved 已收藏则取消，否则收藏；返回操作后的状态
func (s *Users) ToggleSaved(ctx context.Context, caller domain.Caller, postID string) (bool, error) {
	if err := checkID(postID, "Post"); err != nil {
		return false, err
	}
	existing, err := s.store.SavedPosts().Find(ctx, caller.ID, postID)
	if err != nil {
		return false, apperr.Internal("Failed to save post!", err)
	}
	if existing != nil {
		if err := s.store.SavedPosts().Delete(ctx, existing.ID); err != nil {
			return false, apperr.Internal("Failed to save post!", err)
		}
		return false, nil
	}
	post, err := s.store.Posts().FindByID(ctx, postID)
	if err != nil {
		return false, apperr.Internal("Failed to save post!", err)
	}
	if post == nil || !CanView(&caller, post) {
		return false, ErrPostNotFound
	}
	sp := &domain.SavedPost{ID: utils.NewID(), UserID: caller.ID, PostID: postID, CreatedAt: time.Now()}
	if err := s.store.SavedPosts().Create(ctx, sp); err != nil {
		return false, apperr.Internal("Failed to save post!", err)
	}
	return true, nil
}

func (s *Users) ProfilePosts(ctx context.Context, userID string) (*ProfilePosts, error) {
	own, err := s.store.Posts().List(ctx, domain.PostFilter{UserID: userID})
	if err != nil {
		return nil, apperr.Internal("Failed to get profile posts!", err)
	}
	saved, err := s.store.SavedPosts().ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to get profile posts!", err)
	}
	ids := make([]string, 0, len(saved))
	for _, sp := range saved {
		ids = append(ids, sp.PostID)
	}
	savedPosts, err := s.store.Posts().FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("Failed to get profile posts!", err)
	}
	out := &ProfilePosts{}
	if out.UserPosts, err = withDetails(ctx, s.store, own); err != nil {
		return nil, apperr.Internal("Failed to get profile posts!", err)
	}
	if out.SavedPosts, err = withDetails(ctx, s.store, savedPosts); err != nil {
		return nil, apperr.Internal("Failed to get profile posts!", err)
	}
	return out, nil
}

// UsersWithPosts 管理端用户列表，带各自的帖子和详情
func (s *Users) UsersWithPosts(ctx context.Context, caller domain.Caller) ([]UserWithPosts, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminOnly
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to get users!", err)
	}
	out := make([]UserWithPosts, 0, len(users))
	for _, u := range users {
		posts, err := s.store.Posts().List(ctx, domain.PostFilter{UserID: u.ID})
		if err != nil {
			return nil, apperr.Internal("Failed to get users!", err)
		}
		withDetail, err := withDetails(ctx, s.store, posts)
		if err != nil {
			return nil, apperr.Internal("Failed to get users!", err)
		}
		out = append(out, UserWithPosts{User: u, Posts: withDetail})
	}
	return out, nil
}

// EnsureAdmin 创建管理员，已存在同名用户则提升为管理员并重设密码
func (s *Users) EnsureAdmin(ctx context.Context, in RegisterInput) (*domain.User, bool, error) {
	u, err := s.store.Users().FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, false, apperr.Internal("Failed to create admin", err)
	}
	if u == nil {
		if u, err = s.Register(ctx, in); err != nil {
			return nil, false, err
		}
		u.Role = domain.RoleAdmin
		if err := s.store.Users().Update(ctx, u); err != nil {
			return nil, false, apperr.Internal("Failed to create admin", err)
		}
		return u, true, nil
	}
	if in.Password != "" {
		if u.PasswordHash, err = utils.HashPassword(in.Password); err != nil {
			return nil, false, apperr.Internal("Failed to create admin", err)
		}
	}
	u.Role = domain.RoleAdmin
	if err := s.store.Users().Update(ctx, u); err != nil {
		return nil, false, apperr.Internal("Failed to create admin", err)
	}
	s.log.Info("user promoted to admin", zap.String("user_id", u.ID))
	return u, false, nil
}
