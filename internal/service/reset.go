package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"

	"estate-api/internal/core/apperr"
	"estate-api/internal/core/mail"
	"estate-api/internal/domain"
	"estate-api/pkg/utils"
)

// PasswordReset 忘记密码流程：库里只存 token 的 sha256，明文只出现在邮件链接里
type PasswordReset struct {
	store     domain.Store
	mailer    mail.Mailer
	clientURL string
	ttl       time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func NewPasswordReset(store domain.Store, mailer mail.Mailer, clientURL string, ttl time.Duration, l *zap.Logger) *PasswordReset {
	return &PasswordReset{
		store:     store,
		mailer:    mailer,
		clientURL: strings.TrimRight(clientURL, "/"),
		ttl:       ttl,
		now:       time.Now,
		log:       l.Named("reset"),
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (p *PasswordReset) Forgot(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperr.Validation("Email is required")
	}
	u, err := p.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return apperr.Internal("Failed to send reset email", err)
	}
	if u == nil {
		return ErrUserNotFound
	}
	token, err := newToken()
	if err != nil {
		return apperr.Internal("Failed to send reset email", err)
	}
	expiry := p.now().Add(p.ttl)
	u.ResetTokenHash, u.ResetTokenExpiry = hashToken(token), &expiry
	if err := p.store.Users().Update(ctx, u); err != nil {
		return apperr.Internal("Failed to send reset email", err)
	}

	link := p.clientURL + "/reset-password/" + token
	err = p.mailer.Send(ctx, mail.Message{
		To:      u.Email,
		Subject: "Password Reset",
		Body:    "You requested a password reset. Open the link below to set a new password:\n\n" + link,
	})
	if err != nil {
		return apperr.Internal("Failed to send reset email", err)
	}
	p.log.Info("reset token issued", zap.String("user_id", u.ID), zap.Time("expires", expiry))
	return nil
}

func (p *PasswordReset) lookup(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidResetToken
	}
	u, err := p.store.Users().FindByResetToken(ctx, hashToken(token), p.now())
	if err != nil {
		return nil, apperr.Internal("Failed to reset password", err)
	}
	if u == nil {
		return nil, ErrInvalidResetToken
	}
	return u, nil
}

func (p *PasswordReset) Verify(ctx context.Context, token string) error {
	_, err := p.lookup(ctx, token)
	return err
}

// Reset 成功后 token 作废
func (p *PasswordReset) Reset(ctx context.Context, token, password string) error {
	if len(password) < 6 || len(password) > 72 {
		return apperr.Validation("Password must be 6 to 72 characters")
	}
	u, err := p.lookup(ctx, token)
	if err != nil {
		return err
	}
	if u.PasswordHash, err = utils.HashPassword(password); err != nil {
		return apperr.Internal("Failed to reset password", err)
	}
	u.ResetTokenHash, u.ResetTokenExpiry = "", nil
	if err := p.store.Users().Update(ctx, u); err != nil {
		return apperr.Internal("Failed to reset password", err)
	}
	p.log.Info("password reset", zap.String("user_id", u.ID))
	return nil
}
