package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/providers/mailer"
	"feedbackboard/internal/providers/redis"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxCodeAttempts = 5

type Service interface {
	RequestCode(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code, userAgent string) (*SessionResponse, error)
	EmailForSession(ctx context.Context, sessionKey string) (string, error)
	End(ctx context.Context, sessionKey string) error
}

type service struct {
	repo       Repository
	redisP     *redis.RedisProvider
	mailer     mailer.Sender
	logger     *zap.SugaredLogger
	sessionTTL time.Duration
	codeTTL    time.Duration
	now        func() time.Time
}

func NewService(
	repo Repository,
	redisP *redis.RedisProvider,
	sender mailer.Sender,
	logger *zap.Logger,
	sessionTTL, codeTTL time.Duration,
) Service {
	return &service{
		repo:       repo,
		redisP:     redisP,
		mailer:     sender,
		logger:     logger.Sugar(),
		sessionTTL: sessionTTL,
		codeTTL:    codeTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func codeKey(email string) string     { return "otp:" + email }
func attemptsKey(email string) string { return "otp:attempts:" + email }
func cacheKey(sessionKey string) string {
	return "session:" + sessionKey
}

func (s *service) RequestCode(ctx context.Context, email string) error {
	email = identity.NormalizeEmail(email)
	if err := apperr.ValidateStruct(RequestCodeRequest{Email: email}); err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return apperr.Internal("failed to issue sign-in code", err)
	}
	if err := s.redisP.SetEX(ctx, codeKey(email), code, s.codeTTL).Err(); err != nil {
		s.logger.Errorw("Failed to store sign-in code", "email", email, "error", err)
		return apperr.Internal("failed to issue sign-in code", err)
	}
	s.redisP.Del(ctx, attemptsKey(email))

	if err := s.mailer.SendCode(ctx, email, code, s.codeTTL); err != nil {
		s.logger.Errorw("Failed to deliver sign-in code", "email", email, "error", err)
		return apperr.Internal("failed to send sign-in code", err)
	}
	return nil
}

func (s *service) Verify(ctx context.Context, email, code, userAgent string) (*SessionResponse, error) {
	email = identity.NormalizeEmail(email)
	if err := apperr.ValidateStruct(VerifyCodeRequest{Email: email, Code: code}); err != nil {
		return nil, err
	}

	claim, err := s.redisP.Claim(ctx, codeKey(email), code, attemptsKey(email))
	if err != nil {
		s.logger.Errorw("Failed to check sign-in code", "email", email, "error", err)
		return nil, apperr.Internal("failed to verify sign-in code", err)
	}
	switch claim {
	case redis.ClaimMissing:
		return nil, apperr.Validation("sign-in code is invalid or has expired")
	case redis.ClaimMismatch:
		attempts, err := s.redisP.Client.Incr(ctx, attemptsKey(email)).Result()
		if err == nil {
			s.redisP.Client.Expire(ctx, attemptsKey(email), s.codeTTL)
			if attempts >= maxCodeAttempts {
				s.redisP.Del(ctx, codeKey(email), attemptsKey(email))
				s.logger.Warnw("Sign-in code revoked after repeated failures", "email", email)
			}
		}
		return nil, apperr.Validation("sign-in code is invalid or has expired")
	}

	sessionKey, err := generateSessionKey()
	if err != nil {
		return nil, apperr.Internal("failed to create session", err)
	}
	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		SessionKey: sessionKey,
		Email:      email,
		ExpiresAt:  now.Add(s.sessionTTL),
		CreatedAt:  now,
	}
	if userAgent != "" {
		sess.UserAgent = &userAgent
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		s.logger.Errorw("Failed to persist session", "email", email, "error", err)
		return nil, apperr.Internal("failed to create session", err)
	}

	s.logger.Infow("Session created", "email", email, "session_id", sess.ID)
	return &SessionResponse{SessionKey: sessionKey, Email: email, ExpiresAt: sess.ExpiresAt}, nil
}

func (s *service) EmailForSession(ctx context.Context, sessionKey string) (string, error) {
	if cached, err := s.redisP.Get(ctx, cacheKey(sessionKey)).Result(); err == nil && cached != "" {
		return cached, nil
	}

	sess, err := s.repo.GetSessionByKey(ctx, sessionKey)
	if err != nil {
		return "", err
	}
	now := s.now()
	if !sess.Active(now) {
		return "", apperr.NotFound("session expired")
	}

	ttl := s.redisP.TTL()
	if remaining := sess.ExpiresAt.Sub(now); remaining < ttl {
		ttl = remaining
	}
	s.redisP.SetEX(ctx, cacheKey(sessionKey), sess.Email, ttl)
	return sess.Email, nil
}

func (s *service) End(ctx context.Context, sessionKey string) error {
	if sessionKey == "" {
		return apperr.Unauthenticated("no active session")
	}
	s.redisP.Del(ctx, cacheKey(sessionKey))
	if err := s.repo.EndSession(ctx, sessionKey, s.now()); err != nil {
		s.logger.Errorw("Failed to end session", "error", err)
		return apperr.Internal("failed to sign out", err)
	}
	return nil
}

func generateSessionKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
