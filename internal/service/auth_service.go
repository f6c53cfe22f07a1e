package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/gorm"

	"chorepoints/internal/model"
	"chorepoints/internal/repository"
)

// Password hashing parameters: PBKDF2-HMAC-SHA256 with a random per-user
// salt.
const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32
	saltLen          = 16
)

// SessionTTL is how long a signed-in session stays valid.
const SessionTTL = 30 * 24 * time.Hour

// AuthService manages accounts and their sessions.
type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		users:    repository.NewUserRepository(db),
		sessions: repository.NewSessionRepository(db),
	}
}

// SignUp creates an account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, username, password string, now time.Time) (*model.User, *model.Session, error) {
	if username == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("check username: %w", err)
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}

	user := model.User{
		Username:     username,
		PasswordHash: hashPassword(password, salt),
		Salt:         salt,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, nil, err
	}

	session, err := s.startSession(ctx, user.ID, now)
	if err != nil {
		return nil, nil, err
	}
	return &user, session, nil
}

// SignIn verifies the credentials and starts a session. A missing account
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, username, password string, now time.Time) (*model.User, *model.Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBadCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	hash := hashPassword(password, user.Salt)
	if subtle.ConstantTimeCompare(hash, user.PasswordHash) != 1 {
		return nil, nil, ErrBadCredentials
	}

	session, err := s.startSession(ctx, user.ID, now)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Resolve maps a session token to its user. Expired or unknown tokens fail
// with ErrUnauthorized; a session pointing at a deleted user is a
// consistency fault.
func (s *AuthService) Resolve(ctx context.Context, token string, now time.Time) (*model.User, error) {
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	if !session.ExpiresAt.After(now) {
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %d user %d: %w", session.ID, session.UserID, ErrUserNotFound)
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return user, nil
}

// SignOut discards the session. Unknown tokens are not an error.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessions.DeleteByToken(ctx, token)
}

// PurgeSessions removes expired sessions; run periodically.
func (s *AuthService) PurgeSessions(ctx context.Context, now time.Time) (int64, error) {
	return s.sessions.PurgeExpired(ctx, now)
}

// LinkTelegram stores the chat id daily reports are sent to.
func (s *AuthService) LinkTelegram(ctx context.Context, userID uint, chatID int64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("link telegram for user %d: %w", userID, ErrUserNotFound)
		}
		return fmt.Errorf("link telegram: %w", err)
	}
	user.TelegramChatID = &chatID
	return s.users.Save(ctx, user)
}

func (s *AuthService) startSession(ctx context.Context, userID uint, now time.Time) (*model.Session, error) {
	session := model.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(SessionTTL),
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func hashPassword(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
}
