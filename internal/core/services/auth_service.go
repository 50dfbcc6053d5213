package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/portal-service/internal/logger"
)

type AuthService struct {
	users    ports.UserRepository
	teachers ports.TeacherRepository
	sessions ports.SessionStore
	hasher   ports.PasswordHasher
	ttl      time.Duration
	now      func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	users ports.UserRepository,
	teachers ports.TeacherRepository,
	sessions ports.SessionStore,
	hasher ports.PasswordHasher,
	ttl time.Duration,
) *AuthService {
	return &AuthService{
		users:    users,
		teachers: teachers,
		sessions: sessions,
		hasher:   hasher,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login checks the credentials and the selected role tab, then opens a
// session. Every credential failure yields the same *domain.AuthError.
func (s *AuthService) Login(ctx context.Context, username, password string, role domain.Role) (*domain.Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.AuthError{Reason: domain.AuthUserNotFound}
	}
	if err != nil {
		return nil, errors.Wrap(err, "looking up user")
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, &domain.AuthError{Reason: domain.AuthBadCredential}
	}
	if user.Role != role {
		return nil, &domain.AuthError{Reason: domain.AuthRoleMismatch}
	}

	now := s.now().UTC()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		Username:  user.Username,
		Role:      user.Role,
		Name:      user.GreetingName(),
		ProfileID: user.DomainID(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if user.Role == domain.RoleTeacher {
		profile, err := s.teachers.FindByID(ctx, sess.ProfileID)
		switch {
		case err == nil:
			sess.Teacher = profile
			if profile.Name != "" {
				sess.Name = profile.Name
			}
		case errors.Is(err, domain.ErrNotFound):
			logger.LogWarn("teacher profile missing at login", "username", user.Username, "teacher_id", sess.ProfileID)
		default:
			logger.LogError("failed to load teacher profile at login", err, "username", user.Username)
		}
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, errors.Wrap(err, "creating session")
	}
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return errors.Wrap(s.sessions.Delete(ctx, sessionID), "deleting session")
}

// Session resolves an active session. Expired sessions are removed and
// reported as domain.ErrNotFound.
func (s *AuthService) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrNotFound
	}
	return sess, nil
}

// RequireRole grants access only to a live session holding exactly role.
// Any other caller gets an *domain.AccessDeniedError naming role.
func RequireRole(sess *domain.Session, role domain.Role) error {
	if sess != nil && sess.Role == role {
		return nil
	}
	return &domain.AccessDeniedError{Required: role}
}
