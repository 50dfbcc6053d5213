package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/portal-service/internal/logger"
)

const (
	resetPurpose  = "password_reset"
	resetTokenTTL = time.Hour
)

// ErrInvalidResetToken covers expired, tampered and wrong-purpose tokens.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

type resetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ResetTokens signs and verifies password reset tokens.
type ResetTokens struct {
	secret []byte
	now    func() time.Time
}

func NewResetTokens(secret string) *ResetTokens {
	return &ResetTokens{secret: []byte(secret), now: time.Now}
}

func (t *ResetTokens) Issue(username string) (string, error) {
	now := t.now()
	claims := resetClaims{
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(resetTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify returns the username the token was issued for.
func (t *ResetTokens) Verify(token string) (string, error) {
	var claims resetClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidResetToken
	}
	if claims.Purpose != resetPurpose || claims.Subject == "" {
		return "", ErrInvalidResetToken
	}
	return claims.Subject, nil
}

type PasswordResetService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	mailer  ports.Mailer
	tokens  *ResetTokens
	baseURL string
}

var _ ports.PasswordResetService = (*PasswordResetService)(nil)

func NewPasswordResetService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	mailer ports.Mailer,
	tokens *ResetTokens,
	baseURL string,
) *PasswordResetService {
	return &PasswordResetService{
		users:   users,
		hasher:  hasher,
		mailer:  mailer,
		tokens:  tokens,
		baseURL: baseURL,
	}
}

// RequestPasswordReset mails a reset link when username, email and role all
// match one account. Mismatches are not reported to the caller.
func (s *PasswordResetService) RequestPasswordReset(ctx context.Context, username, email string, role domain.Role) error {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		logger.LogInfo("password reset requested for unknown user", "username", username)
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "looking up user")
	}
	if user.Email != email || user.Role != role {
		logger.LogInfo("password reset details did not match", "username", username)
		return nil
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return errors.Wrap(err, "signing reset token")
	}
	link := fmt.Sprintf("%s/reset_password/confirm?token=%s", s.baseURL, url.QueryEscape(token))
	body := fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new password. It expires in one hour.\n\n%s\n",
		user.GreetingName(), link)

	if err := s.mailer.Send(ctx, user.Email, "Password reset", body); err != nil {
		return errors.Wrap(err, "sending reset mail")
	}
	return nil
}

func (s *PasswordResetService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if err := validateVar("password", newPassword, "required,min=8"); err != nil {
		return err
	}
	username, err := s.tokens.Verify(token)
	if err != nil {
		return domain.NewValidationError(err, domain.FieldError{Field: "token", Error: err.Error()})
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if err := s.users.UpdateField(ctx, username, domain.FieldPassword, hash); err != nil {
		return errors.Wrap(err, "storing new password")
	}
	logger.LogInfo("password reset completed", "username", username)
	return nil
}
