package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"diplomat/internal/middleware"
	"diplomat/internal/models"
	"diplomat/internal/notifications"
	"diplomat/internal/repository"

	"gorm.io/gorm"
)

// UserService provisions accounts from the external identity provider and
// reads user profiles.
type UserService struct {
	userRepo repository.UserRepository
	outbox   *notifications.Outbox
}

// ProvisionUserInput carries the identity-provider profile for an account.
type ProvisionUserInput struct {
	ExternalID string
	Username   string
	Email      string
}

// ProvisionResult reports the account and whether this call created it.
type ProvisionResult struct {
	User    *models.User
	Created bool
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, outbox *notifications.Outbox) *UserService {
	return &UserService{userRepo: userRepo, outbox: outbox}
}

// welcomeRetry covers the one write whose loss a user would actually notice
// on first login. Everything else in the outbox is single-attempt.
var welcomeRetry = notifications.FixedDelay(3, time.Second)

// Provision creates the local account for an external identity, or returns
// the existing one. Safe to call on every login.
func (s *UserService) Provision(ctx context.Context, in ProvisionUserInput) (*ProvisionResult, error) {
	externalID := strings.TrimSpace(in.ExternalID)
	if externalID == "" {
		return nil, models.NewValidationError("external_id is required")
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, models.NewValidationError("username is required")
	}
	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, models.NewValidationError("A valid email is required")
	}

	existing, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err == nil {
		return &ProvisionResult{User: existing, Created: false}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		ExternalID: externalID,
		Username:   username,
		Email:      email,
		Role:       models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Two first logins racing: the loser re-reads the winner's row.
		if errors.Is(err, repository.ErrDuplicate) {
			existing, err := s.userRepo.GetByExternalID(ctx, externalID)
			if err != nil {
				return nil, err
			}
			return &ProvisionResult{User: existing, Created: false}, nil
		}
		return nil, err
	}

	if err := s.outbox.WriteWithPolicy(ctx, &models.Notification{
		UserID:   user.ID,
		Title:    "Welcome to Diplomat Corner",
		Message:  "Your account is ready. List a car or house to get started.",
		Type:     models.NotificationTypeSuccess,
		Category: models.NotificationCategoryAccount,
	}, welcomeRetry); err != nil {
		middleware.Logger.ErrorContext(ctx, "welcome notification dropped",
			slog.Any("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return &ProvisionResult{User: user, Created: true}, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return user, nil
}
