package service

import (
	"context"
	"errors"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo   domain.UserRepository
	logger *zerolog.Logger
}

func NewUserService(repo domain.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserService) ListAll(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(users), nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "user %d not found", id)
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	if user.Name == "" || user.Email == "" {
		return nil, domain.Validation("user name and email are required")
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, s.duplicateErr(err, user.Email)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

// Update applies the non-nil fields of patch to the stored user.
func (s *UserService) Update(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	user, err := s.GetByID(ctx, patch.ID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Validation("user name must not be blank")
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) == "" {
		return nil, domain.Validation("user email must not be blank")
	}
	patch.Apply(user)

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NotFound("user %d not found", patch.ID)
		}
		return nil, s.duplicateErr(err, user.Email)
	}

	s.logger.Debug().Int64("user_id", user.ID).Msg("user updated")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.repo.DeleteUser(ctx, id)
	switch {
	case err == nil:
		s.logger.Info().Int64("user_id", id).Msg("user deleted")
		return nil
	case errors.Is(err, database.ErrNotFound):
		return domain.NotFound("user %d not found", id)
	case errors.Is(err, database.ErrReferenced):
		return domain.Conflict(err, "user %d still has items, bookings or requests", id)
	default:
		return err
	}
}

func (s *UserService) duplicateErr(err error, email string) error {
	if errors.Is(err, database.ErrDuplicate) {
		return domain.Conflict(err, "email %s is already in use", email)
	}
	return err
}
