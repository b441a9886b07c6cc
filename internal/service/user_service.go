package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// UserService covers user CRUD. Uniqueness of email enforced by storage.
type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if strings.TrimSpace(user.Name) == "" {
		return nil, fmt.Errorf("%w: user name is blank", database.ErrInvalidArgument)
	}
	if !validEmail(user.Email) {
		return nil, fmt.Errorf("%w: malformed email %q", database.ErrInvalidArgument, user.Email)
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("User created")
	return user, nil
}

// UpdateUser патчит имя и почту; пустые поля не изменяются.
func (s *UserService) UpdateUser(ctx context.Context, patch *models.User) (*models.User, error) {
	existing, err := s.repo.GetUser(ctx, patch.ID)
	if err != nil {
		return nil, err
	}

	if patch.Name != "" {
		existing.Name = patch.Name
	}
	if patch.Email != "" {
		if !validEmail(patch.Email) {
			return nil, fmt.Errorf("%w: malformed email %q", database.ErrInvalidArgument, patch.Email)
		}
		existing.Email = patch.Email
	}

	if err := s.repo.UpdateUser(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

// validEmail делает минимальную проверку формы адреса без внешних вызовов.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return !strings.ContainsAny(email, " \t") && strings.Contains(domain, ".")
}
