package services

import (
	"academy_backend/internal/auth"
	"academy_backend/internal/config"
	"academy_backend/internal/logger"
	"academy_backend/internal/models"
	"academy_backend/internal/repositories"
	"academy_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Login(db *gorm.DB, req *models.LoginRequest) (*models.LoginResponse, error)
	EnsureFirstAdmin(db *gorm.DB, cfg *config.Config) error
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &AuthServiceImpl{userRepo: userRepo}
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &models.LoginResponse{
		Token: token,
		User:  user,
	}, nil
}

// EnsureFirstAdmin seeds the configured admin account when the users
// table is empty, so a fresh install is immediately usable.
func (s *AuthServiceImpl) EnsureFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	count, err := s.userRepo.CountAll(db)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		FullName:     "Administrator",
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		Role:         models.UserRoleSuperAdmin,
		IsActive:     true,
	}

	if err := s.userRepo.Create(db, admin); err != nil {
		return err
	}

	logger.Info("seeded first admin account", "email", cfg.Admin.Email)
	return nil
}
