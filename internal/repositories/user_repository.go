package repositories

import (
	"errors"

	"academy_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(tx *gorm.DB, id string) (*models.User, error)
	FindByEmail(tx *gorm.DB, email string) (*models.User, error)
	Create(tx *gorm.DB, user *models.User) error
	Update(tx *gorm.DB, user *models.User) error
	CountAll(tx *gorm.DB) (int64, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(tx *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := tx.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := tx.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(tx *gorm.DB, user *models.User) error {
	err := tx.Create(user).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepositoryImpl) Update(tx *gorm.DB, user *models.User) error {
	return tx.Save(user).Error
}

func (r *UserRepositoryImpl) CountAll(tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.Model(&models.User{}).Count(&count).Error
	return count, err
}
