package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/compasscar/compass-car-api/models"
)

// bcrypt cost used for all password hashes
const passwordHashCost = 10

// UserService implements the user lifecycle rules
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService bound to a database handle
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUserInput carries the fields accepted on user creation
type CreateUserInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput carries the optional fields of a partial user update
type UpdateUserInput struct {
	FullName *string
	Email    *string
	Password *string
}

// CreateUser registers a new user. The email must not belong to another
// non-deleted user; the password is bcrypt-hashed before storage.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	var existing models.User
	err := s.db.Where("email = ?", input.Email).First(&existing).Error
	if err == nil && existing.DeletedAt == nil {
		return nil, NewConflictError("E-mail já está em uso.")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewUnexpectedError("Erro interno.", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), passwordHashCost)
	if err != nil {
		return nil, NewUnexpectedError("Erro interno.", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		FullName: input.FullName,
		Email:    input.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, NewUnexpectedError("Erro interno.", err)
	}

	return &user, nil
}

// ListUsers returns all non-deleted users
func (s *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("deleted_at IS NULL").Find(&users).Error; err != nil {
		return nil, NewUnexpectedError("Erro interno.", err)
	}
	if len(users) == 0 {
		return nil, NewNotFoundError("Usuários não encontrados.")
	}
	return users, nil
}

// GetUserByID returns a non-deleted user by id
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ? AND deleted_at IS NULL", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Usuário não encontrado")
		}
		return nil, NewUnexpectedError("Erro interno.", err)
	}
	return &user, nil
}

// UpdateUser applies a partial update. A supplied email must not belong to a
// different non-deleted user; a supplied password is re-hashed.
func (s *UserService) UpdateUser(id string, input UpdateUserInput) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ? AND deleted_at IS NULL", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Usuário não encontrado.")
		}
		return nil, NewUnexpectedError("Erro interno.", err)
	}

	updates := make(map[string]interface{})
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.Email != nil {
		var other models.User
		err := s.db.Where("email = ? AND id <> ? AND deleted_at IS NULL", *input.Email, id).First(&other).Error
		if err == nil {
			return nil, NewConflictError("Email já está sendo utilizado")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewUnexpectedError("Erro interno.", err)
		}
		updates["email"] = *input.Email
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), passwordHashCost)
		if err != nil {
			return nil, NewUnexpectedError("Erro interno.", err)
		}
		updates["password"] = string(hashed)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, NewUnexpectedError("Erro interno.", err)
		}
	}

	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, NewUnexpectedError("Erro interno.", err)
	}
	return &user, nil
}

// DeleteUser soft-deletes a user by setting its deletion timestamp
func (s *UserService) DeleteUser(id string) error {
	var user models.User
	err := s.db.Where("id = ? AND deleted_at IS NULL", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Usuário não encontrado")
		}
		return NewUnexpectedError("Erro interno.", err)
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("deleted_at", &now).Error; err != nil {
		return NewUnexpectedError("Erro interno.", err)
	}
	return nil
}
