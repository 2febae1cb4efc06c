package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/compasscar/compass-car-api/models"
)

// AuthService authenticates users and issues signed bearer tokens
type AuthService struct {
	db     *gorm.DB
	secret string
}

// NewAuthService creates an AuthService bound to a database handle and the
// process-wide signing secret
func NewAuthService(db *gorm.DB, secret string) *AuthService {
	return &AuthService{db: db, secret: secret}
}

// Login verifies the credentials and returns a signed JWT valid for one hour
func (s *AuthService) Login(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", NewValidationError("Email and password are required")
	}
	if !IsValidEmail(email) {
		return "", NewValidationError("Invalid email format")
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NewNotFoundError("User does not exist")
		}
		return "", NewUnexpectedError("Erro interno.", err)
	}

	if user.DeletedAt != nil {
		return "", NewBlockedError("User is deleted")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", NewValidationError("Invalid password")
	}

	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return "", NewUnexpectedError("Erro interno.", err)
	}

	return token, nil
}
