package service

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"hotelbooking/internal/db"
	"hotelbooking/internal/repository"
)

type AuthService interface {
	Register(username, email, password, fullName, phone string) (*db.User, error)
	Login(usernameOrEmail, password string) (string, *db.User, error)
}

type authService struct {
	repo repository.UserRepository
}

func NewAuthService(repo repository.UserRepository) AuthService {
	return &authService{repo: repo}
}

func (s *authService) Register(username, email, password, fullName, phone string) (*db.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, errors.New("username, email and password cannot be empty")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	existing, err := s.repo.GetByUsernameOrEmail(username)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing, err = s.repo.GetByUsernameOrEmail(email)
		if err != nil {
			return nil, err
		}
	}
	if existing != nil {
		return nil, errors.New("username or email already registered")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &db.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        phone,
		Role:         "CUSTOMER",
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(usernameOrEmail, password string) (string, *db.User, error) {
	user, err := s.repo.GetByUsernameOrEmail(usernameOrEmail)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, errors.New("invalid credentials")
	}

	if !checkPasswordHash(password, user.PasswordHash) {
		return "", nil, errors.New("invalid credentials")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", nil, errors.New("JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, err
	}

	user.PasswordHash = ""
	return signed, user, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
