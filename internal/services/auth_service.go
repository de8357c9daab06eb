package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dimuthu1234/soundcloud-boost/internal/model"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLen = 8

type AuthService struct {
	Admins AdminStore
}

func NewAuthService(admins AdminStore) *AuthService {
	return &AuthService{Admins: admins}
}

// Register creates an admin account with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.Admin, error) {
	if !emailRegex.MatchString(email) {
		return nil, errors.New("invalid email format")
	}
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("password too short: must be at least %d characters", MinPasswordLen)
	}

	existing, err := s.Admins.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("admin with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}

	id, err := s.Admins.Create(ctx, email, string(hash), name)
	if err != nil {
		return nil, err
	}
	return s.Admins.GetByID(ctx, id)
}

// Login authenticates by email + password and returns the admin.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Admin, error) {
	admin, err := s.Admins.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, errors.New("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid email or password")
	}
	return admin, nil
}

func (s *AuthService) GetAdmin(ctx context.Context, id int64) (*model.Admin, error) {
	admin, err := s.Admins.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, errors.New("admin not found")
	}
	return admin, nil
}
