package service

import (
	"errors"

	"github.com/vund-dev/moda-backend/config"
	"github.com/vund-dev/moda-backend/internal/app/model"
	"github.com/vund-dev/moda-backend/internal/app/repository"
	"github.com/vund-dev/moda-backend/pkg/logger"
	"github.com/vund-dev/moda-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	Register(email, password, name string, role model.UserRole) (*model.User, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Refresh(refreshToken string) (*util.TokenPair, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwt      config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwt config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		jwt:      jwt,
	}
}

func (s *authService) Register(email, password, name string, role model.UserRole) (*model.User, error) {
	hashed, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return nil, err
	}

	if role == "" {
		role = model.RoleStaff
	}

	user := &model.User{
		Email:    email,
		Password: hashed,
		Name:     name,
		Role:     role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})
	return user, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.Password, password) {
		logger.Warn("Login failed", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.jwt.Secret, s.jwt.AccessTokenExpiry, s.jwt.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwt.Secret)
	if err != nil {
		return nil, err
	}

	// Re-check the user still exists before reissuing.
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, util.ErrInvalidToken
	}

	return util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.jwt.Secret, s.jwt.AccessTokenExpiry, s.jwt.RefreshTokenExpiry,
	)
}
