package services

import (
	"context"
	"errors"

	"umlforge/internal/models"
	"umlforge/internal/repositories"
	"umlforge/internal/utils"
)

type AuthService struct {
	userRepo  *repositories.UserRepository
	redisRepo *repositories.RedisRepository
}

func NewAuthService(userRepo *repositories.UserRepository, redisRepo *repositories.RedisRepository) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		redisRepo: redisRepo,
	}
}

func (s *AuthService) Register(user *models.User, password string) (string, string, error) {
	existing, _ := s.userRepo.FindUserByEmail(user.Email)
	if existing != nil {
		return "", "", errors.New("user already exists")
	}

	hashedPassword, err := utils.Hash(password)
	if err != nil {
		return "", "", err
	}
	user.HashedPassword = string(hashedPassword)
	user.IsActive = true

	if err := s.userRepo.Create(user); err != nil {
		return "", "", err
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(email, password string) (string, string, error) {
	user, err := s.userRepo.FindUserByEmail(email)
	if err != nil || user == nil {
		return "", "", errors.New("user not found")
	}

	if !user.IsActive {
		return "", "", errors.New("account is disabled")
	}

	if err := utils.VerifyPassword(user.HashedPassword, password); err != nil {
		return "", "", errors.New("invalid password")
	}

	return s.issueTokens(user)
}

// Refresh rotates the token pair. The old jti is blacklisted so a stolen
// refresh token dies on first reuse.
func (s *AuthService) Refresh(refreshToken string) (string, string, error) {
	claims, err := utils.VerifyJWT(refreshToken, utils.RefreshTokenSecret)
	if err != nil {
		return "", "", errors.New("invalid or expired refresh token")
	}

	ctx := context.Background()
	blacklisted, err := s.redisRepo.IsBlacklisted(ctx, claims.ID)
	if err == nil && blacklisted {
		return "", "", errors.New("refresh token has been revoked")
	}

	userID, err := utils.ParseUUID(claims.Subject)
	if err != nil {
		return "", "", errors.New("invalid token subject")
	}

	user, err := s.userRepo.FindUserByID(userID)
	if err != nil || user == nil {
		return "", "", errors.New("user not found")
	}

	if err := s.redisRepo.Blacklist(ctx, claims.ID); err != nil {
		return "", "", err
	}

	return s.issueTokens(user)
}

func (s *AuthService) Logout(jti string) error {
	return s.redisRepo.Blacklist(context.Background(), jti)
}

func (s *AuthService) issueTokens(user *models.User) (string, string, error) {
	accessToken, refreshToken, jti, err := utils.GenerateTokens(user.ID)
	if err != nil {
		return "", "", err
	}

	if err := s.redisRepo.StoreSession(context.Background(), jti, user.ID.String()); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
