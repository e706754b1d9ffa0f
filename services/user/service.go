// File: services/user/service.go
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"drutaseva/models"
	"drutaseva/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 72 * time.Hour

// Register creates an account and signs the rider in.
func (s *DefaultUserService) Register(ctx context.Context, data models.UserRegistrationData) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(data.Email))

	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("Register: failed to check for existing user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, newAuthError(CodeDuplicateAccount, "an account with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("Register: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	userRec := &models.User{
		ID:           uuid.New().String(),
		Name:         data.Name,
		Email:        email,
		PasswordHash: string(hashed),
		PhoneNumber:  data.PhoneNumber,
	}
	if err := s.Repo.Create(userRec); err != nil {
		return nil, fmt.Errorf("registration failed, please try again")
	}

	return s.issueToken(ctx, userRec)
}

// Authenticate signs a rider in with email and password.
func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*AuthResponse, error) {
	userRec, err := s.Repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		utils.GetLogger().Error("Authenticate: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if userRec == nil {
		return nil, newAuthError(CodeInvalidCredentials, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(password)); err != nil {
		return nil, newAuthError(CodeInvalidCredentials, "invalid email or password")
	}

	return s.issueToken(ctx, userRec)
}

// GetUserByID fetches an account snapshot.
func (s *DefaultUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	userRec, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if userRec == nil {
		return nil, newAuthError(CodeUserNotFound, "user not found")
	}
	return userRec, nil
}

// RevokeAuthToken signs the rider out everywhere: the stored token hash is
// cleared and the auth cache entry dropped.
func (s *DefaultUserService) RevokeAuthToken(ctx context.Context, userID string) error {
	if err := s.Repo.UpdateTokenHash(userID, ""); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	if err := s.AuthCache.Del(ctx, utils.AuthCachePrefix+userID).Err(); err != nil {
		utils.GetLogger().Warn("RevokeAuthToken: failed to clear auth cache", zap.Error(err))
	}
	return nil
}

// issueToken signs a JWT, stores its hash on the account and caches it for
// the auth gate's fast path.
func (s *DefaultUserService) issueToken(ctx context.Context, userRec *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(userRec.ID, userRec.Email, tokenDuration)
	if err != nil {
		utils.GetLogger().Error("issueToken: failed to sign token", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	hash := utils.HashToken(token)
	if err := s.Repo.UpdateTokenHash(userRec.ID, hash); err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if err := s.AuthCache.Set(ctx, utils.AuthCachePrefix+userRec.ID, hash, time.Hour).Err(); err != nil {
		utils.GetLogger().Warn("issueToken: failed to cache token hash", zap.Error(err))
	}

	userRec.TokenHash = hash
	return &AuthResponse{User: userRec, Token: token}, nil
}
