package user

import (
	"context"

	userRepo "drutaseva/database/repository/user"
	"drutaseva/models"

	"github.com/go-redis/redis/v8"
)

// AuthResponse is returned on any successful sign-in path.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// UserService manages rider accounts and both sign-in paths (email+password
// and phone OTP).
type UserService interface {
	Register(ctx context.Context, data models.UserRegistrationData) (*AuthResponse, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResponse, error)
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	RevokeAuthToken(ctx context.Context, userID string) error
}

// SMSSender delivers OTP codes. The default implementation only logs; real
// SMS delivery is an external collaborator.
type SMSSender interface {
	Send(phone, message string) error
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo      userRepo.UserRepository
	AuthCache *redis.Client
	OTPCache  *redis.Client
	SMS       SMSSender
}
