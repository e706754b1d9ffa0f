package userRepo

import "drutaseva/models"

// UserRepository defines persistence for rider accounts.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	// Lookups return nil (no error) when no user matches.
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	GetByTokenHash(tokenHash string) (*models.User, error)
	UpdateTokenHash(id, tokenHash string) error
}
