// File: database/repository/user/userMongoQueries.go
package userRepo

import (
	"fmt"
	"time"

	"drutaseva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *MongoUserRepo) findOne(filter bson.M, desc string) (*models.User, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user by %s: %w", desc, err)
	}
	return &user, nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(id string) (*models.User, error) {
	return r.findOne(bson.M{"id": id}, "id")
}

// GetByEmail retrieves a user by email.
func (r *MongoUserRepo) GetByEmail(email string) (*models.User, error) {
	return r.findOne(bson.M{"email": email}, "email")
}

// GetByPhone retrieves a user by phone number.
func (r *MongoUserRepo) GetByPhone(phone string) (*models.User, error) {
	return r.findOne(bson.M{"phone_number": phone}, "phone")
}

// GetByTokenHash retrieves the user holding the given auth token hash.
func (r *MongoUserRepo) GetByTokenHash(tokenHash string) (*models.User, error) {
	if tokenHash == "" {
		return nil, nil
	}
	return r.findOne(bson.M{"token_hash": tokenHash}, "token hash")
}
