package userRepo

import (
	"context"
	"fmt"
	"time"

	"emviapp/database"
	"emviapp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a new instance of MongoUserRepo.
func NewMongoUserRepo() UserRepository {
	return &MongoUserRepo{coll: database.DB().Collection("users")}
}

func (repo *MongoUserRepo) Insert(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (repo *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching user with id %s: %w", id, err)
	}
	return &user, nil
}

func (repo *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := repo.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching user with email %s: %w", email, err)
	}
	return &user, nil
}

func (repo *MongoUserRepo) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": user.ID}, bson.M{"$set": user})
	if err != nil {
		return fmt.Errorf("error updating user %s: %w", user.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
