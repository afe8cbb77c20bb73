package artistRepo

import (
	"context"
	"fmt"
	"time"

	"emviapp/database"
	"emviapp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoArtistRepo implements ArtistRepository using MongoDB.
type MongoArtistRepo struct {
	coll *mongo.Collection
}

// NewMongoArtistRepo constructs a new instance of MongoArtistRepo.
func NewMongoArtistRepo() ArtistRepository {
	return &MongoArtistRepo{coll: database.DB().Collection("artists")}
}

func (repo *MongoArtistRepo) Insert(ctx context.Context, artist *models.Artist) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, artist); err != nil {
		return fmt.Errorf("error creating artist: %w", err)
	}
	return nil
}

func (repo *MongoArtistRepo) GetByID(ctx context.Context, id string) (*models.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var artist models.Artist
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&artist); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching artist with id %s: %w", id, err)
	}
	return &artist, nil
}

func (repo *MongoArtistRepo) GetByEmail(ctx context.Context, email string) (*models.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var artist models.Artist
	if err := repo.coll.FindOne(ctx, bson.M{"email": email}).Decode(&artist); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching artist with email %s: %w", email, err)
	}
	return &artist, nil
}

func (repo *MongoArtistRepo) Update(ctx context.Context, artist *models.Artist) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": artist.ID}, bson.M{"$set": artist})
	if err != nil {
		return fmt.Errorf("error updating artist %s: %w", artist.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoArtistRepo) UpdateWorkingHours(ctx context.Context, artistID string, hours []models.WorkingHours) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"working_hours": hours, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": artistID}, update)
	if err != nil {
		return fmt.Errorf("error updating working hours for artist %s: %w", artistID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoArtistRepo) UpdateServices(ctx context.Context, artistID string, services []models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"services": services, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": artistID}, update)
	if err != nil {
		return fmt.Errorf("error updating services for artist %s: %w", artistID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
