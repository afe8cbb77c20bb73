package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (repo *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary conflict-check query: artist + status + start time.
		{
			Keys:    bson.D{{Key: "artist_id", Value: 1}, {Key: "status", Value: 1}, {Key: "starts_at", Value: 1}},
			Options: options.Index().SetName("artist_status_start_idx"),
		},
		// Availability query by display date.
		{
			Keys:    bson.D{{Key: "artist_id", Value: 1}, {Key: "date_requested", Value: 1}},
			Options: options.Index().SetName("artist_date_idx"),
		},
		// Completion sweep.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "ends_at", Value: 1}},
			Options: options.Index().SetName("status_ends_at_idx"),
		},
	}

	_, err := repo.bookingColl.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
