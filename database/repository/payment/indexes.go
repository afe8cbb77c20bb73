package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes that back webhook idempotency.
func (repo *MongoPaymentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	paymentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "stripe_session_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "listing_id", Value: 1}}},
	}
	if _, err := repo.paymentColl.Indexes().CreateMany(ctx, paymentIndexes); err != nil {
		return fmt.Errorf("failed to create listing payment indexes: %w", err)
	}

	conversionIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "stripe_event_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := repo.conversionColl.Indexes().CreateMany(ctx, conversionIndexes); err != nil {
		return fmt.Errorf("failed to create affiliate conversion indexes: %w", err)
	}
	return nil
}
