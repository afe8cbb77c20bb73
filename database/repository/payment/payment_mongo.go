package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"emviapp/database"
	"emviapp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	paymentColl    *mongo.Collection
	conversionColl *mongo.Collection
}

// NewMongoPaymentRepo constructs a new instance of MongoPaymentRepo.
func NewMongoPaymentRepo() PaymentRepository {
	db := database.DB()
	return &MongoPaymentRepo{
		paymentColl:    db.Collection("listing_payments"),
		conversionColl: db.Collection("affiliate_conversions"),
	}
}

func (repo *MongoPaymentRepo) InsertListingPayment(ctx context.Context, p *models.ListingPayment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.paymentColl.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("error creating listing payment: %w", err)
	}
	return nil
}

func (repo *MongoPaymentRepo) FindListingPaymentBySessionID(ctx context.Context, sessionID string) (*models.ListingPayment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.ListingPayment
	if err := repo.paymentColl.FindOne(ctx, bson.M{"stripe_session_id": sessionID}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching listing payment for session %s: %w", sessionID, err)
	}
	return &p, nil
}

func (repo *MongoPaymentRepo) MarkListingPaymentPaid(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": "paid", "updated_at": time.Now()}}
	res, err := repo.paymentColl.UpdateOne(ctx, bson.M{"stripe_session_id": sessionID}, update)
	if err != nil {
		return fmt.Errorf("error marking listing payment paid for session %s: %w", sessionID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoPaymentRepo) InsertAffiliateConversion(ctx context.Context, c *models.AffiliateConversion) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.conversionColl.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("error creating affiliate conversion: %w", err)
	}
	return nil
}

func (repo *MongoPaymentRepo) FindConversionByEventID(ctx context.Context, eventID string) (*models.AffiliateConversion, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.AffiliateConversion
	if err := repo.conversionColl.FindOne(ctx, bson.M{"stripe_event_id": eventID}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching conversion for event %s: %w", eventID, err)
	}
	return &c, nil
}
