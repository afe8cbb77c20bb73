package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"emviapp/database"
	"emviapp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	return &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
	}
}

func activeStatusFilter() bson.M {
	return bson.M{"$in": models.ActiveBookingStatuses}
}

// GetByID retrieves a booking document by ID.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	filter := bson.M{"id": id}
	if err := repo.bookingColl.FindOne(ctx, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// Update replaces the mutable fields of an existing booking document.
func (repo *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": booking.ID}
	update := bson.M{"$set": booking}
	res, err := repo.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveStartingWithin counts active bookings whose StartsAt falls in
// [start, end). Start-point containment only: a booking that starts before
// the window but runs into it is not counted.
func (repo *MongoBookingRepo) CountActiveStartingWithin(ctx context.Context, artistID string, start, end time.Time, excludeID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := occupancyFilter(artistID, start, end, excludeID)
	count, err := repo.bookingColl.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting overlapping bookings: %w", err)
	}
	return count, nil
}

func occupancyFilter(artistID string, start, end time.Time, excludeID string) bson.M {
	filter := bson.M{
		"artist_id": artistID,
		"status":    activeStatusFilter(),
		"starts_at": bson.M{"$gte": start, "$lt": end},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return filter
}

// ListActiveByArtistAndDate returns the artist's active bookings on a date.
func (repo *MongoBookingRepo) ListActiveByArtistAndDate(ctx context.Context, artistID, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"artist_id":      artistID,
		"status":         activeStatusFilter(),
		"date_requested": date,
	}
	cursor, err := repo.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings for artist %s on %s: %w", artistID, date, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}

// ListDueForCompletion returns confirmed or rescheduled bookings whose end
// time has passed.
func (repo *MongoBookingRepo) ListDueForCompletion(ctx context.Context, before time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":  bson.M{"$in": []models.BookingStatus{models.BookingConfirmed, models.BookingRescheduled}},
		"ends_at": bson.M{"$lt": before},
	}
	cursor, err := repo.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings due for completion: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}
