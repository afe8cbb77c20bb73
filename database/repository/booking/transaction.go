package bookingRepo

import (
	"context"
	"fmt"

	"emviapp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// InsertIfSlotFree performs the conflict check and the insert inside a single
// MongoDB transaction so that two concurrent writes for the same artist and
// window cannot both pass the check.
func (repo *MongoBookingRepo) InsertIfSlotFree(ctx context.Context, booking *models.Booking) error {
	return repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		filter := occupancyFilter(booking.ArtistID, booking.StartsAt, booking.EndsAt, "")
		count, err := repo.bookingColl.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("conflict check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}
		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	})
}

// UpdateScheduleIfSlotFree performs the conflict check (excluding the booking
// itself) and the schedule update inside a single transaction.
func (repo *MongoBookingRepo) UpdateScheduleIfSlotFree(ctx context.Context, booking *models.Booking) error {
	return repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		filter := occupancyFilter(booking.ArtistID, booking.StartsAt, booking.EndsAt, booking.ID)
		count, err := repo.bookingColl.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("conflict check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}

		res, err := repo.bookingColl.UpdateOne(sc,
			bson.M{"id": booking.ID},
			bson.M{"$set": booking},
		)
		if err != nil {
			return fmt.Errorf("update booking failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (repo *MongoBookingRepo) withTransaction(ctx context.Context, txnFn func(mongo.SessionContext) error) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}
