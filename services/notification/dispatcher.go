package notification

import (
	"context"
	"fmt"

	"emviapp/models"
	"emviapp/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqDispatcher enqueues booking events onto the Redis-backed notification
// queue. Enqueueing happens after the booking mutation committed, so a queue
// failure never leaves a booking in an inconsistent state.
type AsynqDispatcher struct {
	Client *asynq.Client
	Logger *zap.Logger
}

// NewAsynqDispatcher constructs a dispatcher over the given asynq client.
func NewAsynqDispatcher(client *asynq.Client, logger *zap.Logger) *AsynqDispatcher {
	return &AsynqDispatcher{Client: client, Logger: logger}
}

func (d *AsynqDispatcher) DispatchBookingEvent(ctx context.Context, evt models.BookingEvent) error {
	task, err := tasks.NewBookingEventTask(evt)
	if err != nil {
		return fmt.Errorf("failed to build booking event task: %w", err)
	}
	info, err := d.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue booking event: %w", err)
	}
	d.Logger.Debug("booking event enqueued",
		zap.String("taskID", info.ID),
		zap.String("bookingID", evt.BookingID),
		zap.String("eventType", string(evt.EventType)))
	return nil
}
