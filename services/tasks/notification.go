package tasks

import (
	"encoding/json"

	"emviapp/models"

	"github.com/hibiken/asynq"
)

const TypeBookingEvent = "booking:event"

// NewBookingEventTask wraps a booking event record for the notification
// worker queue.
func NewBookingEventTask(evt models.BookingEvent) (*asynq.Task, error) {
	b, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingEvent, b), nil
}
