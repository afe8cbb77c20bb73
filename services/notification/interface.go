package notification

import (
	"context"

	"emviapp/models"
)

// Dispatcher hands committed booking state transitions off for asynchronous
// delivery. The booking core calls it exactly once per successful
// transition, after the write is durable.
type Dispatcher interface {
	DispatchBookingEvent(ctx context.Context, evt models.BookingEvent) error
}

// EmailSender delivers a rendered transactional email.
type EmailSender interface {
	Send(ctx context.Context, msg models.EmailMessage) error
}

// ManageLinker mints customer self-service links for a booking. Implemented
// by the booking package's management-token signer; declared here so the
// mail worker does not depend on the booking service.
type ManageLinker interface {
	ManageLink(baseURL, bookingID string) (string, error)
}
