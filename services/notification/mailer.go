package notification

import (
	"context"
	"fmt"

	artistRepo "emviapp/database/repository/artist"
	bookingRepo "emviapp/database/repository/booking"
	userRepo "emviapp/database/repository/user"
	"emviapp/models"

	"go.uber.org/zap"
)

// Mailer consumes booking events off the queue, renders the templated email
// for each recipient role, and hands it to the email provider. Send failures
// surface as task errors so the queue retries; they never touch the booking
// record itself.
type Mailer struct {
	Bookings bookingRepo.BookingRepository
	Artists  artistRepo.ArtistRepository
	Users    userRepo.UserRepository
	Sender   EmailSender
	Links    ManageLinker

	ManageLinkBaseURL string
	Logger            *zap.Logger
}

// HandleBookingEvent delivers one booking event to all its recipients.
func (m *Mailer) HandleBookingEvent(ctx context.Context, evt models.BookingEvent) error {
	booking, err := m.Bookings.GetByID(ctx, evt.BookingID)
	if err != nil {
		return fmt.Errorf("mailer: failed to load booking %s: %w", evt.BookingID, err)
	}

	artist, err := m.Artists.GetByID(ctx, booking.ArtistID)
	if err != nil {
		return fmt.Errorf("mailer: failed to load artist %s: %w", booking.ArtistID, err)
	}

	data := EmailData{
		ArtistName:  artist.FullName,
		ServiceName: serviceName(artist, booking.ServiceID),
		DateTime:    fmt.Sprintf("%s at %s", booking.StartsAt.Format("January 2"), booking.TimeRequested),
		Note:        booking.Note,
	}

	var customer *models.User
	if booking.CustomerID != "" {
		customer, err = m.Users.GetByID(ctx, booking.CustomerID)
		if err != nil {
			m.Logger.Warn("mailer: failed to load customer, skipping customer email",
				zap.String("customerID", booking.CustomerID), zap.Error(err))
		} else {
			data.CustomerName = customer.FullName
		}
	}

	var firstErr error
	for _, role := range evt.RecipientRoles {
		var to string
		d := data
		switch role {
		case models.RecipientArtist:
			to = artist.Email
			d.RecipientName = artist.FullName
		case models.RecipientCustomer:
			if customer == nil {
				continue
			}
			to = customer.Email
			d.RecipientName = customer.FullName
			if m.Links != nil && !booking.Status.Terminal() {
				link, linkErr := m.Links.ManageLink(m.ManageLinkBaseURL, booking.ID)
				if linkErr != nil {
					m.Logger.Warn("mailer: failed to build manage link", zap.Error(linkErr))
				} else {
					d.ManageLink = link
				}
			}
		default:
			m.Logger.Warn("mailer: unknown recipient role", zap.String("role", string(role)))
			continue
		}

		subject, html, err := RenderBookingEmail(evt.EventType, role, d)
		if err != nil {
			m.Logger.Error("mailer: render failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if err := m.Sender.Send(ctx, models.EmailMessage{To: to, Subject: subject, HTML: html}); err != nil {
			m.Logger.Error("mailer: send failed",
				zap.String("to", to),
				zap.String("bookingID", booking.ID),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func serviceName(artist *models.Artist, serviceID string) string {
	for _, svc := range artist.Services {
		if svc.ID == serviceID {
			return svc.Name
		}
	}
	return "Appointment"
}
