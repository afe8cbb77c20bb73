package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"emviapp/models"
)

// EmailData carries everything a booking email template needs.
type EmailData struct {
	RecipientName string
	CustomerName  string
	ArtistName    string
	ServiceName   string
	DateTime      string // e.g., "June 1 at 2:00 PM"
	Note          string
	ManageLink    string // customer emails only
}

var bookingEmailTmpl = template.Must(template.New("bookingEmail").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>{{.Headline}}</h2>
  <p>Hi {{.Data.RecipientName}},</p>
  <p>{{.Body}}</p>
  <table cellpadding="4">
    <tr><td><strong>Service</strong></td><td>{{.Data.ServiceName}}</td></tr>
    <tr><td><strong>With</strong></td><td>{{.Data.ArtistName}}</td></tr>
    <tr><td><strong>When</strong></td><td>{{.Data.DateTime}}</td></tr>
    {{if .Data.Note}}<tr><td><strong>Note</strong></td><td>{{.Data.Note}}</td></tr>{{end}}
  </table>
  {{if .Data.ManageLink}}<p><a href="{{.Data.ManageLink}}">Manage your appointment</a></p>{{end}}
  <p>— The EmviApp Team</p>
</body>
</html>`))

type renderedCopy struct {
	Headline string
	Body     string
	Data     EmailData
}

// RenderBookingEmail produces the subject and HTML body for one recipient of
// a booking event.
func RenderBookingEmail(eventType models.BookingEventType, role models.RecipientRole, data EmailData) (subject, html string, err error) {
	var headline, body string

	switch eventType {
	case models.BookingEventCreated:
		if role == models.RecipientArtist {
			headline = "New booking request"
			body = fmt.Sprintf("%s requested an appointment with you.", orClient(data.CustomerName))
		} else {
			headline = "Booking request received"
			body = fmt.Sprintf("Your appointment request with %s is in. We'll let you know once it's confirmed.", data.ArtistName)
		}
		subject = "Your EmviApp booking request"
	case models.BookingEventConfirmed:
		headline = "Booking confirmed"
		body = "The appointment is confirmed. See you there!"
		subject = "Your EmviApp booking is confirmed"
	case models.BookingEventRescheduled:
		headline = "Booking rescheduled"
		body = "The appointment has been moved to a new time."
		subject = "Your EmviApp booking was rescheduled"
	case models.BookingEventCancelled:
		headline = "Booking cancelled"
		body = "The appointment has been cancelled."
		subject = "Your EmviApp booking was cancelled"
	case models.BookingEventCompleted:
		headline = "Thanks for visiting"
		body = "The appointment is complete. We hope you loved it!"
		subject = "Thanks from EmviApp"
	default:
		return "", "", fmt.Errorf("unknown booking event type: %s", eventType)
	}

	if role == models.RecipientArtist {
		subject = "EmviApp: " + headline
	}

	var buf bytes.Buffer
	if err := bookingEmailTmpl.Execute(&buf, renderedCopy{Headline: headline, Body: body, Data: data}); err != nil {
		return "", "", fmt.Errorf("failed to render booking email: %w", err)
	}
	return subject, buf.String(), nil
}

func orClient(name string) string {
	if name == "" {
		return "A client"
	}
	return name
}
