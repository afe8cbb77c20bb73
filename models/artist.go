package models

import "time"

// Service is an offering on an artist's menu (e.g. gel manicure).
type Service struct {
	ID              string  `bson:"id" json:"id"`
	Name            string  `bson:"name" json:"name"`
	Price           float64 `bson:"price" json:"price"`
	DurationMinutes int     `bson:"duration_minutes" json:"durationMinutes"`
	Description     string  `bson:"description,omitempty" json:"description,omitempty"`
}

// WorkingHours defines a recurring bookable window for one weekday.
// Start and End are minutes from midnight (e.g., 540 for 9:00 AM).
type WorkingHours struct {
	Weekday     time.Weekday `bson:"weekday" json:"weekday"`
	Start       int          `bson:"start" json:"start"`
	End         int          `bson:"end" json:"end"`
	SlotMinutes int          `bson:"slot_minutes" json:"slotMinutes"` // granularity of bookable slots
}

// Artist represents a beauty professional (nail tech, stylist) whose
// calendar can be booked.
type Artist struct {
	ID           string         `bson:"id" json:"id"`
	FullName     string         `bson:"full_name" json:"fullName"`
	Email        string         `bson:"email" json:"email"`
	PasswordHash string         `bson:"password_hash" json:"-"`
	Phone        string         `bson:"phone,omitempty" json:"phone,omitempty"`
	Specialty    string         `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Services     []Service      `bson:"services,omitempty" json:"services,omitempty"`
	WorkingHours []WorkingHours `bson:"working_hours,omitempty" json:"workingHours,omitempty"`

	AcceptsBookings bool `bson:"accepts_bookings" json:"acceptsBookings"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// AvailableSlot is one bookable window offered to clients.
type AvailableSlot struct {
	Date     string    `json:"date"`  // "2006-01-02"
	Start    int       `json:"start"` // minutes from midnight
	End      int       `json:"end"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Label    string    `json:"label"` // e.g., "9:00 AM - 9:45 AM"
}
