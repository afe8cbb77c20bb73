package models

import "time"

// ListingType distinguishes the two paid listing surfaces.
type ListingType string

const (
	ListingJob   ListingType = "job"
	ListingSalon ListingType = "salon"
)

// ListingPayment tracks a Stripe checkout for a paid job or salon-sale
// listing tier. StripeSessionID is unique; webhook replays are detected by
// looking the session up before recording payment.
type ListingPayment struct {
	ID              string      `bson:"id" json:"id"`
	ListingID       string      `bson:"listing_id" json:"listingId"`
	ListingType     ListingType `bson:"listing_type" json:"listingType"`
	Tier            string      `bson:"tier" json:"tier"`
	UserID          string      `bson:"user_id" json:"userId"`
	StripeSessionID string      `bson:"stripe_session_id" json:"stripeSessionId"`
	AmountCents     int64       `bson:"amount_cents" json:"amountCents"`
	Currency        string      `bson:"currency" json:"currency"`
	Status          string      `bson:"status" json:"status"` // "pending" | "paid"
	CreatedAt       time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `bson:"updated_at" json:"updatedAt"`
}

// AffiliateConversion records commission owed to an affiliate for a
// successful payment. StripeEventID is unique per webhook event.
type AffiliateConversion struct {
	ID              string    `bson:"id" json:"id"`
	AffiliateID     string    `bson:"affiliate_id" json:"affiliateId"`
	StripeEventID   string    `bson:"stripe_event_id" json:"stripeEventId"`
	AmountCents     int64     `bson:"amount_cents" json:"amountCents"`
	CommissionCents int64     `bson:"commission_cents" json:"commissionCents"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}
