package models

import "time"

// User represents a client account booking services through the marketplace.
type User struct {
	ID           string    `bson:"id" json:"id"`
	FullName     string    `bson:"full_name" json:"fullName"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
