package models

import "time"

// LinkCode is a one-time code binding a Telegram username to a platform account.
type LinkCode struct {
	Code      string     `bson:"code"`
	UserID    string     `bson:"user_id"`
	ExpiresAt time.Time  `bson:"expires_at"`
	UsedAt    *time.Time `bson:"used_at,omitempty"`
	// Pending holds until the code is redeemed; the unique code index covers pending codes only.
	Pending   bool       `bson:"pending"`
	CreatedAt time.Time  `bson:"created_at"`
}
