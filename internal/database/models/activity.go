package models

import "time"

// UserAction is one logged bot interaction.
type UserAction struct {
	UserID  int64          `bson:"user_id"`
	Action  string         `bson:"action"`
	Details map[string]any `bson:"details,omitempty"`
	Time    time.Time      `bson:"time"`
}
