package models

import (
	"time"

	"participium/internal/auth"
)

// User is a registered platform account.
type User struct {
	ID               string    `bson:"_id"`
	Username         string    `bson:"username"`
	FirstName        string    `bson:"first_name,omitempty"`
	LastName         string    `bson:"last_name,omitempty"`
	Email            string    `bson:"email,omitempty"`
	Role             auth.Role `bson:"role"`
	Department       string    `bson:"department,omitempty"`
	TelegramUsername *string   `bson:"telegram_username,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
}

// TelegramUser tracks activity of a Telegram account talking to the bot.
type TelegramUser struct {
	UserID       int64     `bson:"user_id"`
	Username     string    `bson:"username,omitempty"`
	FirstName    string    `bson:"first_name,omitempty"`
	LastName     string    `bson:"last_name,omitempty"`
	FirstSeen    time.Time `bson:"first_seen"`
	LastSeen     time.Time `bson:"last_seen"`
	ActionsCount int       `bson:"actions_count"`
	LastAction   string    `bson:"last_action"`
}
