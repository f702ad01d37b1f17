// Package sessions keeps the per-chat state of the report wizard.
package sessions

import (
	"time"

	"participium/internal/domain"
)

// Step is the wizard state of a chat.
type Step string

const (
	StepWaitingLocation     Step = "WAITING_LOCATION"
	StepWaitingTitle        Step = "WAITING_TITLE"
	StepWaitingDescription  Step = "WAITING_DESCRIPTION"
	StepWaitingCategory     Step = "WAITING_CATEGORY"
	StepWaitingPhotos       Step = "WAITING_PHOTOS"
	StepWaitingAnonymous    Step = "WAITING_ANONYMOUS"
	StepWaitingConfirmation Step = "WAITING_CONFIRMATION"
)

// Draft is the report being collected.
type Draft struct {
	Location    *domain.Location
	Address     string
	Title       string
	Description string
	Category    domain.Category
	Photos      [][]byte
	IsAnonymous bool
}

// ToDomain converts the collected fields for the lifecycle engine.
func (d Draft) ToDomain() domain.Draft {
	return domain.Draft{
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Location:    d.Location,
		Address:     d.Address,
		Photos:      d.Photos,
		IsAnonymous: d.IsAnonymous,
	}
}

// Session is one chat's wizard progress.
type Session struct {
	ChatID    int64
	Step      Step
	UserID    string
	Username  string
	Draft     Draft
	UpdatedAt time.Time
}

// New starts a session at the location step.
func New(chatID int64, userID, username string) *Session {
	return &Session{
		ChatID:    chatID,
		Step:      StepWaitingLocation,
		UserID:    userID,
		Username:  username,
		UpdatedAt: time.Now(),
	}
}

// Restart clears the draft and goes back to the location step.
func (s *Session) Restart() {
	s.Draft = Draft{}
	s.Step = StepWaitingLocation
}
