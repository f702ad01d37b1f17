package models

import (
	"time"

	"participium/internal/domain"
)

// Report is the stored form of a report.
type Report struct {
	ID              string    `bson:"_id"`
	ReporterID      string    `bson:"reporter_id"`
	Title           string    `bson:"title"`
	Description     string    `bson:"description"`
	Category        string    `bson:"category"`
	Latitude        float64   `bson:"latitude"`
	Longitude       float64   `bson:"longitude"`
	Address         string    `bson:"address,omitempty"`
	Photos          []string  `bson:"photos"`
	IsAnonymous     bool      `bson:"is_anonymous"`
	Status          string    `bson:"status"`
	AssigneeID      *string   `bson:"assignee_id"`
	RejectionReason *string   `bson:"rejection_reason"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

// ReportFromDomain converts a domain report for storage.
func ReportFromDomain(r *domain.Report) *Report {
	photos := r.Photos
	if photos == nil {
		photos = []string{}
	}
	return &Report{
		ID:              r.ID,
		ReporterID:      r.ReporterID,
		Title:           r.Title,
		Description:     r.Description,
		Category:        string(r.Category),
		Latitude:        r.Location.Latitude,
		Longitude:       r.Location.Longitude,
		Address:         r.Address,
		Photos:          photos,
		IsAnonymous:     r.IsAnonymous,
		Status:          string(r.Status),
		AssigneeID:      r.AssigneeID,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ToDomain converts the stored report back to the domain type.
func (r *Report) ToDomain() *domain.Report {
	return &domain.Report{
		ID:              r.ID,
		ReporterID:      r.ReporterID,
		Title:           r.Title,
		Description:     r.Description,
		Category:        domain.Category(r.Category),
		Location:        domain.Location{Latitude: r.Latitude, Longitude: r.Longitude},
		Address:         r.Address,
		Photos:          r.Photos,
		IsAnonymous:     r.IsAnonymous,
		Status:          domain.Status(r.Status),
		AssigneeID:      r.AssigneeID,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// Transition describes a conditional status write.
// AssigneeID and RejectionReason are always written, nil clears them.
// Category is written only when non-nil.
type Transition struct {
	Status          domain.Status
	AssigneeID      *string
	RejectionReason *string
	Category        *domain.Category
	At              time.Time
}

// ReportFilter narrows ListReports. Zero values mean "no constraint".
type ReportFilter struct {
	Status        *domain.Status
	ExcludeStatus *domain.Status
	Category      *domain.Category
	AssigneeID    *string
}
