package reports

import (
	"time"

	"participium/internal/domain"
)

// LocationDTO is the wire form of a location.
type LocationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReportDTO is the wire form of a report.
type ReportDTO struct {
	ID              string      `json:"id"`
	ReporterID      *string     `json:"reporterId"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Category        string      `json:"category"`
	Location        LocationDTO `json:"location"`
	Address         string      `json:"address,omitempty"`
	Photos          []string    `json:"photos"`
	IsAnonymous     bool        `json:"isAnonymous"`
	Status          string      `json:"status"`
	AssigneeID      *string     `json:"assigneeId"`
	RejectionReason *string     `json:"rejectionReason"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// ToDTO converts r for output. The reporter is hidden on anonymous reports.
func ToDTO(r *domain.Report) ReportDTO {
	var reporter *string
	if !r.IsAnonymous {
		id := r.ReporterID
		reporter = &id
	}
	photos := r.Photos
	if photos == nil {
		photos = []string{}
	}
	return ReportDTO{
		ID:              r.ID,
		ReporterID:      reporter,
		Title:           r.Title,
		Description:     r.Description,
		Category:        string(r.Category),
		Location:        LocationDTO{Latitude: r.Location.Latitude, Longitude: r.Location.Longitude},
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

// ToDTOs converts a list.
func ToDTOs(list []domain.Report) []ReportDTO {
	out := make([]ReportDTO, 0, len(list))
	for i := range list {
		out = append(out, ToDTO(&list[i]))
	}
	return out
}
