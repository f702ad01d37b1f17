package domain

import "time"

// Status is the lifecycle state of a report. The string values are the wire values.
type Status string

const (
	StatusPendingApproval       Status = "Pending Approval"
	StatusAssigned              Status = "Assigned"
	StatusInProgress            Status = "In Progress"
	StatusSuspended             Status = "Suspended"
	StatusRejected              Status = "Rejected"
	StatusResolved              Status = "Resolved"
	StatusInExternalMaintenance Status = "In External Maintenance"
)

var allStatuses = []Status{
	StatusPendingApproval,
	StatusAssigned,
	StatusInProgress,
	StatusSuspended,
	StatusRejected,
	StatusResolved,
	StatusInExternalMaintenance,
}

// Statuses returns every known status in lifecycle order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus returns the status matching the wire value s.
func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", BadRequest(ReasonInvalidStatus, "Invalid status")
}

// RequiresAssignee reports whether a report in this status must carry an assignee.
func (s Status) RequiresAssignee() bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusSuspended, StatusResolved, StatusInExternalMaintenance:
		return true
	}
	return false
}

// Category is the kind of issue a report describes. Values are display names.
type Category string

const (
	CategoryWaterSupply    Category = "Water Supply - Drinking Water"
	CategoryArchitectural  Category = "Architectural Barriers"
	CategorySewerSystem    Category = "Sewer System"
	CategoryPublicLighting Category = "Public Lighting"
	CategoryWaste          Category = "Waste"
	CategoryTrafficSignals Category = "Road Signs and Traffic Lights"
	CategoryRoads          Category = "Roads and Urban Furnishings"
	CategoryGreenAreas     Category = "Public Green Areas and Playgrounds"
	CategoryOther          Category = "Other"
)

// The order is part of the bot protocol: cat_<i> indexes into it.
var allCategories = []Category{
	CategoryWaterSupply,
	CategoryArchitectural,
	CategorySewerSystem,
	CategoryPublicLighting,
	CategoryWaste,
	CategoryTrafficSignals,
	CategoryRoads,
	CategoryGreenAreas,
	CategoryOther,
}

// Categories returns the fixed, ordered category list.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// CategoryAt returns the category at index i of Categories.
func CategoryAt(i int) (Category, bool) {
	if i < 0 || i >= len(allCategories) {
		return "", false
	}
	return allCategories[i], true
}

// Location is a WGS84 point.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Report is a citizen-submitted issue.
// ReporterID is always stored; read paths hide it when IsAnonymous is set.
type Report struct {
	ID              string
	ReporterID      string
	Title           string
	Description     string
	Category        Category
	Location        Location
	Address         string
	Photos          []string
	IsAnonymous     bool
	Status          Status
	AssigneeID      *string
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Draft carries the user-supplied fields of a report that is about to be created.
type Draft struct {
	Title       string
	Description string
	Category    Category
	Location    *Location
	Address     string
	Photos      [][]byte
	IsAnonymous bool
}

// PhotoLimits is the accepted photo count window for a creation path.
type PhotoLimits struct {
	Min int
	Max int
}

var (
	// BotPhotoLimits applies to reports submitted through the Telegram wizard.
	BotPhotoLimits = PhotoLimits{Min: 1, Max: 3}
	// WebPhotoLimits applies to reports submitted through the HTTP API.
	WebPhotoLimits = PhotoLimits{Min: 0, Max: 3}
)
