package domain

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Boundary is a closed polygon of (latitude, longitude) vertices.
type Boundary []Location

// TurinBoundary approximates the municipal limits of Turin.
var TurinBoundary = Boundary{
	{Latitude: 45.1405, Longitude: 7.5778},
	{Latitude: 45.1405, Longitude: 7.7130},
	{Latitude: 45.1080, Longitude: 7.7460},
	{Latitude: 45.0600, Longitude: 7.7735},
	{Latitude: 45.0070, Longitude: 7.7300},
	{Latitude: 45.0070, Longitude: 7.6000},
	{Latitude: 45.0400, Longitude: 7.5778},
}

// Contains reports whether p lies inside the polygon (ray casting).
func (b Boundary) Contains(p Location) bool {
	if len(b) < 3 {
		return false
	}
	inside := false
	j := len(b) - 1
	for i := range b {
		yi, xi := b[i].Latitude, b[i].Longitude
		yj, xj := b[j].Latitude, b[j].Longitude
		if (yi > p.Latitude) != (yj > p.Latitude) &&
			p.Longitude < (xj-xi)*(p.Latitude-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// ValidateLocation checks coordinate ranges and membership in TurinBoundary.
func ValidateLocation(p *Location) error {
	return ValidateLocationWithin(p, TurinBoundary)
}

// ValidateLocationWithin is ValidateLocation against an explicit boundary.
func ValidateLocationWithin(p *Location, b Boundary) error {
	if p == nil {
		return BadRequest(ReasonInvalidLocation, "Location is required")
	}
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) ||
		p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return BadRequest(ReasonInvalidCoordinates,
			"Invalid coordinates: latitude must be between -90 and 90, longitude between -180 and 180")
	}
	if !b.Contains(*p) {
		return BadRequest(ReasonOutOfBounds, "Location is outside Turin city boundaries")
	}
	return nil
}

// ValidateCategory checks that c is one of Categories.
func ValidateCategory(c Category) error {
	for _, known := range allCategories {
		if c == known {
			return nil
		}
	}
	return BadRequest(ReasonInvalidCategory, "Invalid category")
}

// ValidateText trims v and checks it is non-empty and at most max runes.
func ValidateText(field, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", BadRequest(ReasonInvalidText, "%s is required", field)
	}
	if utf8.RuneCountInString(v) > max {
		return "", BadRequest(ReasonInvalidText, "%s must be at most %d characters", field, max)
	}
	return v, nil
}

// ValidatePhotoCount checks n against the limits of a creation path.
func ValidatePhotoCount(n int, limits PhotoLimits) error {
	if n < limits.Min || n > limits.Max {
		return BadRequest(ReasonPhotoCount, "Photos must contain between %d and %d images", limits.Min, limits.Max)
	}
	return nil
}
