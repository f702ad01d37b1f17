package database

import (
	"errors"

	"participium/internal/domain"
)

var (
	// ErrReportNotFound is returned when a report is not found.
	ErrReportNotFound = errors.New("report not found")
	// ErrStatusConflict is returned when a conditional status write loses to a concurrent change.
	ErrStatusConflict = errors.New("report status changed concurrently")
	// ErrUserNotFound is returned when an account is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrLinkCodeInvalid covers unknown, expired and already used link codes alike.
	ErrLinkCodeInvalid = errors.New("link code invalid")
	// ErrDuplicateLinkCode is returned when another unused code has the same digits.
	ErrDuplicateLinkCode = errors.New("link code already pending")
)

// OpenStatuses are the statuses that count towards an assignee's workload.
var OpenStatuses = []domain.Status{
	domain.StatusAssigned,
	domain.StatusInProgress,
	domain.StatusSuspended,
	domain.StatusInExternalMaintenance,
}
