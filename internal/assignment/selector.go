// Package assignment picks the staff member who receives an approved report.
package assignment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"participium/internal/auth"
	"participium/internal/database/models"
	"participium/internal/domain"
	"participium/internal/routing"
)

// Policy names accepted by New.
const (
	PolicyLeastLoaded = "least_loaded"
	PolicyRoundRobin  = "round_robin"
	PolicyFirst       = "first"
)

// Selector chooses an assignee for a route.
// found is false with a nil error when nobody holds the role in the department.
type Selector interface {
	Select(ctx context.Context, route routing.Route) (userID string, found bool, err error)
}

// StaffLister lists the members of a department holding a role.
type StaffLister interface {
	ListStaff(ctx context.Context, department string, role auth.Role) ([]models.User, error)
}

// LoadCounter counts open reports per assignee.
type LoadCounter interface {
	CountOpenByAssignee(ctx context.Context, assigneeIDs []string) (map[string]int, error)
}

// New returns the selector for policy. An empty policy means least loaded.
func New(policy string, staff StaffLister, load LoadCounter) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "", PolicyLeastLoaded:
		return &LeastLoaded{staff: staff, load: load}, nil
	case PolicyRoundRobin:
		return NewRoundRobin(staff), nil
	case PolicyFirst:
		return &First{staff: staff}, nil
	}
	return nil, fmt.Errorf("unknown assignment policy %q", policy)
}

func candidates(ctx context.Context, staff StaffLister, route routing.Route) ([]string, error) {
	if route.Department == "" || route.Role == "" {
		return nil, domain.BadRequest(domain.ReasonNone, "Department and role are required for assignment")
	}
	users, err := staff.ListStaff(ctx, route.Department, route.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff for %s: %w", route.Department, err)
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

// First always picks the lowest user id.
type First struct {
	staff StaffLister
}

// NewFirst creates a selector that always picks the lowest user id.
func NewFirst(staff StaffLister) *First {
	return &First{staff: staff}
}

// Select returns the lowest user id among the staff matching route.
// The boolean is false when no one matches.
func (f *First) Select(ctx context.Context, route routing.Route) (string, bool, error) {
	ids, err := candidates(ctx, f.staff, route)
	if err != nil || len(ids) == 0 {
		return "", false, err
	}
	return ids[0], true, nil
}

// LeastLoaded picks the candidate with the fewest open reports, ties by user id.
type LeastLoaded struct {
	staff StaffLister
	load  LoadCounter
}

// NewLeastLoaded creates a selector that weighs candidates by their open report count.
func NewLeastLoaded(staff StaffLister, load LoadCounter) *LeastLoaded {
	return &LeastLoaded{staff: staff, load: load}
}

// Select returns the candidate with the fewest open reports.
// The boolean is false when no one matches route.
func (l *LeastLoaded) Select(ctx context.Context, route routing.Route) (string, bool, error) {
	ids, err := candidates(ctx, l.staff, route)
	if err != nil || len(ids) == 0 {
		return "", false, err
	}
	counts, err := l.load.CountOpenByAssignee(ctx, ids)
	if err != nil {
		return "", false, fmt.Errorf("failed to count open reports: %w", err)
	}
	best := ids[0]
	for _, id := range ids[1:] {
		if counts[id] < counts[best] {
			best = id
		}
	}
	return best, true, nil
}

// RoundRobin rotates through candidates per route. The cursor lives in process memory.
type RoundRobin struct {
	staff StaffLister

	mu      sync.Mutex
	cursors map[string]int
}

// NewRoundRobin creates a selector with an empty cursor for every route.
func NewRoundRobin(staff StaffLister) *RoundRobin {
	return &RoundRobin{staff: staff, cursors: make(map[string]int)}
}

// Select returns the next candidate for route and advances its cursor.
// The boolean is false when no one matches route.
func (r *RoundRobin) Select(ctx context.Context, route routing.Route) (string, bool, error) {
	ids, err := candidates(ctx, r.staff, route)
	if err != nil || len(ids) == 0 {
		return "", false, err
	}
	key := route.Department + "|" + string(route.Role)

	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.cursors[key] % len(ids)
	r.cursors[key] = i + 1
	return ids[i], true, nil
}
