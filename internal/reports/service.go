// Package reports implements the report lifecycle: creation, approval, rejection and work transitions.
package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"participium/internal/assignment"
	"participium/internal/auth"
	"participium/internal/database"
	"participium/internal/database/models"
	"participium/internal/domain"
	"participium/internal/photos"
	"participium/internal/routing"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// UserGetter resolves actors.
type UserGetter interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// ApproveResult is the outcome of ApproveReport.
// NoOfficerFound is set when nobody holds the routed role; the report then stays pending.
type ApproveResult struct {
	Report         *domain.Report
	NoOfficerFound bool
}

// Service is the report lifecycle engine.
type Service struct {
	reports  database.ReportRepository
	users    UserGetter
	selector assignment.Selector
	photos   photos.Store

	now   func() time.Time
	newID func() (string, error)
}

// NewService creates the engine. All dependencies are required.
func NewService(reports database.ReportRepository, users UserGetter, selector assignment.Selector, store photos.Store) *Service {
	if reports == nil || users == nil || selector == nil || store == nil {
		log.Fatal("Report repository, user repository, selector and photo store must be provided to NewService")
	}
	return &Service{
		reports:  reports,
		users:    users,
		selector: selector,
		photos:   store,
		now:      time.Now,
		newID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}
}

func (s *Service) actor(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, domain.Unauthorized("Authentication required")
	}
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, domain.Unauthorized("User not found")
		}
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return u, nil
}

func (s *Service) load(ctx context.Context, id string) (*domain.Report, error) {
	r, err := s.reports.GetReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrReportNotFound) {
			return nil, domain.NotFound("Report not found")
		}
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	return r, nil
}

// CreateReport validates draft and stores it as Pending Approval.
// limits is the photo count window of the calling path.
func (s *Service) CreateReport(ctx context.Context, reporterID string, draft domain.Draft, limits domain.PhotoLimits) (*domain.Report, error) {
	reporter, err := s.actor(ctx, reporterID)
	if err != nil {
		return nil, err
	}
	if !auth.Can(reporter.Role, auth.PermCreateReports) {
		return nil, domain.InsufficientRights("Only citizens can create reports")
	}

	if err := domain.ValidateLocation(draft.Location); err != nil {
		return nil, err
	}
	if err := domain.ValidateCategory(draft.Category); err != nil {
		return nil, err
	}
	title, err := domain.ValidateText("Title", draft.Title, domain.MaxTitleLength)
	if err != nil {
		return nil, err
	}
	description, err := domain.ValidateText("Description", draft.Description, domain.MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	images, err := photos.DecodeAll(draft.Photos, limits)
	if err != nil {
		return nil, err
	}

	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		g.Go(func() error {
			url, err := s.photos.Save(gctx, img)
			if err != nil {
				return fmt.Errorf("failed to store photo %d: %w", i+1, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate report id: %w", err)
	}
	now := s.now()
	report := &domain.Report{
		ID:          id,
		ReporterID:  reporter.ID,
		Title:       title,
		Description: description,
		Category:    draft.Category,
		Location:    *draft.Location,
		Address:     strings.TrimSpace(draft.Address),
		Photos:      urls,
		IsAnonymous: draft.IsAnonymous,
		Status:      domain.StatusPendingApproval,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.reports.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	log.Printf("[Reports] Report %s created by %s (%s)", report.ID, reporter.ID, report.Category)
	return report, nil
}

// ApproveReport routes a pending report to its department and assigns it.
func (s *Service) ApproveReport(ctx context.Context, reportID, approverID string, newCategory *domain.Category) (ApproveResult, error) {
	approver, err := s.actor(ctx, approverID)
	if err != nil {
		return ApproveResult{}, err
	}
	if !auth.Can(approver.Role, auth.PermApproveReports) {
		return ApproveResult{}, domain.InsufficientRights("Only Municipal Public Relations Officers can approve reports")
	}
	report, err := s.load(ctx, reportID)
	if err != nil {
		return ApproveResult{}, err
	}
	if report.Status != domain.StatusPendingApproval {
		return ApproveResult{}, cannot("approve", report.Status)
	}

	category := report.Category
	if newCategory != nil {
		if err := domain.ValidateCategory(*newCategory); err != nil {
			return ApproveResult{}, err
		}
		category = *newCategory
	}
	route, err := routing.Lookup(category)
	if err != nil {
		return ApproveResult{}, err
	}

	assignee, found, err := s.selector.Select(ctx, route)
	if err != nil {
		return ApproveResult{}, fmt.Errorf("failed to select assignee for report %s: %w", reportID, err)
	}

	if !found {
		log.Printf("[Reports] No %s in %s for report %s, leaving it pending", route.Role, route.Department, reportID)
		if category == report.Category {
			return ApproveResult{Report: report, NoOfficerFound: true}, nil
		}
		updated, err := s.transition(ctx, report, models.Transition{
			Status:   domain.StatusPendingApproval,
			Category: &category,
		}, "approve")
		if err != nil {
			return ApproveResult{}, err
		}
		return ApproveResult{Report: updated, NoOfficerFound: true}, nil
	}

	updated, err := s.transition(ctx, report, models.Transition{
		Status:     domain.StatusAssigned,
		AssigneeID: &assignee,
		Category:   &category,
	}, "approve")
	if err != nil {
		return ApproveResult{}, err
	}
	log.Printf("[Reports] Report %s approved by %s and assigned to %s", reportID, approver.ID, assignee)
	return ApproveResult{Report: updated}, nil
}

// RejectReport rejects a pending report with a reason.
func (s *Service) RejectReport(ctx context.Context, reportID, reason, approverID string) (*domain.Report, error) {
	approver, err := s.actor(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if !auth.Can(approver.Role, auth.PermRejectReports) {
		return nil, domain.InsufficientRights("Only Municipal Public Relations Officers can reject reports")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.BadRequest(domain.ReasonMissingReason, "Rejection reason is required")
	}
	report, err := s.load(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.StatusPendingApproval {
		return nil, cannot("reject", report.Status)
	}

	updated, err := s.transition(ctx, report, models.Transition{
		Status:          domain.StatusRejected,
		RejectionReason: &reason,
	}, "reject")
	if err != nil {
		return nil, err
	}
	log.Printf("[Reports] Report %s rejected by %s", reportID, approver.ID)
	return updated, nil
}

// GetAllReports lists reports visible to the actor, newest first.
// Pending reports are visible to public relations officers only.
func (s *Service) GetAllReports(ctx context.Context, actorID string, status *domain.Status, category *domain.Category) ([]domain.Report, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	canSeePending := auth.Can(actor.Role, auth.PermViewPendingReports)

	filter := models.ReportFilter{Status: status, Category: category}
	if status != nil && *status == domain.StatusPendingApproval && !canSeePending {
		return nil, domain.InsufficientRights("Only Municipal Public Relations Officers can view pending reports")
	}
	if status == nil && !canSeePending {
		pending := domain.StatusPendingApproval
		filter.ExcludeStatus = &pending
	}
	if category != nil {
		if err := domain.ValidateCategory(*category); err != nil {
			return nil, err
		}
	}

	list, err := s.reports.ListReports(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return list, nil
}

// GetMyAssignedReports lists the reports assigned to the actor, newest first.
func (s *Service) GetMyAssignedReports(ctx context.Context, actorID string, status *domain.Status) ([]domain.Report, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !auth.Can(actor.Role, auth.PermWorkAssignedReports) && !auth.Can(actor.Role, auth.PermWorkExternalReports) {
		return nil, domain.InsufficientRights("Only technical staff members can view assigned reports")
	}
	list, err := s.reports.ListReports(ctx, models.ReportFilter{Status: status, AssigneeID: &actor.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned reports: %w", err)
	}
	return list, nil
}

// GetReport returns one report. Pending reports are visible to officers and their reporter.
func (s *Service) GetReport(ctx context.Context, actorID, reportID string) (*domain.Report, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	report, err := s.load(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status == domain.StatusPendingApproval &&
		!auth.Can(actor.Role, auth.PermViewPendingReports) && report.ReporterID != actor.ID {
		return nil, domain.NotFound("Report not found")
	}
	return report, nil
}

// GetCategories returns the selectable categories in display order.
func (s *Service) GetCategories() []domain.Category {
	return domain.Categories()
}

// UpdateReportStatus is the generic transition entry point.
// Leaving Pending Approval goes through the approve and reject paths.
// Moving to In External Maintenance hands the report to maintainerID, who becomes the assignee.
func (s *Service) UpdateReportStatus(ctx context.Context, reportID, actorID string, newStatus domain.Status, reason, maintainerID string) (*domain.Report, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	report, err := s.load(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(report.Status, newStatus) {
		return nil, illegal(report.Status, newStatus)
	}

	switch {
	case newStatus == domain.StatusRejected:
		return s.RejectReport(ctx, reportID, reason, actorID)
	case report.Status == domain.StatusPendingApproval:
		res, err := s.ApproveReport(ctx, reportID, actorID, nil)
		if err != nil {
			return nil, err
		}
		if res.NoOfficerFound {
			return nil, domain.BadRequest(domain.ReasonNone, "No staff member available for category %s", res.Report.Category)
		}
		return res.Report, nil
	}

	if report.AssigneeID == nil || *report.AssigneeID != actor.ID {
		return nil, domain.InsufficientRights("Only the assigned staff member can update this report")
	}
	if !mayWork(actor.Role, report.Status, newStatus) {
		return nil, domain.InsufficientRights("Your role cannot move a report from %s to %s", report.Status, newStatus)
	}

	assignee := report.AssigneeID
	if newStatus == domain.StatusInExternalMaintenance {
		maintainer, err := s.maintainer(ctx, maintainerID)
		if err != nil {
			return nil, err
		}
		assignee = &maintainer.ID
	}

	updated, err := s.transition(ctx, report, models.Transition{
		Status:     newStatus,
		AssigneeID: assignee,
	}, "")
	if err != nil {
		return nil, err
	}
	log.Printf("[Reports] Report %s moved %s -> %s by %s (assignee %s)", reportID, report.Status, newStatus, actor.ID, *assignee)
	return updated, nil
}

// maintainer resolves the target of a delegation.
func (s *Service) maintainer(ctx context.Context, id string) (*models.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.BadRequest(domain.ReasonInvalidMaintainer, "An external maintainer is required")
	}
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, domain.BadRequest(domain.ReasonInvalidMaintainer, "External maintainer not found")
		}
		return nil, fmt.Errorf("failed to load maintainer %s: %w", id, err)
	}
	if u.Role != auth.RoleExternalMaintainer {
		return nil, domain.BadRequest(domain.ReasonInvalidMaintainer, "User %s is not an external maintainer", id)
	}
	return u, nil
}

// transition writes t conditionally on the status report was loaded with.
// On a lost race it reloads and reports the status that won.
func (s *Service) transition(ctx context.Context, report *domain.Report, t models.Transition, verb string) (*domain.Report, error) {
	t.At = s.now()
	updated, err := s.reports.TransitionReport(ctx, report.ID, report.Status, t)
	if err == nil {
		return updated, nil
	}
	switch {
	case errors.Is(err, database.ErrReportNotFound):
		return nil, domain.NotFound("Report not found")
	case errors.Is(err, database.ErrStatusConflict):
		current, loadErr := s.load(ctx, report.ID)
		if loadErr != nil {
			return nil, loadErr
		}
		if verb != "" {
			return nil, cannot(verb, current.Status)
		}
		return nil, illegal(current.Status, t.Status)
	}
	return nil, fmt.Errorf("failed to update report %s: %w", report.ID, err)
}

func cannot(verb string, status domain.Status) error {
	return domain.BadRequest(domain.ReasonIllegalTransition, "Cannot %s report with status %s", verb, status)
}

func illegal(from, to domain.Status) error {
	return domain.BadRequest(domain.ReasonIllegalTransition, "Cannot change status from %s to %s", from, to)
}
