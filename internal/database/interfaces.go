package database

import (
	"context"
	"strings"
	"time"

	"participium/internal/auth"
	"participium/internal/database/models"
	"participium/internal/domain"
)

// ReportRepository stores reports.
type ReportRepository interface {
	// CreateReport inserts a new report.
	CreateReport(ctx context.Context, report *domain.Report) error
	// GetReportByID returns ErrReportNotFound when no report has the id.
	GetReportByID(ctx context.Context, id string) (*domain.Report, error)
	// ListReports returns matching reports, newest first, ties broken by id descending.
	ListReports(ctx context.Context, filter models.ReportFilter) ([]domain.Report, error)
	// TransitionReport applies t only if the stored status still equals from.
	// It returns ErrStatusConflict when the status changed and ErrReportNotFound when the report is gone.
	TransitionReport(ctx context.Context, id string, from domain.Status, t models.Transition) (*domain.Report, error)
	// CountOpenByAssignee counts reports not yet resolved per assignee id.
	CountOpenByAssignee(ctx context.Context, assigneeIDs []string) (map[string]int, error)
}

// UserRepository provides the account lookups used by the engine, the selector and the bot.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByID returns ErrUserNotFound when the account does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// GetUserByTelegramUsername matches case-insensitively and without a leading '@'.
	GetUserByTelegramUsername(ctx context.Context, username string) (*models.User, error)
	// ListStaff returns users holding role in department, ordered by id.
	ListStaff(ctx context.Context, department string, role auth.Role) ([]models.User, error)
	// SetTelegramUsername binds username to userID and unbinds it from any other account.
	SetTelegramUsername(ctx context.Context, userID, username string) error
}

// LinkCodeRepository stores Telegram link codes.
type LinkCodeRepository interface {
	// SaveLinkCode replaces any unused code of the same user.
	SaveLinkCode(ctx context.Context, code models.LinkCode) error
	// RedeemLinkCode marks an unused, unexpired code as used and returns its owner.
	// It returns ErrLinkCodeInvalid otherwise.
	RedeemLinkCode(ctx context.Context, code string, now time.Time) (string, error)
}

// UserActionLogger defines the interface for logging user actions.
type UserActionLogger interface {
	// LogUserAction logs an action performed by a Telegram user.
	LogUserAction(ctx context.Context, userID int64, action string, details map[string]any) error
}

// TelegramUserTracker records Telegram accounts talking to the bot.
type TelegramUserTracker interface {
	// UpdateTelegramUser updates or creates the activity record of a Telegram account.
	UpdateTelegramUser(ctx context.Context, userID int64, username, firstName, lastName, action string) error
}

// NormalizeTelegramUsername lower-cases username and strips a leading '@'.
func NormalizeTelegramUsername(username string) string {
	u := strings.TrimSpace(username)
	u = strings.TrimPrefix(u, "@")
	return strings.ToLower(u)
}
