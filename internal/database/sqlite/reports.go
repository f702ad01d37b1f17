package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"participium/internal/database"
	"participium/internal/database/models"
	"participium/internal/domain"
)

const reportColumns = `id, reporter_id, title, description, category, latitude, longitude, address,
	photos, is_anonymous, status, assignee_id, rejection_reason, created_at, updated_at`

func (s *Store) CreateReport(ctx context.Context, r *domain.Report) error {
	photos := r.Photos
	if photos == nil {
		photos = []string{}
	}
	photosJSON, err := json.Marshal(photos)
	if err != nil {
		return fmt.Errorf("encode photos: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (`+reportColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ReporterID, r.Title, r.Description, string(r.Category),
		r.Location.Latitude, r.Location.Longitude, r.Address,
		string(photosJSON), boolToInt(r.IsAnonymous), string(r.Status),
		nullString(r.AssigneeID), nullString(r.RejectionReason),
		formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *Store) GetReportByID(ctx context.Context, id string) (*domain.Report, error) {
	r, err := scanReport(s.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrReportNotFound
	}
	return r, err
}

func (s *Store) ListReports(ctx context.Context, filter models.ReportFilter) ([]domain.Report, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.ExcludeStatus != nil {
		where = append(where, "status <> ?")
		args = append(args, string(*filter.ExcludeStatus))
	}
	if filter.Category != nil {
		where = append(where, "category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.AssigneeID != nil {
		where = append(where, "assignee_id = ?")
		args = append(args, *filter.AssigneeID)
	}

	query := `SELECT ` + reportColumns + ` FROM reports`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

func (s *Store) TransitionReport(ctx context.Context, id string, from domain.Status, t models.Transition) (*domain.Report, error) {
	set := "status = ?, assignee_id = ?, rejection_reason = ?, updated_at = ?"
	args := []any{string(t.Status), nullString(t.AssigneeID), nullString(t.RejectionReason), formatTime(t.At)}
	if t.Category != nil {
		set += ", category = ?"
		args = append(args, string(*t.Category))
	}
	args = append(args, id, string(from))

	result, err := s.db.ExecContext(ctx,
		`UPDATE reports SET `+set+` WHERE id = ? AND status = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update report %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM reports WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check report %s: %w", id, err)
		}
		if exists == 0 {
			return nil, database.ErrReportNotFound
		}
		return nil, database.ErrStatusConflict
	}
	return s.GetReportByID(ctx, id)
}

func (s *Store) CountOpenByAssignee(ctx context.Context, assigneeIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(assigneeIDs))
	if len(assigneeIDs) == 0 {
		return counts, nil
	}

	args := make([]any, 0, len(assigneeIDs)+len(database.OpenStatuses))
	for _, id := range assigneeIDs {
		args = append(args, id)
	}
	for _, st := range database.OpenStatuses {
		args = append(args, string(st))
	}

	query := fmt.Sprintf(
		`SELECT assignee_id, COUNT(1) FROM reports
		 WHERE assignee_id IN (%s) AND status IN (%s)
		 GROUP BY assignee_id`,
		placeholders(len(assigneeIDs)), placeholders(len(database.OpenStatuses)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count open reports: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func scanReport(row scannable) (*domain.Report, error) {
	var (
		r                    domain.Report
		category, status     string
		photosJSON           string
		anonymous            int
		assignee, rejection  sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&r.ID, &r.ReporterID, &r.Title, &r.Description, &category,
		&r.Location.Latitude, &r.Location.Longitude, &r.Address,
		&photosJSON, &anonymous, &status, &assignee, &rejection,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(photosJSON), &r.Photos); err != nil {
		return nil, fmt.Errorf("decode photos of report %s: %w", r.ID, err)
	}
	r.Category = domain.Category(category)
	r.Status = domain.Status(status)
	r.IsAnonymous = anonymous != 0
	r.AssigneeID = stringPtr(assignee)
	r.RejectionReason = stringPtr(rejection)
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return &r, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
