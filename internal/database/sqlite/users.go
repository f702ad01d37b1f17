package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"participium/internal/auth"
	"participium/internal/database"
	"participium/internal/database/models"
)

const userColumns = `id, username, first_name, last_name, email, role, department, telegram_username, created_at`

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.TelegramUsername != nil {
		norm := database.NormalizeTelegramUsername(*u.TelegramUsername)
		u.TelegramUsername = &norm
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.FirstName, u.LastName, u.Email, string(u.Role), u.Department,
		nullString(u.TelegramUsername), formatTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert user %s: %w", u.ID, err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *Store) GetUserByTelegramUsername(ctx context.Context, username string) (*models.User, error) {
	norm := database.NormalizeTelegramUsername(username)
	if norm == "" {
		return nil, database.ErrUserNotFound
	}
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE telegram_username = ?`, norm))
}

func (s *Store) ListStaff(ctx context.Context, department string, role auth.Role) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE department = ? AND role = ? ORDER BY id`,
		department, string(role))
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) SetTelegramUsername(ctx context.Context, userID, username string) error {
	norm := database.NormalizeTelegramUsername(username)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET telegram_username = NULL WHERE telegram_username = ? AND id <> ?`,
		norm, userID); err != nil {
		return fmt.Errorf("unbind telegram username: %w", err)
	}
	result, err := tx.ExecContext(ctx,
		`UPDATE users SET telegram_username = ? WHERE id = ?`, norm, userID)
	if err != nil {
		return fmt.Errorf("set telegram username for user %s: %w", userID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrUserNotFound
	}
	return tx.Commit()
}

func scanUser(row scannable) (*models.User, error) {
	var (
		u         models.User
		role      string
		telegram  sql.NullString
		createdAt string
	)
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email,
		&role, &u.Department, &telegram, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrUserNotFound
		}
		return nil, err
	}
	u.Role = auth.Role(role)
	u.TelegramUsername = stringPtr(telegram)
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}
