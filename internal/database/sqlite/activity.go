package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"participium/internal/database"
	"participium/internal/database/models"
)

func (s *Store) SaveLinkCode(ctx context.Context, code models.LinkCode) error {
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Expired codes of any user are dropped too so their digits can be handed out again.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM telegram_link_codes WHERE used_at IS NULL AND (user_id = ? OR expires_at <= ?)`,
		code.UserID, formatTime(code.CreatedAt)); err != nil {
		return fmt.Errorf("drop previous link codes for user %s: %w", code.UserID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO telegram_link_codes (code, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		code.Code, code.UserID, formatTime(code.ExpiresAt), formatTime(code.CreatedAt)); err != nil {
		if isUniqueViolation(err) {
			return database.ErrDuplicateLinkCode
		}
		return fmt.Errorf("insert link code: %w", err)
	}
	return tx.Commit()
}

func (s *Store) RedeemLinkCode(ctx context.Context, code string, now time.Time) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx,
		`UPDATE telegram_link_codes SET used_at = ?
		 WHERE rowid = (
			SELECT rowid FROM telegram_link_codes
			WHERE code = ? AND used_at IS NULL AND expires_at > ?
			LIMIT 1)
		 RETURNING user_id`,
		formatTime(now), code, formatTime(now)).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", database.ErrLinkCodeInvalid
	}
	if err != nil {
		return "", fmt.Errorf("redeem link code: %w", err)
	}
	return userID, nil
}

func (s *Store) LogUserAction(ctx context.Context, userID int64, action string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	data, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode action details: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_actions (user_id, action, details, time) VALUES (?, ?, ?, ?)`,
		userID, action, string(data), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("insert user action log for user %d: %w", userID, err)
	}
	return nil
}

func (s *Store) UpdateTelegramUser(ctx context.Context, userID int64, username, firstName, lastName, action string) error {
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO telegram_users (user_id, username, first_name, last_name, first_seen, last_seen, actions_count, last_action)
		 VALUES (?, ?, ?, ?, ?, ?, 1, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			last_seen = excluded.last_seen,
			actions_count = telegram_users.actions_count + 1,
			last_action = excluded.last_action`,
		userID, username, firstName, lastName, now, now, action)
	if err != nil {
		return fmt.Errorf("update telegram user %d: %w", userID, err)
	}
	return nil
}

// TelegramUser returns the activity record of a Telegram account.
func (s *Store) TelegramUser(ctx context.Context, userID int64) (*models.TelegramUser, error) {
	var (
		u               models.TelegramUser
		first, lastSeen string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, first_name, last_name, first_seen, last_seen, actions_count, last_action
		 FROM telegram_users WHERE user_id = ?`, userID).
		Scan(&u.UserID, &u.Username, &u.FirstName, &u.LastName, &first, &lastSeen, &u.ActionsCount, &u.LastAction)
	if err != nil {
		return nil, err
	}
	u.FirstSeen = parseTime(first)
	u.LastSeen = parseTime(lastSeen)
	return &u, nil
}

var (
	_ database.ReportRepository    = (*Store)(nil)
	_ database.UserRepository      = (*Store)(nil)
	_ database.LinkCodeRepository  = (*Store)(nil)
	_ database.UserActionLogger    = (*Store)(nil)
	_ database.TelegramUserTracker = (*Store)(nil)
)
