package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
)

// NotificationRepo handles notification persistence.
type NotificationRepo struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewNotificationRepo creates a notification repository.
func NewNotificationRepo(db *DB, log zerolog.Logger) *NotificationRepo {
	return &NotificationRepo{
		db:  db.Conn(),
		log: log.With().Str("repo", "notifications").Logger(),
	}
}

// Create inserts a notification.
func (r *NotificationRepo) Create(n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	var readAt any
	if n.ReadAt != nil {
		readAt = n.ReadAt.Format(time.RFC3339)
	}
	_, err := r.db.Exec(
		`INSERT INTO notifications (id, rule, subject, severity, message, created_at, read_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Rule, n.Subject, string(n.Severity), n.Message,
		n.CreatedAt.Format(time.RFC3339), readAt,
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

// List returns notifications newest first, optionally only unread.
func (r *NotificationRepo) List(unreadOnly bool, limit int) ([]model.Notification, error) {
	query := `SELECT id, rule, subject, severity, message, created_at, read_at FROM notifications`
	if unreadOnly {
		query += ` WHERE read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var (
			n         model.Notification
			severity  string
			createdAt string
			readAt    sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.Rule, &n.Subject, &severity, &n.Message, &createdAt, &readAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		n.Severity = model.Severity(severity)
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if readAt.Valid {
			t, err := time.Parse(time.RFC3339, readAt.String)
			if err == nil {
				n.ReadAt = &t
			}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountUnread returns how many notifications are unread.
func (r *NotificationRepo) CountUnread() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE read_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead stamps a notification as read.
func (r *NotificationRepo) MarkRead(id string) error {
	res, err := r.db.Exec(
		`UPDATE notifications SET read_at = ? WHERE id = ? AND read_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("unread notification %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecentExists reports whether the same rule already fired for the
// same subject since the given time. The rule engine uses this to
// avoid repeating itself.
func (r *NotificationRepo) RecentExists(rule, subject string, since time.Time) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE rule = ? AND subject = ? AND created_at >= ?`,
		rule, subject, since.UTC().Format(time.RFC3339)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking recent notification: %w", err)
	}
	return count > 0, nil
}

// Purge deletes read notifications older than the cutoff and returns
// how many were removed.
func (r *NotificationRepo) Purge(olderThan time.Time) (int64, error) {
	res, err := r.db.Exec(
		`DELETE FROM notifications WHERE read_at IS NOT NULL AND created_at < ?`,
		olderThan.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("purging notifications: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.log.Debug().Int64("count", n).Msg("purged read notifications")
	}
	return n, nil
}
