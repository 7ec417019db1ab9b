package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fasting/backend/internal/model"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Insert(ctx context.Context, session *model.FastingSession) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO fasting_sessions (
			id, user_id, plan_label, target_hours, started_at, scheduled_end,
			ended_at, actual_hours, completion_percent, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.PlanLabel,
		session.TargetHours,
		session.StartedAt.UTC().Format(time.RFC3339Nano),
		session.ScheduledEnd.UTC().Format(time.RFC3339Nano),
		nullableTime(session.EndedAt),
		nullableFloat(session.ActualHours),
		nullableInt(session.CompletionPercent),
		session.Status,
		session.CreatedAt.UTC().Format(time.RFC3339Nano),
		session.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		// The partial unique index on (user_id) WHERE status='in_progress'
		// backs the single-active-session invariant.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateInProgress
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*model.FastingSession, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, plan_label, target_hours, started_at, scheduled_end,
		        ended_at, actual_hours, completion_percent, status, created_at, updated_at
		 FROM fasting_sessions
		 WHERE id = ?`,
		sessionID,
	)
	return scanSession(row)
}

// GetInProgress returns the user's single live session, or ErrNotFound.
func (r *SessionRepository) GetInProgress(ctx context.Context, userID string) (*model.FastingSession, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, plan_label, target_hours, started_at, scheduled_end,
		        ended_at, actual_hours, completion_percent, status, created_at, updated_at
		 FROM fasting_sessions
		 WHERE user_id = ? AND status = ?`,
		userID,
		model.StatusInProgress,
	)
	return scanSession(row)
}

func (r *SessionRepository) Update(ctx context.Context, session *model.FastingSession) error {
	_, err := r.db.ExecContext(
		ctx,
		`UPDATE fasting_sessions
		 SET ended_at = ?,
		     actual_hours = ?,
			 completion_percent = ?,
			 status = ?,
			 updated_at = ?
		 WHERE id = ?`,
		nullableTime(session.EndedAt),
		nullableFloat(session.ActualHours),
		nullableInt(session.CompletionPercent),
		session.Status,
		session.UpdatedAt.UTC().Format(time.RFC3339Nano),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// List returns the user's sessions, most recent first. Ordering is owned
// here; the aggregation code assumes it.
func (r *SessionRepository) List(ctx context.Context, userID string, limit int) ([]model.FastingSession, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, user_id, plan_label, target_hours, started_at, scheduled_end,
		        ended_at, actual_hours, completion_percent, status, created_at, updated_at
		 FROM fasting_sessions
		 WHERE user_id = ?
		 ORDER BY started_at DESC
		 LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.FastingSession, 0, limit)
	for rows.Next() {
		session, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

func scanSession(s scanner) (*model.FastingSession, error) {
	session := model.FastingSession{}
	var startedAt string
	var scheduledEnd string
	var endedAt sql.NullString
	var actualHours sql.NullFloat64
	var completionPercent sql.NullInt64
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&session.ID,
		&session.UserID,
		&session.PlanLabel,
		&session.TargetHours,
		&startedAt,
		&scheduledEnd,
		&endedAt,
		&actualHours,
		&completionPercent,
		&session.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	parsedStartedAt, err := parseTime(startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session started_at: %w", err)
	}
	session.StartedAt = parsedStartedAt

	parsedScheduledEnd, err := parseTime(scheduledEnd)
	if err != nil {
		return nil, fmt.Errorf("parse session scheduled_end: %w", err)
	}
	session.ScheduledEnd = parsedScheduledEnd

	if endedAt.Valid {
		parsedEndedAt, parseErr := parseTime(endedAt.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parse session ended_at: %w", parseErr)
		}
		session.EndedAt = &parsedEndedAt
	}
	if actualHours.Valid {
		value := actualHours.Float64
		session.ActualHours = &value
	}
	if completionPercent.Valid {
		value := int(completionPercent.Int64)
		session.CompletionPercent = &value
	}

	parsedCreatedAt, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse session created_at: %w", err)
	}
	session.CreatedAt = parsedCreatedAt

	parsedUpdatedAt, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session updated_at: %w", err)
	}
	session.UpdatedAt = parsedUpdatedAt

	return &session, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func nullableInt(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}
