package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fasting/backend/internal/model"
)

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (*model.ScheduleSettings, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT user_id, plan_label, fasting_hours, eating_hours, eating_window_start, is_active, updated_at
		 FROM fasting_settings
		 WHERE user_id = ?`,
		userID,
	)

	var settings model.ScheduleSettings
	var isActive int
	var updatedAt string
	err := row.Scan(
		&settings.UserID,
		&settings.Plan.Label,
		&settings.Plan.FastingHours,
		&settings.Plan.EatingHours,
		&settings.EatingWindowStart,
		&isActive,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings.IsActive = isActive != 0
	parsedUpdatedAt, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse settings updated_at: %w", err)
	}
	settings.UpdatedAt = parsedUpdatedAt
	return &settings, nil
}

// Upsert replaces the user's schedule wholesale. At most one record per user.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *model.ScheduleSettings) error {
	isActive := 0
	if settings.IsActive {
		isActive = 1
	}
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO fasting_settings (
			user_id, plan_label, fasting_hours, eating_hours, eating_window_start, is_active, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			plan_label = excluded.plan_label,
			fasting_hours = excluded.fasting_hours,
			eating_hours = excluded.eating_hours,
			eating_window_start = excluded.eating_window_start,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		settings.UserID,
		settings.Plan.Label,
		settings.Plan.FastingHours,
		settings.Plan.EatingHours,
		settings.EatingWindowStart,
		isActive,
		settings.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
