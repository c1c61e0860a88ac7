package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
)

// HolidayRepository persists suspended teaching periods.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs the repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// List returns every period ordered by start date.
func (r *HolidayRepository) List(ctx context.Context) ([]models.HolidayPeriod, error) {
	const query = `SELECT id, start_date, end_date, description, category, created_at
FROM holiday_periods ORDER BY start_date, end_date`
	var periods []models.HolidayPeriod
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, fmt.Errorf("list holiday periods: %w", err)
	}
	return periods, nil
}

// Create inserts a new period.
func (r *HolidayRepository) Create(ctx context.Context, period *models.HolidayPeriod) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	if period.CreatedAt.IsZero() {
		period.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO holiday_periods (id, start_date, end_date, description, category, created_at)
VALUES (:id, :start_date, :end_date, :description, :category, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("create holiday period: %w", err)
	}
	return nil
}

// Delete removes a period and reports whether it existed.
func (r *HolidayRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM holiday_periods WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete holiday period: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete holiday period rows: %w", err)
	}
	return n > 0, nil
}
