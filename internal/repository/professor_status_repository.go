package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
)

// ProfessorStatusRepository stores Permanent/Vacataire statuses.
type ProfessorStatusRepository struct {
	db *sqlx.DB
}

// NewProfessorStatusRepository constructs the repository.
func NewProfessorStatusRepository(db *sqlx.DB) *ProfessorStatusRepository {
	return &ProfessorStatusRepository{db: db}
}

// List returns every recorded status.
func (r *ProfessorStatusRepository) List(ctx context.Context) ([]models.ProfessorStatus, error) {
	const query = `SELECT professor, status, updated_at FROM professor_statuses ORDER BY professor`
	var statuses []models.ProfessorStatus
	if err := r.db.SelectContext(ctx, &statuses, query); err != nil {
		return nil, fmt.Errorf("list professor statuses: %w", err)
	}
	return statuses, nil
}

// Upsert records statuses through exec (or the pool when nil).
func (r *ProfessorStatusRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, statuses []models.ProfessorStatus) error {
	const query = `INSERT INTO professor_statuses (professor, status, updated_at)
VALUES (:professor, :status, :updated_at)
ON CONFLICT (professor) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	target := executor(r.db, exec)
	now := time.Now().UTC()
	for i := range statuses {
		statuses[i].UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, statuses[i]); err != nil {
			return fmt.Errorf("upsert professor status: %w", err)
		}
	}
	return nil
}
