package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
)

const absenceColumns = `id, absence_date, professor, program, semester_number, group_name, weekday, slot, room, module, reason, created_at`

// AbsenceRepository persists absence records.
type AbsenceRepository struct {
	db *sqlx.DB
}

// NewAbsenceRepository constructs the repository.
func NewAbsenceRepository(db *sqlx.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

// CreateIfAbsent inserts the record unless one already exists for the same
// date, slot, room and professor. It reports whether a row was written.
func (r *AbsenceRepository) CreateIfAbsent(ctx context.Context, exec sqlx.ExtContext, record *models.AbsenceRecord) (bool, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO absence_records (` + absenceColumns + `)
VALUES (:id, :absence_date, :professor, :program, :semester_number, :group_name, :weekday, :slot, :room, :module, :reason, :created_at)
ON CONFLICT DO NOTHING`
	res, err := sqlx.NamedExecContext(ctx, executor(r.db, exec), query, record)
	if err != nil {
		return false, fmt.Errorf("create absence record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create absence record rows: %w", err)
	}
	return n > 0, nil
}

// List returns a page of absences, newest first, with the total match count.
func (r *AbsenceRepository) List(ctx context.Context, filter models.AbsenceFilter) ([]models.AbsenceRecord, int, error) {
	var w whereClause
	if filter.Professor != "" {
		w.add("professor = ?", filter.Professor)
	}
	if filter.From != "" {
		w.add("absence_date >= ?", filter.From)
	}
	if filter.To != "" {
		w.add("absence_date <= ?", filter.To)
	}

	var total int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM absence_records` + w.String())
	if err := r.db.GetContext(ctx, &total, countQuery, w.args...); err != nil {
		return nil, 0, fmt.Errorf("count absence records: %w", err)
	}

	args := append([]interface{}{}, w.args...)
	query := `SELECT ` + absenceColumns + ` FROM absence_records` + w.String() + ` ORDER BY absence_date DESC, slot, room`
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}
	var records []models.AbsenceRecord
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("list absence records: %w", err)
	}
	return records, total, nil
}

// Recent returns the last absences recorded, whatever date they concern.
func (r *AbsenceRepository) Recent(ctx context.Context, limit int) ([]models.AbsenceRecord, error) {
	query := r.db.Rebind(`SELECT ` + absenceColumns + ` FROM absence_records ORDER BY created_at DESC, id DESC LIMIT ?`)
	var records []models.AbsenceRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("list recent absence records: %w", err)
	}
	return records, nil
}

// Search matches professor or room case-insensitively, newest first.
func (r *AbsenceRepository) Search(ctx context.Context, q string, limit int) ([]models.AbsenceRecord, error) {
	pattern := likePattern(q)
	query := r.db.Rebind(`SELECT ` + absenceColumns + ` FROM absence_records
WHERE LOWER(professor) LIKE ? ESCAPE '\' OR LOWER(room) LIKE ? ESCAPE '\'
ORDER BY absence_date DESC LIMIT ?`)
	var records []models.AbsenceRecord
	if err := r.db.SelectContext(ctx, &records, query, pattern, pattern, limit); err != nil {
		return nil, fmt.Errorf("search absence records: %w", err)
	}
	return records, nil
}

// Delete removes an absence and reports whether it existed.
func (r *AbsenceRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM absence_records WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete absence record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete absence record rows: %w", err)
	}
	return n > 0, nil
}

// CountByProfessor returns the number of absences per professor.
func (r *AbsenceRepository) CountByProfessor(ctx context.Context) ([]models.ProfessorCount, error) {
	const query = `SELECT professor, COUNT(*) AS total FROM absence_records GROUP BY professor ORDER BY professor`
	var counts []models.ProfessorCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count absences by professor: %w", err)
	}
	return counts, nil
}

// Count returns the number of stored absences.
func (r *AbsenceRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM absence_records`); err != nil {
		return 0, fmt.Errorf("count absence records: %w", err)
	}
	return total, nil
}

// rankable maps dimensions to their column; only these may be grouped on.
var rankable = map[string]string{
	"professor": "professor",
	"program":   "program",
	"weekday":   "weekday",
}

// Top returns the most frequent value of dimension, or nil when there are no absences.
// Ties are broken alphabetically.
func (r *AbsenceRepository) Top(ctx context.Context, dimension string) (*models.RankedCount, error) {
	column, ok := rankable[dimension]
	if !ok {
		return nil, fmt.Errorf("unsupported absence dimension %q", dimension)
	}
	query := `SELECT ` + column + ` AS label, COUNT(*) AS total FROM absence_records
WHERE ` + column + ` <> '' GROUP BY ` + column + ` ORDER BY total DESC, label ASC LIMIT 1`
	var ranked []models.RankedCount
	if err := r.db.SelectContext(ctx, &ranked, query); err != nil {
		return nil, fmt.Errorf("top absences by %s: %w", dimension, err)
	}
	if len(ranked) == 0 {
		return nil, nil
	}
	return &ranked[0], nil
}

// DeleteAll removes every absence.
func (r *AbsenceRepository) DeleteAll(ctx context.Context, exec sqlx.ExtContext) error {
	if _, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM absence_records`); err != nil {
		return fmt.Errorf("delete absence records: %w", err)
	}
	return nil
}
