package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
)

const makeupColumns = `id, makeup_date, professor, slot, room, program, semester_number, module, group_name, created_at`

// MakeupRepository persists makeup sessions.
type MakeupRepository struct {
	db *sqlx.DB
}

// NewMakeupRepository constructs the repository.
func NewMakeupRepository(db *sqlx.DB) *MakeupRepository {
	return &MakeupRepository{db: db}
}

// FindByProfessorSlot returns the makeup booked for professor at date and slot, or nil.
func (r *MakeupRepository) FindByProfessorSlot(ctx context.Context, exec sqlx.ExtContext, professor, date string, slot models.Slot) (*models.MakeupSession, error) {
	return r.findOne(ctx, exec, `professor = ? AND makeup_date = ? AND slot = ?`, professor, date, slot)
}

// FindByRoomSlot returns the makeup holding room at date and slot, or nil.
func (r *MakeupRepository) FindByRoomSlot(ctx context.Context, exec sqlx.ExtContext, room, date string, slot models.Slot) (*models.MakeupSession, error) {
	return r.findOne(ctx, exec, `room = ? AND makeup_date = ? AND slot = ?`, room, date, slot)
}

func (r *MakeupRepository) findOne(ctx context.Context, exec sqlx.ExtContext, cond string, args ...interface{}) (*models.MakeupSession, error) {
	target := executor(r.db, exec)
	query := target.Rebind(`SELECT ` + makeupColumns + ` FROM makeup_sessions WHERE ` + cond + ` LIMIT 1`)
	var session models.MakeupSession
	if err := sqlx.GetContext(ctx, target, &session, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find makeup session: %w", err)
	}
	return &session, nil
}

// Create inserts a makeup. A unique index violation yields ErrDuplicate.
func (r *MakeupRepository) Create(ctx context.Context, exec sqlx.ExtContext, session *models.MakeupSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO makeup_sessions (` + makeupColumns + `)
VALUES (:id, :makeup_date, :professor, :slot, :room, :program, :semester_number, :module, :group_name, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, executor(r.db, exec), query, session); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create makeup session: %w", ErrDuplicate)
		}
		return fmt.Errorf("create makeup session: %w", err)
	}
	return nil
}

// List returns makeups, newest first.
func (r *MakeupRepository) List(ctx context.Context, filter models.MakeupFilter) ([]models.MakeupSession, error) {
	var w whereClause
	if filter.Professor != "" {
		w.add("professor = ?", filter.Professor)
	}
	if filter.Date != "" {
		w.add("makeup_date = ?", filter.Date)
	}
	query := r.db.Rebind(`SELECT ` + makeupColumns + ` FROM makeup_sessions` + w.String() + ` ORDER BY makeup_date DESC, slot`)
	var sessions []models.MakeupSession
	if err := r.db.SelectContext(ctx, &sessions, query, w.args...); err != nil {
		return nil, fmt.Errorf("list makeup sessions: %w", err)
	}
	return sessions, nil
}

// RoomsInUse returns rooms booked by makeups at date and slot.
func (r *MakeupRepository) RoomsInUse(ctx context.Context, date string, slot models.Slot) ([]string, error) {
	query := r.db.Rebind(`SELECT DISTINCT room FROM makeup_sessions WHERE makeup_date = ? AND slot = ? AND room <> ''`)
	var rooms []string
	if err := r.db.SelectContext(ctx, &rooms, query, date, slot); err != nil {
		return nil, fmt.Errorf("list makeup rooms: %w", err)
	}
	return rooms, nil
}

// Delete removes a makeup and reports whether it existed.
func (r *MakeupRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM makeup_sessions WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete makeup session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete makeup session rows: %w", err)
	}
	return n > 0, nil
}

// CountByProfessor returns the number of makeups per professor.
func (r *MakeupRepository) CountByProfessor(ctx context.Context) ([]models.ProfessorCount, error) {
	const query = `SELECT professor, COUNT(*) AS total FROM makeup_sessions GROUP BY professor ORDER BY professor`
	var counts []models.ProfessorCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count makeups by professor: %w", err)
	}
	return counts, nil
}

// Count returns the number of stored makeups.
func (r *MakeupRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM makeup_sessions`); err != nil {
		return 0, fmt.Errorf("count makeup sessions: %w", err)
	}
	return total, nil
}

// DeleteAll removes every makeup.
func (r *MakeupRepository) DeleteAll(ctx context.Context, exec sqlx.ExtContext) error {
	if _, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM makeup_sessions`); err != nil {
		return fmt.Errorf("delete makeup sessions: %w", err)
	}
	return nil
}
