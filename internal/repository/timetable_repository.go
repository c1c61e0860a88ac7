package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
)

const timetableColumns = `id, professor, program, semester_number, group_name, module, weekday, slot, room, created_at`

const insertBatchSize = 100

// TimetableRepository reads and replaces the weekly timetable.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// List returns sessions matching the filter ordered by weekday, slot and room.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.ScheduledSession, error) {
	var w whereClause
	if filter.Professor != "" {
		w.add("professor = ?", filter.Professor)
	}
	if filter.Program != "" {
		w.add("program = ?", filter.Program)
	}
	if filter.Module != "" {
		w.add("module = ?", filter.Module)
	}
	if filter.Weekday != "" {
		w.add("weekday = ?", filter.Weekday)
	}
	if filter.Slot != "" {
		w.add("slot = ?", filter.Slot)
	}
	if filter.Room != "" {
		w.add("room = ?", filter.Room)
	}
	query := r.db.Rebind(`SELECT ` + timetableColumns + ` FROM scheduled_sessions` + w.String() +
		` ORDER BY professor, weekday, slot, room`)
	var sessions []models.ScheduledSession
	if err := r.db.SelectContext(ctx, &sessions, query, w.args...); err != nil {
		return nil, fmt.Errorf("list scheduled sessions: %w", err)
	}
	return sessions, nil
}

// ListBySlotRooms returns the sessions held in any of rooms at weekday and slot.
func (r *TimetableRepository) ListBySlotRooms(ctx context.Context, exec sqlx.ExtContext, weekday models.Weekday, slot models.Slot, rooms []string) ([]models.ScheduledSession, error) {
	if len(rooms) == 0 {
		return nil, nil
	}
	target := executor(r.db, exec)
	query, args, err := sqlx.In(`SELECT `+timetableColumns+` FROM scheduled_sessions
WHERE weekday = ? AND slot = ? AND room IN (?) ORDER BY room, professor`, weekday, slot, rooms)
	if err != nil {
		return nil, fmt.Errorf("build slot rooms query: %w", err)
	}
	var sessions []models.ScheduledSession
	if err := sqlx.SelectContext(ctx, target, &sessions, target.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list sessions by slot rooms: %w", err)
	}
	return sessions, nil
}

// DistinctRooms returns every non-empty room of the timetable.
func (r *TimetableRepository) DistinctRooms(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT room FROM scheduled_sessions WHERE room <> '' ORDER BY room`
	var rooms []string
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// OccupiedRooms returns rooms holding a session at weekday and slot.
func (r *TimetableRepository) OccupiedRooms(ctx context.Context, weekday models.Weekday, slot models.Slot) ([]string, error) {
	query := r.db.Rebind(`SELECT DISTINCT room FROM scheduled_sessions WHERE weekday = ? AND slot = ? AND room <> '' ORDER BY room`)
	var rooms []string
	if err := r.db.SelectContext(ctx, &rooms, query, weekday, slot); err != nil {
		return nil, fmt.Errorf("list occupied rooms: %w", err)
	}
	return rooms, nil
}

// RoomsForProfessor returns rooms where professor teaches, optionally restricted to a module.
func (r *TimetableRepository) RoomsForProfessor(ctx context.Context, professor, module string) ([]string, error) {
	var w whereClause
	w.add("professor = ?", professor)
	w.add("room <> ''")
	if module != "" {
		w.add("module = ?", module)
	}
	query := r.db.Rebind(`SELECT DISTINCT room FROM scheduled_sessions` + w.String() + ` ORDER BY room`)
	var rooms []string
	if err := r.db.SelectContext(ctx, &rooms, query, w.args...); err != nil {
		return nil, fmt.Errorf("list professor rooms: %w", err)
	}
	return rooms, nil
}

// DistinctProfessors returns every professor of the timetable.
func (r *TimetableRepository) DistinctProfessors(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT professor FROM scheduled_sessions ORDER BY professor`
	var names []string
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("list timetable professors: %w", err)
	}
	return names, nil
}

// Search matches professor or room case-insensitively.
func (r *TimetableRepository) Search(ctx context.Context, q string, limit int) ([]models.ScheduledSession, error) {
	pattern := likePattern(q)
	query := r.db.Rebind(`SELECT ` + timetableColumns + ` FROM scheduled_sessions
WHERE LOWER(professor) LIKE ? ESCAPE '\' OR LOWER(room) LIKE ? ESCAPE '\'
ORDER BY professor, weekday, slot LIMIT ?`)
	var sessions []models.ScheduledSession
	if err := r.db.SelectContext(ctx, &sessions, query, pattern, pattern, limit); err != nil {
		return nil, fmt.Errorf("search scheduled sessions: %w", err)
	}
	return sessions, nil
}

// ReplaceAll deletes the current timetable and inserts sessions in its place.
func (r *TimetableRepository) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, sessions []models.ScheduledSession) error {
	target := executor(r.db, exec)
	if err := r.DeleteAll(ctx, target); err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range sessions {
		if sessions[i].ID == "" {
			sessions[i].ID = uuid.NewString()
		}
		if sessions[i].CreatedAt.IsZero() {
			sessions[i].CreatedAt = now
		}
	}
	const query = `INSERT INTO scheduled_sessions (` + timetableColumns + `)
VALUES (:id, :professor, :program, :semester_number, :group_name, :module, :weekday, :slot, :room, :created_at)`
	for start := 0; start < len(sessions); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(sessions) {
			end = len(sessions)
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, sessions[start:end]); err != nil {
			return fmt.Errorf("insert scheduled sessions: %w", err)
		}
	}
	return nil
}

// DeleteAll empties the timetable.
func (r *TimetableRepository) DeleteAll(ctx context.Context, exec sqlx.ExtContext) error {
	if _, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM scheduled_sessions`); err != nil {
		return fmt.Errorf("delete scheduled sessions: %w", err)
	}
	return nil
}
