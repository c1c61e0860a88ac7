package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ProfessorRepository rewrites professor names across every table that stores one.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs the repository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// Rows under from that would collide with an existing row under to are
// dropped before the update so the unique indexes hold.
var renameStatements = []struct {
	table  string
	query  string
	update bool
	args   func(from, to string) []interface{}
}{
	{
		table: "absence_records",
		query: `DELETE FROM absence_records WHERE professor = ? AND EXISTS (
SELECT 1 FROM absence_records o WHERE o.professor = ?
AND o.absence_date = absence_records.absence_date AND o.slot = absence_records.slot AND o.room = absence_records.room)`,
		args: func(from, to string) []interface{} { return []interface{}{from, to} },
	},
	{
		table:  "absence_records",
		query:  `UPDATE absence_records SET professor = ? WHERE professor = ?`,
		update: true,
		args:   func(from, to string) []interface{} { return []interface{}{to, from} },
	},
	{
		table: "makeup_sessions",
		query: `DELETE FROM makeup_sessions WHERE professor = ? AND EXISTS (
SELECT 1 FROM makeup_sessions o WHERE o.professor = ?
AND o.makeup_date = makeup_sessions.makeup_date AND o.slot = makeup_sessions.slot)`,
		args: func(from, to string) []interface{} { return []interface{}{from, to} },
	},
	{
		table:  "makeup_sessions",
		query:  `UPDATE makeup_sessions SET professor = ? WHERE professor = ?`,
		update: true,
		args:   func(from, to string) []interface{} { return []interface{}{to, from} },
	},
	{
		table:  "scheduled_sessions",
		query:  `UPDATE scheduled_sessions SET professor = ? WHERE professor = ?`,
		update: true,
		args:   func(from, to string) []interface{} { return []interface{}{to, from} },
	},
	{
		table: "professor_statuses",
		query: `DELETE FROM professor_statuses WHERE professor = ? AND EXISTS (
SELECT 1 FROM professor_statuses o WHERE o.professor = ?)`,
		args: func(from, to string) []interface{} { return []interface{}{from, to} },
	},
	{
		table:  "professor_statuses",
		query:  `UPDATE professor_statuses SET professor = ? WHERE professor = ?`,
		update: true,
		args:   func(from, to string) []interface{} { return []interface{}{to, from} },
	},
}

// Rename moves every row stored under from to to and returns how many rows
// were updated. Duplicates dropped along the way are not counted.
func (r *ProfessorRepository) Rename(ctx context.Context, exec sqlx.ExtContext, from, to string) (int64, error) {
	if from == "" || to == "" || from == to {
		return 0, nil
	}
	target := executor(r.db, exec)
	var moved int64
	for _, stmt := range renameStatements {
		res, err := target.ExecContext(ctx, target.Rebind(stmt.query), stmt.args(from, to)...)
		if err != nil {
			return moved, fmt.Errorf("rename professor in %s: %w", stmt.table, err)
		}
		if !stmt.update {
			continue
		}
		n, err := res.RowsAffected()
		if err != nil {
			return moved, fmt.Errorf("rename professor in %s: %w", stmt.table, err)
		}
		moved += n
	}
	return moved, nil
}
