package db

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"
)

// TrajectoryTable is the table created by the store migrations.
const TrajectoryTable = "trajectories"

// TrajectoryRow is one model sample as stored. Nullable measurements are
// NaN when absent.
type TrajectoryRow struct {
	OID          int64
	TimeMillis   int64 // unix epoch milliseconds
	DistAlong    float64
	LaneIndex    int64
	Speed        float64
	Acceleration float64
	Length       float64
}

// TableColumns returns the column names of table, or an empty slice if it
// does not exist.
func (db *DB) TableColumns(table string) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// InsertTrajectories writes rows into the trajectories table in a single
// transaction, replacing samples with the same (oid, time).
func (db *DB) InsertTrajectories(rows []TrajectoryRow) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO trajectories (
			oid, time, dist_along, laneIndex, speed, acceleration, length
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.OID, r.TimeMillis, r.DistAlong, r.LaneIndex,
			nullable(r.Speed), nullable(r.Acceleration), nullable(r.Length)); err != nil {
			return fmt.Errorf("failed to insert oid %d at %d: %w", r.OID, r.TimeMillis, err)
		}
	}
	return tx.Commit()
}

// LoadTrajectories reads every row of table whose time lies in the
// inclusive window [start, end], ordered by (oid, time). A zero bound is
// open. table must be a plain identifier.
func (db *DB) LoadTrajectories(table string, start, end time.Time) ([]TrajectoryRow, error) {
	if !isIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	var where []string
	var args []any
	if !start.IsZero() {
		where = append(where, "time >= ?")
		args = append(args, start.UnixMilli())
	}
	if !end.IsZero() {
		where = append(where, "time <= ?")
		args = append(args, end.UnixMilli())
	}

	query := fmt.Sprintf(`SELECT oid, time, dist_along, laneIndex, speed, acceleration, length
		FROM %s`, table)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY oid, time"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var out []TrajectoryRow
	for rows.Next() {
		var (
			r                    TrajectoryRow
			speed, accel, length sql.NullFloat64
		)
		if err := rows.Scan(&r.OID, &r.TimeMillis, &r.DistAlong, &r.LaneIndex, &speed, &accel, &length); err != nil {
			return nil, err
		}
		r.Speed = orNaN(speed)
		r.Acceleration = orNaN(accel)
		r.Length = orNaN(length)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordImport stores the provenance of one import run.
func (db *DB) RecordImport(importID, sourcePath string, rowCount int, at time.Time) error {
	_, err := db.Exec(`INSERT INTO imports (import_id, source_path, row_count, imported_at) VALUES (?, ?, ?, ?)`,
		importID, sourcePath, rowCount, at.Unix())
	if err != nil {
		return fmt.Errorf("failed to record import %s: %w", importID, err)
	}
	return nil
}

// Import is one row of the imports table.
type Import struct {
	ID         string
	SourcePath string
	RowCount   int
	ImportedAt time.Time
}

// Imports lists recorded imports, most recent first.
func (db *DB) Imports() ([]Import, error) {
	rows, err := db.Query(`SELECT import_id, source_path, row_count, imported_at
		FROM imports ORDER BY imported_at DESC, import_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Import
	for rows.Next() {
		var (
			im Import
			at int64
		)
		if err := rows.Scan(&im.ID, &im.SourcePath, &im.RowCount, &at); err != nil {
			return nil, err
		}
		im.ImportedAt = time.Unix(at, 0)
		out = append(out, im)
	}
	return out, rows.Err()
}

func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
