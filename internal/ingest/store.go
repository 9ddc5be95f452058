package ingest

import (
	"fmt"

	"github.com/banshee-data/trajectory.report/internal/db"
	"github.com/banshee-data/trajectory.report/internal/trajectory"
)

// ReadModelStore reads opts.Table (default "trajectories") from a
// trajectory store. The window bounds are pushed down into the query.
func ReadModelStore(store *db.DB, opts Options) ([]ModelRow, error) {
	table := opts.Table
	if table == "" {
		table = db.TrajectoryTable
	}

	cols, err := store.TableColumns(table)
	if err != nil {
		return nil, err
	}
	if missing := missingColumns(cols); len(missing) > 0 {
		return nil, &trajectory.SchemaError{Source: "table " + table, Missing: missing}
	}

	rows, err := store.LoadTrajectories(table, opts.Start, opts.End)
	if err != nil {
		return nil, err
	}
	return fromStoreRows(rows), nil
}

func readModelStorePath(path string, opts Options) ([]ModelRow, error) {
	store, err := db.OpenDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trajectory store: %w", err)
	}
	defer store.Close()
	return ReadModelStore(store, opts)
}
