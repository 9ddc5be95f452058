// Command trajectory-store manages a SQLite trajectory store: schema
// migrations and Parquet imports of model output.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/trajectory.report/internal/db"
	"github.com/banshee-data/trajectory.report/internal/ingest"
	"github.com/banshee-data/trajectory.report/internal/security"
	"github.com/banshee-data/trajectory.report/internal/timeutil"
	"github.com/banshee-data/trajectory.report/internal/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, timeutil.RealClock{}); err != nil {
		log.Fatalf("trajectory-store: %v", err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: trajectory-store [-db path] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  migrate <action>   manage the store schema (see 'migrate help')")
	fmt.Fprintln(w, "  import <parquet>   load a model Parquet export into the store")
	fmt.Fprintln(w, "  imports            list previous imports")
	fmt.Fprintln(w, "  version            print version")
}

func run(args []string, stdout io.Writer, clock timeutil.Clock) error {
	fs := flag.NewFlagSet("trajectory-store", flag.ContinueOnError)
	fs.SetOutput(stdout)
	dbPath := fs.String("db", "trajectories.db", "path to the SQLite trajectory store")
	fs.Usage = func() { usage(stdout) }
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stdout)
		return fmt.Errorf("missing command")
	}

	switch rest[0] {
	case "migrate":
		return db.RunMigrateCommand(stdout, rest[1:], *dbPath)
	case "import":
		if len(rest) < 2 {
			return fmt.Errorf("usage: trajectory-store import <parquet>")
		}
		return importParquet(stdout, *dbPath, rest[1], clock)
	case "imports":
		return listImports(stdout, *dbPath)
	case "version":
		fmt.Fprintln(stdout, version.String("trajectory-store"))
		return nil
	default:
		usage(stdout)
		return fmt.Errorf("unknown command: %s", rest[0])
	}
}

func importParquet(w io.Writer, dbPath, src string, clock timeutil.Clock) error {
	if err := security.ValidateInputFile(src); err != nil {
		return err
	}
	rows, err := ingest.ReadModelParquet(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	store, err := db.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := store.InsertTrajectories(ingest.ToStoreRows(rows)); err != nil {
		return err
	}
	id := uuid.New().String()
	if err := store.RecordImport(id, src, len(rows), clock.Now()); err != nil {
		return err
	}
	log.Printf("import %s: %d rows from %s", id, len(rows), src)
	fmt.Fprintf(w, "✓ Imported %d rows (import %s)\n", len(rows), id)
	return nil
}

func listImports(w io.Writer, dbPath string) error {
	store, err := db.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	imports, err := store.Imports()
	if err != nil {
		return err
	}
	if len(imports) == 0 {
		fmt.Fprintln(w, "No imports recorded")
		return nil
	}
	for _, im := range imports {
		fmt.Fprintf(w, "%s  %s  %6d rows  %s\n", im.ImportedAt.Format(time.RFC3339), im.ID, im.RowCount, im.SourcePath)
	}
	return nil
}
