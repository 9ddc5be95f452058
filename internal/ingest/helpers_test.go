package ingest

import (
	"testing"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
)

func writeTestParquet[T any](t *testing.T, path string, rows []T) {
	t.Helper()
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(T), 1)
	if err != nil {
		t.Fatalf("parquet writer: %v", err)
	}
	for _, r := range rows {
		if err := pw.Write(r); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		t.Fatalf("write stop: %v", err)
	}
}
