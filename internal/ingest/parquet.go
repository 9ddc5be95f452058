package ingest

import (
	"fmt"
	"math"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/banshee-data/trajectory.report/internal/trajectory"
)

// ReadModelParquet reads the model columns of a Parquet file. Columns are
// read by name so files with extra or reordered columns are accepted;
// missing required columns fail with *trajectory.SchemaError. Null values
// in float columns read as NaN; a null in an integer column is an error.
func ReadModelParquet(path string) ([]ModelRow, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetColumnReader(fr, 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	var have []string
	for _, info := range pr.SchemaHandler.Infos[1:] {
		have = append(have, info.ExName)
	}
	if missing := missingColumns(have); len(missing) > 0 {
		return nil, &trajectory.SchemaError{Source: path, Missing: missing}
	}

	n := pr.GetNumRows()
	root := pr.SchemaHandler.GetRootExName()
	cols := make(map[string][]float64, len(ModelColumns))
	for _, name := range ModelColumns {
		values, _, _, err := pr.ReadColumnByPath(common.ReformPathStr(root+"."+name), n)
		if err != nil {
			return nil, fmt.Errorf("failed to read column %s: %w", name, err)
		}
		if int64(len(values)) != n {
			return nil, fmt.Errorf("column %s has %d values, want %d", name, len(values), n)
		}
		col := make([]float64, n)
		for i, v := range values {
			if v == nil && integerColumns[name] {
				return nil, fmt.Errorf("column %s row %d: null value", name, i)
			}
			if col[i], err = toFloat(v); err != nil {
				return nil, fmt.Errorf("column %s row %d: %w", name, i, err)
			}
		}
		cols[name] = col
	}

	rows := make([]ModelRow, n)
	for i := range rows {
		rows[i] = ModelRow{
			OID:          int64(cols["oid"][i]),
			Time:         int64(cols["time"][i]),
			DistAlong:    cols["dist_along"][i],
			LaneIndex:    int64(cols["laneIndex"][i]),
			Speed:        cols["speed"][i],
			Acceleration: cols["acceleration"][i],
		}
	}
	return rows, nil
}

// integerColumns are the model columns that have no NaN representation.
var integerColumns = map[string]bool{"oid": true, "time": true, "laneIndex": true}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	default:
		return 0, fmt.Errorf("unsupported parquet value type %T", v)
	}
}

// WriteModelParquet writes rows to a Parquet file at path.
func WriteModelParquet(path string, rows []ModelRow) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(ModelRow), 4)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

func nan() float64 { return math.NaN() }
