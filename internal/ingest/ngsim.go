package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/trajectory.report/internal/monitoring"
	"github.com/banshee-data/trajectory.report/internal/trajectory"
	"github.com/banshee-data/trajectory.report/internal/units"
)

// NGSIMColumns are the 18 positional columns of an NGSIM trajectory file.
var NGSIMColumns = []string{
	"VehID", "FrameID", "TotalFrames", "GlobalTime", "locX", "locY", "globX",
	"globY", "vehLength", "vehWidth", "vehClass", "vehSpeed", "vehAcceleration", "lane",
	"precedingVeh", "followingVeh", "spacing", "headway",
}

const (
	colVehID        = 0
	colTotalFrames  = 2
	colGlobalTime   = 3
	colLocY         = 5
	colVehLength    = 8
	colVehSpeed     = 11
	colVehAccel     = 12
	colLane         = 13
	ngsimSourceName = "ngsim"
)

// ReadNGSIM parses an NGSIM whitespace-delimited file into observations.
// vehSpeed is converted from ft/s to mph and GlobalTime (epoch ms) is placed
// in opts.Location. Rows with fewer than 18 fields fail with
// *trajectory.SchemaError naming the absent columns.
func ReadNGSIM(r io.Reader, opts Options) ([]trajectory.Observation, error) {
	loc := opts.location()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var out []trajectory.Observation
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < len(NGSIMColumns) {
			return nil, fmt.Errorf("line %d: %w", line, &trajectory.SchemaError{
				Source:  ngsimSourceName,
				Missing: append([]string(nil), NGSIMColumns[len(fields):]...),
			})
		}

		obs, err := parseNGSIMRow(fields, loc)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, obs)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ngsim: %w", err)
	}
	return out, nil
}

func parseNGSIMRow(f []string, loc *time.Location) (trajectory.Observation, error) {
	var (
		o   trajectory.Observation
		err error
	)
	ints := []struct {
		col int
		dst *int
	}{
		{colVehID, &o.RawVehicleID},
		{colTotalFrames, &o.TotalFrames},
		{colLane, &o.LaneID},
	}
	for _, c := range ints {
		if *c.dst, err = strconv.Atoi(f[c.col]); err != nil {
			return o, fmt.Errorf("parse %s: %w", NGSIMColumns[c.col], err)
		}
	}

	floats := []struct {
		col int
		dst *float64
	}{
		{colLocY, &o.Position},
		{colVehLength, &o.LengthFeet},
		{colVehSpeed, &o.Speed},
		{colVehAccel, &o.Acceleration},
	}
	for _, c := range floats {
		if *c.dst, err = strconv.ParseFloat(f[c.col], 64); err != nil {
			return o, fmt.Errorf("parse %s: %w", NGSIMColumns[c.col], err)
		}
	}
	o.Speed = units.FeetPerSecondToMPH(o.Speed)

	// GlobalTime is written as an integer but some exports use a float form.
	ms, err := strconv.ParseFloat(f[colGlobalTime], 64)
	if err != nil {
		return o, fmt.Errorf("parse GlobalTime: %w", err)
	}
	o.Time = units.FromUnixMillis(int64(ms), loc)
	return o, nil
}

// LoadNGSIM reads the file at path, resolves vehicle identities over the
// whole file, applies the time window and assembles a dataset.
func LoadNGSIM(path string, opts Options) (*trajectory.Dataset, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ngsim file: %w", err)
	}
	defer f.Close()

	obs, err := ReadNGSIM(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	n := len(obs)
	monitoring.Stage("read ngsim", start, &n)

	records := FilterWindow(trajectory.ResolveIdentities(obs), opts.Start, opts.End)
	if len(records) == 0 {
		return nil, &trajectory.EmptySelectionError{View: fmt.Sprintf("%s window %s..%s", path, opts.Start, opts.End)}
	}
	return trajectory.Assemble(records)
}
