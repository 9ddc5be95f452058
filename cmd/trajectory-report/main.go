// Command trajectory-report loads NGSIM and/or model trajectories, runs
// every corridor analysis and writes CSV tables, PNG charts and HTML heat
// maps under <out>/<run-id>/.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/banshee-data/trajectory.report/internal/config"
	"github.com/banshee-data/trajectory.report/internal/ingest"
	"github.com/banshee-data/trajectory.report/internal/monitoring"
	"github.com/banshee-data/trajectory.report/internal/report"
	"github.com/banshee-data/trajectory.report/internal/security"
	"github.com/banshee-data/trajectory.report/internal/trajectory"
	"github.com/banshee-data/trajectory.report/internal/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("trajectory-report: %v", err)
	}
}

type options struct {
	configPath  string
	ngsimPath   string
	modelPath   string
	modelFormat string
	outDir      string
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("trajectory-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "analysis config (.json, .yaml); built-in defaults when empty")
	fs.StringVar(&o.ngsimPath, "ngsim", "", "NGSIM trajectory file")
	fs.StringVar(&o.modelPath, "model", "", "model trajectories (Parquet file or SQLite store)")
	fs.StringVar(&o.modelFormat, "model-format", ingest.FormatParquet, "model source format: parquet or sqlite")
	fs.StringVar(&o.outDir, "out", "", "output directory (overrides output_dir)")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if !o.showVersion && o.ngsimPath == "" && o.modelPath == "" {
		return o, fmt.Errorf("at least one of -ngsim or -model is required")
	}
	return o, nil
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	if o.showVersion {
		fmt.Fprintln(stdout, version.String("trajectory-report"))
		return nil
	}

	cfg := config.DefaultAnalysisConfig()
	if o.configPath != "" {
		if cfg, err = config.LoadAnalysisConfig(o.configPath); err != nil {
			return err
		}
	}
	outRoot := cfg.GetOutputDir()
	if o.outDir != "" {
		outRoot = o.outDir
	}

	runID := uuid.New().String()
	log.Printf("run %s: config=%q ngsim=%q model=%q (%s)", runID, o.configPath, o.ngsimPath, o.modelPath, o.modelFormat)

	d, err := loadSources(o, cfg)
	if err != nil {
		return err
	}
	log.Printf("run %s: %d records, %d vehicles, time step %s", runID, d.Len(), len(d.VehicleIDs()), d.TimeStep())

	out, err := report.NewOutput(filepath.Join(outRoot, runID))
	if err != nil {
		return err
	}
	err = report.Generate(d, report.Settings{
		SpaceBinFeet:    cfg.GetSpaceBinFeet(),
		TimeBinSeconds:  cfg.GetTimeBinSeconds(),
		SpeedBinMPH:     cfg.GetSpeedBinMPH(),
		DensityBinVPM:   cfg.GetDensityBinVPM(),
		MinCurveSamples: cfg.GetMinCurveSamples(),
		Location:        cfg.GetLocation(),
	}, out)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	monitoring.Logf("run %s: wrote %d files", runID, len(out.Files))
	fmt.Fprintln(stdout, out.Dir)
	return nil
}

// loadSources reads whichever sources were given and unions them.
func loadSources(o options, cfg *config.AnalysisConfig) (*trajectory.Dataset, error) {
	start, end := cfg.GetWindow()
	opts := ingest.Options{
		Location: cfg.GetLocation(),
		Start:    start,
		End:      end,
		LaneBase: cfg.GetModelLaneBase(),
		Table:    cfg.GetModelTable(),
	}

	var sets []*trajectory.Dataset
	if o.ngsimPath != "" {
		if err := security.ValidateInputFile(o.ngsimPath); err != nil {
			return nil, err
		}
		d, err := ingest.LoadNGSIM(o.ngsimPath, opts)
		if err != nil {
			return nil, fmt.Errorf("ngsim: %w", err)
		}
		sets = append(sets, d)
	}
	if o.modelPath != "" {
		if err := security.ValidateInputFile(o.modelPath); err != nil {
			return nil, err
		}
		d, err := ingest.LoadModel(o.modelPath, o.modelFormat, opts)
		if err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
		sets = append(sets, d)
	}

	d := sets[0]
	for _, other := range sets[1:] {
		var err error
		if d, err = d.Union(other); err != nil {
			return nil, fmt.Errorf("combine sources: %w", err)
		}
	}
	return d, nil
}
