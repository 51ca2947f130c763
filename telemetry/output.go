package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/systems"
)

// ParticleRow is one particle slot in a pool dump.
type ParticleRow struct {
	Tick     int32   `csv:"tick"`
	Emitter  string  `csv:"emitter"`
	Slot     int     `csv:"slot"`
	Active   bool    `csv:"active"`
	LifeTime float64 `csv:"lifetime"`
	PosX     float64 `csv:"pos_x"`
	PosY     float64 `csv:"pos_y"`
	PosZ     float64 `csv:"pos_z"`
	VelX     float64 `csv:"vel_x"`
	VelY     float64 `csv:"vel_y"`
	VelZ     float64 `csv:"vel_z"`
}

// csvStream appends records to a file, writing the header once.
type csvStream struct {
	file          *os.File
	headerWritten bool
}

func openStream(dir, name string) (*csvStream, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvStream{file: f}, nil
}

func (s *csvStream) write(records any) error {
	if !s.headerWritten {
		if err := gocsv.Marshal(records, s.file); err != nil {
			return err
		}
		s.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, s.file)
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	telemetry *csvStream
	perf      *csvStream
	particles *csvStream // opened on first dump
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	var err error
	if om.telemetry, err = openStream(dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = openStream(dir, "perf.csv"); err != nil {
		om.telemetry.file.Close()
		return nil, err
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes one row per emitter to telemetry.csv.
func (om *OutputManager) WriteTelemetry(records []WindowStats) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if err := om.telemetry.write(records); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteParticles appends every slot of every field to particles.csv.
func (om *OutputManager) WriteParticles(tick int32, fields []*systems.ParticleField) error {
	if om == nil {
		return nil
	}
	if om.particles == nil {
		s, err := openStream(om.dir, "particles.csv")
		if err != nil {
			return err
		}
		om.particles = s
	}

	var rows []ParticleRow
	for _, f := range fields {
		for i, p := range f.Pool() {
			rows = append(rows, ParticleRow{
				Tick:     tick,
				Emitter:  f.Name(),
				Slot:     i,
				Active:   p.Active,
				LifeTime: p.LifeTime,
				PosX:     p.Position.X,
				PosY:     p.Position.Y,
				PosZ:     p.Position.Z,
				VelX:     p.Velocity.X,
				VelY:     p.Velocity.Y,
				VelZ:     p.Velocity.Z,
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	if err := om.particles.write(rows); err != nil {
		return fmt.Errorf("writing particles: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, s := range []*csvStream{om.telemetry, om.perf, om.particles} {
		if s == nil {
			continue
		}
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
