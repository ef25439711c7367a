package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/pthm-cable/shrine/config"
)

// csvStream is a CSV file that writes its header with the first record.
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

// write appends records; the header goes out once.
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

func (s *csvStream) close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

// OutputManager writes session output: perf.csv, telemetry.csv,
// interactions.csv, config.yaml and screenshots.
// A nil manager (output disabled) ignores every call.
type OutputManager struct {
	dir     string
	session string

	perf         *csvStream
	telemetry    *csvStream
	interactions *csvStream

	screenshots int
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, session: uuid.NewString()}

	var err error
	if om.perf, err = openStream(dir, "perf.csv"); err != nil {
		return nil, err
	}
	if om.telemetry, err = openStream(dir, "telemetry.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.interactions, err = openStream(dir, "interactions.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// Session returns the session id, or "" when output is disabled.
func (om *OutputManager) Session() string {
	if om == nil {
		return ""
	}
	return om.session
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WritePerf appends a perf.csv record.
func (om *OutputManager) WritePerf(stats PerfStats, tick int64) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(tick)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteTelemetry appends a telemetry.csv window record.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WriteInteraction appends an interactions.csv record.
func (om *OutputManager) WriteInteraction(ev InteractionEvent) error {
	if om == nil {
		return nil
	}
	if err := om.interactions.write([]InteractionEvent{ev}); err != nil {
		return fmt.Errorf("writing interaction: %w", err)
	}
	return nil
}

// NextScreenshotPath returns the path for the next screenshot.
// Without an output directory screenshots go to the working directory.
func (om *OutputManager) NextScreenshotPath() string {
	if om == nil {
		return "shot.webp"
	}
	om.screenshots++
	return filepath.Join(om.dir, fmt.Sprintf("shot-%s-%d.webp", om.session, om.screenshots))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, s := range []*csvStream{om.perf, om.telemetry, om.interactions} {
		if err := s.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
