package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/sandtracer/internal/config"
	"github.com/san-kum/sandtracer/internal/experiment"
	"github.com/san-kum/sandtracer/internal/physics"
	"github.com/san-kum/sandtracer/internal/sim"
	"github.com/san-kum/sandtracer/internal/trace"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var traceHeader = []string{"t", "lap", "reset", "x", "vx", "y", "vy", "energy"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Config    *config.Config     `json:"config"`
	E0        float64            `json:"e0"`
	Laps      int                `json:"laps"`
	Frames    int                `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(cfg *config.Config, result *experiment.Result) (string, error) {
	name := cfg.Preset
	if name == "" {
		name = "custom"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    cfg.Preset,
		Timestamp: now,
		Config:    cfg,
		E0:        result.E0,
		Laps:      result.Laps,
		Frames:    len(result.Frames),
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrace(path string, frames []trace.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(traceHeader); err != nil {
		return err
	}

	for _, fr := range frames {
		row := []string{
			formatFloat(fr.T),
			strconv.Itoa(fr.Lap),
			strconv.FormatBool(fr.Reset),
			formatFloat(fr.X.Pos),
			formatFloat(fr.X.Vel),
			formatFloat(fr.Y.Pos),
			formatFloat(fr.Y.Vel),
			formatFloat(fr.Energy),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]trace.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(traceHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []trace.Frame{}, nil
	}

	frames := make([]trace.Frame, 0, len(records)-1)
	for i, rec := range records[1:] {
		f, err := parseFrame(rec)
		if err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, i+2, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseFrame(rec []string) (trace.Frame, error) {
	var vals [6]float64
	idx := []int{0, 3, 4, 5, 6, 7}
	for i, col := range idx {
		v, err := strconv.ParseFloat(rec[col], 64)
		if err != nil {
			return trace.Frame{}, err
		}
		vals[i] = v
	}
	lap, err := strconv.Atoi(rec[1])
	if err != nil {
		return trace.Frame{}, err
	}
	reset, err := strconv.ParseBool(rec[2])
	if err != nil {
		return trace.Frame{}, err
	}

	return trace.Frame{
		Snapshot: sim.Snapshot{
			T:      vals[0],
			X:      physics.Projection{Pos: vals[1], Vel: vals[2]},
			Y:      physics.Projection{Pos: vals[3], Vel: vals[4]},
			Energy: vals[5],
		},
		Lap:   lap,
		Reset: reset,
	}, nil
}
