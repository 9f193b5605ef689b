package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/sandtracer/internal/trace"
)

type ExportData struct {
	*RunMetadata
	Trace []trace.Frame `json:"trace"`
}

// ExportJSON writes a run's metadata and frames as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: meta, Trace: frames})
}
