package history

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	declPrefix = "const spaceStatusData = "
	declSuffix = ";"
)

// Store persists a History inside the dashboard's data.js artifact.
type Store struct {
	Logger *zap.Logger
	Path   string
}

func NewStore(logger *zap.Logger, path string) *Store {
	return &Store{Logger: logger, Path: path}
}

// Load reads the persisted artifact, extracting the JSON payload from the
// first '{' to end of file. Anything unreadable yields an empty history:
// a corrupt or missing file must never abort a run.
func (s *Store) Load() *History {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.Logger.Warn("history_read_failed", zap.String("path", s.Path), zap.Error(err))
		}
		return &History{}
	}

	i := bytes.IndexByte(data, '{')
	if i < 0 {
		s.Logger.Warn("history_no_payload", zap.String("path", s.Path))
		return &History{}
	}

	h, err := parseOrdered(data[i:])
	if err != nil {
		s.Logger.Warn("history_parse_failed", zap.String("path", s.Path), zap.Error(err))
		return &History{}
	}
	s.Logger.Info("history_loaded", zap.String("path", s.Path), zap.Int("entries", len(h.Entries)))
	return h
}

// Save rewrites the whole artifact, wrapping the ordered payload in the
// declaration the dashboard script expects. Single whole-file write.
func (s *Store) Save(h *History) error {
	payload, err := h.MarshalOrdered()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(declPrefix)
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return err
	}
	buf.WriteString(declSuffix)

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.Path, buf.Bytes(), 0o644)
}
