package discussion

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	memoryLogFile    = "memories.json"
	summaryLogFile   = "summaries.json"
	timestampMapFile = "timestamps.json"
	vectorDBFile     = "vector.db"
)

// Record is one entry of a memory or summary log: a rendered chunk of
// conversation text plus the content-hash identity it resumes from.
type Record struct {
	Text     string `json:"text"`
	Identity string `json:"identity"`
}

// Store holds the resolved paths for a single discussion's persisted state.
// One logical worker owns a discussion at a time; Store performs no locking
// of its own.
type Store struct {
	id  string
	dir string
}

// ID returns the discussion id this store belongs to.
func (s *Store) ID() string {
	return s.id
}

// Dir returns the resolved discussion directory.
func (s *Store) Dir() string {
	return s.dir
}

// VectorDBPath returns the path of the per-discussion vector store database.
func (s *Store) VectorDBPath() string {
	return filepath.Join(s.dir, vectorDBFile)
}

// MemoryLog loads the ordered memory chunk log.
// A missing file yields an empty log, not an error.
func (s *Store) MemoryLog() ([]Record, error) {
	return s.loadLog(memoryLogFile)
}

// SummaryLog loads the ordered summary chunk log.
// A missing file yields an empty log, not an error.
func (s *Store) SummaryLog() ([]Record, error) {
	return s.loadLog(summaryLogFile)
}

// AppendMemory appends records to the memory log.
func (s *Store) AppendMemory(recs ...Record) error {
	return s.appendLog(memoryLogFile, recs)
}

// AppendSummary appends records to the summary log.
func (s *Store) AppendSummary(recs ...Record) error {
	return s.appendLog(summaryLogFile, recs)
}

// TimestampMap loads the identity-to-timestamp mapping.
// A missing file yields an empty map, not an error.
func (s *Store) TimestampMap() (map[string]string, error) {
	path := filepath.Join(s.dir, timestampMapFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading timestamp map: %w", err)
	}

	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing timestamp map: %w", err)
	}

	return m, nil
}

// SaveTimestampMap rewrites the identity-to-timestamp mapping whole.
func (s *Store) SaveTimestampMap(m map[string]string) error {
	if m == nil {
		return errors.New("cannot save nil timestamp map")
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling timestamp map: %w", err)
	}

	path := filepath.Join(s.dir, timestampMapFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing timestamp map: %w", err)
	}

	return nil
}

func (s *Store) loadLog(name string) ([]Record, error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	return recs, nil
}

func (s *Store) appendLog(name string, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}

	existing, err := s.loadLog(name)
	if err != nil {
		return err
	}

	combined := append(existing, recs...)
	data, err := json.MarshalIndent(combined, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}
