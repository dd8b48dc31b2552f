// Package file persists sessions and the score ledger on local disk.
// Save slots are gob-encoded binary snapshots; the score ledger is a
// human-readable JSON file capped at the top ten entries. Corrupt or
// missing files read as absent, never as errors.
package file

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"courierquest/internal/app/ports"
)

const (
	slotPattern   = "slot_%d.sav"
	scoresLedger  = "scores.json"
	ledgerMaxSize = 10
)

type SaveStore struct {
	dir string
	mu  sync.Mutex
}

func NewSaveStore(dir string) (*SaveStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &SaveStore{dir: dir}, nil
}

func (s *SaveStore) slotPath(slot int) string {
	return filepath.Join(s.dir, fmt.Sprintf(slotPattern, slot))
}

func (s *SaveStore) Save(_ context.Context, slot int, rec ports.SaveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.slotPath(slot) + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create save file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(rec); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode save: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close save file: %w", err)
	}
	return os.Rename(tmp, s.slotPath(slot))
}

func (s *SaveStore) Load(_ context.Context, slot int) (ports.SaveRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.slotPath(slot))
	if err != nil {
		return ports.SaveRecord{}, false
	}
	defer f.Close()

	var rec ports.SaveRecord
	if err := gob.NewDecoder(f).Decode(&rec); err != nil {
		return ports.SaveRecord{}, false
	}
	if rec.SchemaVersion != ports.SaveSchemaVersion {
		return ports.SaveRecord{}, false
	}
	if rec.State.Map.Validate() != nil {
		return ports.SaveRecord{}, false
	}
	return rec, true
}

func (s *SaveStore) Metadata(ctx context.Context, slot int) (ports.SaveMetadata, bool) {
	rec, ok := s.Load(ctx, slot)
	if !ok {
		return ports.SaveMetadata{}, false
	}
	return rec.Metadata, true
}

type ScoreStore struct {
	path string
	mu   sync.Mutex
}

func NewScoreStore(dir string) (*ScoreStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create score dir: %w", err)
	}
	return &ScoreStore{path: filepath.Join(dir, scoresLedger)}, nil
}

// List returns the ledger sorted descending by score. An unreadable
// ledger reads as empty.
func (s *ScoreStore) List(_ context.Context) []ports.ScoreRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *ScoreStore) Add(_ context.Context, rec ports.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := append(s.read(), rec)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	if len(records) > ledgerMaxSize {
		records = records[:ledgerMaxSize]
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *ScoreStore) read() []ports.ScoreRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var records []ports.ScoreRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil
	}
	return records
}
