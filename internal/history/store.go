// Package history persists the record of completed downloads as a single
// JSON file holding an ordered array of entries. The file is rewritten in
// full on every mutation; absence of the file is an empty history, not an
// error.
package history

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rmartinelli/ytgrab/internal/domain"
	"github.com/rmartinelli/ytgrab/internal/logger"
	"github.com/rmartinelli/ytgrab/internal/storage"
)

type Store struct {
	mu      sync.Mutex
	path    string
	entries []domain.HistoryEntry
	log     *logger.Logger
}

func NewStore(path string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Default()
	}
	return &Store{
		path: path,
		log:  log.WithComponent("history"),
	}
}

// Load reads the persisted collection. A missing file yields an empty
// history; a malformed file is logged and treated as empty. Load never fails
// outward.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("Failed to read history file", "path", s.path, "error", err)
		}
		s.entries = nil
		return
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warn("Malformed history file, starting empty", "path", s.path, "error", err)
		s.entries = nil
		return
	}
	s.entries = entries
}

// persist serializes the whole collection and replaces the file atomically.
// Write failures are logged and swallowed; callers cannot distinguish a
// failed save from a successful one.
func (s *Store) persist() {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		s.log.Error("Failed to encode history", "error", err)
		return
	}
	if err := storage.WriteFileAtomic(s.path, data); err != nil {
		s.log.Error("Failed to save history", "path", s.path, "error", err)
	}
}

// Append adds an entry for a completed download and rewrites the file.
func (s *Store) Append(entry domain.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	s.persist()
}

// Remove drops every entry matching the filename and rewrites the file. It
// reports whether anything was removed.
func (s *Store) Remove(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	removed := false
	for _, entry := range s.entries {
		if entry.Filename == filename {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	if !removed {
		return false
	}
	s.entries = kept
	s.persist()
	return true
}

// FindByFilename returns the first entry with a matching filename.
func (s *Store) FindByFilename(filename string) (domain.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.Filename == filename {
			return entry, true
		}
	}
	return domain.HistoryEntry{}, false
}

// FindByURL returns the first entry with a matching source URL.
func (s *Store) FindByURL(url string) (domain.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.URL == url {
			return entry, true
		}
	}
	return domain.HistoryEntry{}, false
}

// Entries returns a copy of the collection, oldest first.
func (s *Store) Entries() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
