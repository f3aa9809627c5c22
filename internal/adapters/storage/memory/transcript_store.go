package memory

import (
	"slices"
	"sync"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// TranscriptStore keeps one append-only transcript per session. Entries are
// never mutated or removed once appended.
type TranscriptStore struct {
	mu          sync.RWMutex
	transcripts map[domain.SessionID]domain.Transcript
}

func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{
		transcripts: make(map[domain.SessionID]domain.Transcript),
	}
}

func (s *TranscriptStore) AppendEntry(sessionID domain.SessionID, entry domain.TranscriptEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcripts[sessionID] = append(s.transcripts[sessionID], entry)
	return nil
}

// Transcript returns a snapshot; appending to it does not affect the store.
func (s *TranscriptStore) Transcript(sessionID domain.SessionID) (domain.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.transcripts[sessionID]), nil
}
