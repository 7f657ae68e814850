// Package filestate tracks how far the ingest tailer has read into each
// rotating log file, so a restart resumes instead of re-ingesting.
package filestate

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
)

// Offsets maps a log file path to the byte offset already ingested.
type Offsets map[string]int64

type Manager interface {
	Load() (Offsets, error)
	Save(offsets Offsets) error
	Path() string
}

type manager struct {
	filePath string
	mu       sync.RWMutex
}

func NewManager(filePath string) Manager {
	return &manager{filePath: filePath}
}

func (m *manager) Load() (Offsets, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("file", m.filePath).Msg("Offset state file not found, starting fresh")
			return make(Offsets), nil
		}
		log.Error().Err(err).Str("file", m.filePath).Msg("Failed to read offset state file")
		return nil, err
	}
	if len(data) == 0 {
		log.Warn().Str("file", m.filePath).Msg("Offset state file is empty, starting fresh")
		return make(Offsets), nil
	}

	var offsets Offsets
	if err := json.Unmarshal(data, &offsets); err != nil {
		log.Error().Err(err).Str("file", m.filePath).Msg("Failed to unmarshal offset state file")
		return nil, err
	}
	log.Debug().Str("file", m.filePath).Int("files_tracked", len(offsets)).Msg("Loaded tail offsets")
	return offsets, nil
}

func (m *manager) Save(offsets Offsets) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(offsets, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal tail offsets")
		return err
	}

	// Write-then-rename keeps the state file whole across crashes.
	tempPath := m.filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		log.Error().Err(err).Str("file", tempPath).Msg("Failed to write temporary offset state file")
		return err
	}
	if err := os.Rename(tempPath, m.filePath); err != nil {
		log.Error().Err(err).Str("from", tempPath).Str("to", m.filePath).Msg("Failed to rename offset state file")
		_ = os.Remove(tempPath)
		return err
	}
	log.Debug().Str("file", m.filePath).Int("files_tracked", len(offsets)).Msg("Saved tail offsets")
	return nil
}

func (m *manager) Path() string {
	return m.filePath
}
