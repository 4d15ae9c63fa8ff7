package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"bookpet/internal/minigame"
	"bookpet/internal/pet"
)

type fileState struct {
	Pets      map[string]pet.Pet                   `json:"pets"`
	GameStats map[string]map[string]minigame.Stats `json:"game_stats"` // user -> game -> stats
}

// JSONStore keeps everything in one JSON file, rewritten atomically on
// every save (write tmp, then rename).
type JSONStore struct {
	filePath string
	mu       sync.RWMutex
	state    fileState
}

func NewJSONStore(filePath string) (*JSONStore, error) {
	s := &JSONStore{
		filePath: filePath,
		state: fileState{
			Pets:      make(map[string]pet.Pet),
			GameStats: make(map[string]map[string]minigame.Stats),
		},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) LoadPet(userID string) (pet.Pet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.Pets[userID]
	return p, ok, nil
}

func (s *JSONStore) SavePet(userID string, p pet.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Pets[userID] = p
	return s.persistLocked()
}

func (s *JSONStore) ListUserIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.state.Pets))
	for id := range s.state.Pets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *JSONStore) GetGameStats(userID, gameID string) (minigame.Stats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byGame, ok := s.state.GameStats[userID]
	if !ok {
		return minigame.Stats{}, false, nil
	}
	stats, ok := byGame[gameID]
	return stats, ok, nil
}

func (s *JSONStore) SaveGameStats(stats minigame.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byGame, ok := s.state.GameStats[stats.UserID]
	if !ok {
		byGame = make(map[string]minigame.Stats)
		s.state.GameStats[stats.UserID] = byGame
	}
	byGame[stats.GameID] = stats
	return s.persistLocked()
}

func (s *JSONStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		// A mangled state file must not keep the app from starting.
		// Set the bad file aside and begin from an empty state.
		log.Printf("store: state file %s is corrupt, starting fresh: %v", s.filePath, err)
		if renameErr := os.Rename(s.filePath, s.filePath+".corrupt"); renameErr != nil {
			log.Printf("store: keep corrupt state file aside: %v", renameErr)
		}
		return nil
	}
	if state.Pets == nil {
		state.Pets = make(map[string]pet.Pet)
	}
	if state.GameStats == nil {
		state.GameStats = make(map[string]map[string]minigame.Stats)
	}
	s.state = state
	return nil
}

func (s *JSONStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}
