package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/neurogrowth/internal/models"
)

type Store struct {
	Version int                  `json:"version"`
	State   map[string]string    `json:"state"`
	Chat    []models.ChatMessage `json:"chat"`
	NextID  int64                `json:"next_id"`
}

// JSONStore keeps the local state in a single JSON file. It is selected for
// config paths ending in .json.
type JSONStore struct {
	path  string
	mu    sync.Mutex
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.loadLocked()
	}

	s.store = &Store{
		Version: 1,
		State:   make(map[string]string),
		NextID:  1,
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *JSONStore) loadLocked() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'neurogrowth init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if s.store.State == nil {
		s.store.State = make(map[string]string)
	}
	if s.store.NextID < 1 {
		s.store.NextID = 1
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return "", fmt.Errorf("storage not loaded")
	}
	v, ok := s.store.State[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *JSONStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.State[key] = value
	return s.save()
}

func (s *JSONStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, ok := s.store.State[key]; !ok {
		return nil
	}
	delete(s.store.State, key)
	return s.save()
}

func (s *JSONStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	keys := make([]string, 0, len(s.store.State))
	for k := range s.store.State {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) AppendChatMessage(msg models.ChatMessage) (models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return models.ChatMessage{}, fmt.Errorf("storage not loaded")
	}
	msg.ID = s.store.NextID
	if msg.CreatedAt == "" {
		msg.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	s.store.NextID++
	s.store.Chat = append(s.store.Chat, msg)
	return msg, s.save()
}

// GetChatHistory returns the newest limit messages for a student in chronological order.
// A non-positive limit returns the whole transcript.
func (s *JSONStore) GetChatHistory(studentID, limit int) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	var out []models.ChatMessage
	for _, m := range s.store.Chat {
		if m.StudentID == studentID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *JSONStore) ClearChatHistory(studentID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	kept := s.store.Chat[:0]
	for _, m := range s.store.Chat {
		if m.StudentID != studentID {
			kept = append(kept, m)
		}
	}
	s.store.Chat = kept
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
