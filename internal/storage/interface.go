package storage

import (
	"errors"

	"github.com/julianstephens/neurogrowth/internal/models"
)

// ErrNotFound is returned by Get when the key has no value
var ErrNotFound = errors.New("key not found")

// Provider is the durable local state store. It holds the session keys and the
// assistant transcript; everything else lives on the backend.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key/value state
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)

	// Assistant transcript
	AppendChatMessage(models.ChatMessage) (models.ChatMessage, error)
	GetChatHistory(studentID, limit int) ([]models.ChatMessage, error)
	ClearChatHistory(studentID int) error

	// Utils
	GetConfigPath() string
}
