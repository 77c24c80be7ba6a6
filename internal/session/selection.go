package session

import (
	"sync"

	"murmur/internal/config"
)

// Selection holds the device, model, and language preferences shared between
// the command surface and the controller. The controller reads the device
// when a session starts and the model and language when recording stops, so
// a change made mid-session only affects the next session.
type Selection struct {
	mu       sync.RWMutex
	device   string
	model    string
	language string
}

// NewSelection seeds the runtime selection from configuration.
func NewSelection(cfg config.Config) *Selection {
	return &Selection{
		device:   cfg.Audio.Device,
		model:    cfg.Engine.Model,
		language: cfg.Engine.Language,
	}
}

// Device returns the preferred capture device name or id. Empty means the
// system default.
func (s *Selection) Device() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.device
}

// Model returns the selected transcription model identifier.
func (s *Selection) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Language returns the selected language display name or code.
func (s *Selection) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetDevice updates the preferred capture device. The value is matched
// against live devices at the next session start.
func (s *Selection) SetDevice(device string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device = device
}

// SetModel updates the selected model. Callers validate the identifier
// against the engine catalog before setting it.
func (s *Selection) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// SetLanguage updates the selected language. Callers validate the name
// against the engine catalog before setting it.
func (s *Selection) SetLanguage(language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = language
}
