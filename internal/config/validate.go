package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	backend := strings.ToLower(strings.TrimSpace(cfg.Audio.Backend))
	if backend == "" {
		return nil, fmt.Errorf("audio.backend must not be empty")
	}
	if backend != "portaudio" && backend != "pulse" {
		return nil, fmt.Errorf("audio.backend must be one of: portaudio, pulse")
	}
	if cfg.Audio.SampleRate <= 0 {
		return nil, fmt.Errorf("audio.sample_rate must be > 0")
	}
	if cfg.Audio.SampleRate != 16000 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("audio.sample_rate=%d differs from the 16000 Hz whisper models expect", cfg.Audio.SampleRate)})
	}
	if cfg.Audio.TestDuration <= 0 {
		return nil, fmt.Errorf("audio.test_duration_s must be > 0")
	}
	if cfg.Recording.MinDuration < 0 {
		return nil, fmt.Errorf("recording.min_duration_s must be >= 0")
	}
	if cfg.Recording.SilenceThreshold < 0 {
		return nil, fmt.Errorf("recording.silence_threshold must be >= 0")
	}
	if strings.TrimSpace(cfg.Engine.Model) == "" {
		return nil, fmt.Errorf("engine.model must not be empty")
	}
	if strings.TrimSpace(cfg.Engine.Language) == "" {
		return nil, fmt.Errorf("engine.language must not be empty")
	}
	if cfg.Engine.Threads < 0 {
		return nil, fmt.Errorf("engine.threads must be >= 0")
	}
	if cfg.Clipboard.Raw != "" && len(cfg.Clipboard.Argv) == 0 {
		return nil, fmt.Errorf("clipboard_cmd is configured but empty")
	}
	if cfg.StatusReset < 0 {
		return nil, fmt.Errorf("status_reset_ms must be >= 0")
	}

	return warnings, nil
}
