// Package config resolves, parses, validates, and defaults murmur configuration.
package config

import "time"

// Config is the fully materialized runtime configuration used by murmur.
type Config struct {
	Hotkey      string
	Audio       AudioConfig
	Recording   RecordingConfig
	Engine      EngineConfig
	Clipboard   CommandConfig
	Notify      NotifyConfig
	Debug       DebugConfig
	StatusReset time.Duration
}

// AudioConfig controls capture backend, device selection, and test mode.
type AudioConfig struct {
	Backend      string
	Device       string
	SampleRate   int
	TestDuration time.Duration
}

// RecordingConfig controls pre-transcription validation thresholds.
type RecordingConfig struct {
	MinDuration      time.Duration
	SilenceThreshold float64
}

// EngineConfig controls whisper model resolution and language hints.
type EngineConfig struct {
	Model    string
	ModelDir string
	Language string
	Threads  int
}

// CommandConfig stores a raw command string and its parsed argv form.
// An empty Raw means the built-in library path is used instead of a
// subprocess.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// NotifyConfig controls desktop notifications and audio cues.
type NotifyConfig struct {
	Enable bool
	Sound  bool
}

// DebugConfig controls optional debug artifact output.
type DebugConfig struct {
	AudioDump bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Message string
}
