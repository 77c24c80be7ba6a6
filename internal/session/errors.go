package session

import "errors"

// Validation and pipeline failure kinds. Every session fault is recovered
// locally and surfaced through the event sink; none of these ever crash the
// process.
var (
	// ErrEmptyRecording indicates the capture produced no samples at all.
	ErrEmptyRecording = errors.New("no audio recorded")
	// ErrTooShort indicates the recording ended before the configured minimum.
	ErrTooShort = errors.New("recording too short")
	// ErrSilence indicates every captured sample sat below the silence
	// threshold, so the engine call is skipped.
	ErrSilence = errors.New("no audio detected")
	// ErrNoSpeech indicates the engine returned only whitespace for an
	// otherwise valid recording. Distinct from ErrSilence, which is an
	// amplitude pre-check.
	ErrNoSpeech = errors.New("no speech detected")
	// ErrNoEngine indicates no transcription engine was wired in.
	ErrNoEngine = errors.New("transcription engine not configured")
)

// Outcome labels used on the structured session log record.
const (
	outcomeSuccess        = "success"
	outcomeEmptyRecording = "empty_recording"
	outcomeTooShort       = "too_short"
	outcomeSilence        = "silence"
	outcomeNoSpeech       = "no_speech"
	outcomeEngineFailure  = "engine_failure"
)
