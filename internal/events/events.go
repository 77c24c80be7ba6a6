// Package events defines the sink contract between the session core and
// whatever surface renders it (terminal, notifications, test harness).
package events

// Severity classifies a status line for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityActive  Severity = "active"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Category classifies an appended log line.
type Category string

const (
	CategoryNote       Category = "note"
	CategoryTranscript Category = "transcript"
	CategoryDevice     Category = "device"
	CategoryError      Category = "error"
)

// LevelReset is the audio level value that clears the meter display.
const LevelReset float64 = -1

// Sink receives session events. Implementations must not block the caller;
// AudioLevel arrives at audio-block cadence while a test session is live.
// Per-kind ordering is preserved by callers; no cross-kind ordering is
// guaranteed.
type Sink interface {
	StatusChanged(text string, severity Severity)
	LogAppended(text string, category Category)
	AudioLevel(level float64)
}

// Multi fans every event out to each sink in order.
type Multi []Sink

func (m Multi) StatusChanged(text string, severity Severity) {
	for _, sink := range m {
		sink.StatusChanged(text, severity)
	}
}

func (m Multi) LogAppended(text string, category Category) {
	for _, sink := range m {
		sink.LogAppended(text, category)
	}
}

func (m Multi) AudioLevel(level float64) {
	for _, sink := range m {
		sink.AudioLevel(level)
	}
}

// Noop discards all events. Used when no sink is injected.
type Noop struct{}

func (Noop) StatusChanged(string, Severity) {}

func (Noop) LogAppended(string, Category) {}

func (Noop) AudioLevel(float64) {}
