// Package notify surfaces terminal outcomes as desktop notifications so the
// daemon can run detached from the terminal that started it.
package notify

import (
	"log/slog"
	"sync"

	"github.com/gen2brain/beeep"

	"murmur/internal/events"
)

// sendNotification is swappable for tests; beeep talks to the desktop's
// notification service.
var sendNotification = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Sink forwards terminal status outcomes to the desktop. Intermediate
// statuses (listening, transcribing, meter activity) stay off the desktop;
// only success and error severities produce a notification. Delivery runs on
// its own goroutine so event dispatch never waits on the notification bus.
type Sink struct {
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewSink constructs a desktop notification sink.
func NewSink(logger *slog.Logger) *Sink {
	return &Sink{logger: logger}
}

func (s *Sink) StatusChanged(text string, severity events.Severity) {
	switch severity {
	case events.SeveritySuccess, events.SeverityError:
	default:
		return
	}
	if text == "" {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := sendNotification("murmur", text); err != nil && s.logger != nil {
			s.logger.Warn("desktop notification failed", "error", err.Error())
		}
	}()
}

func (s *Sink) LogAppended(string, events.Category) {}

func (s *Sink) AudioLevel(float64) {}

// Close waits for in-flight notifications to finish.
func (s *Sink) Close() {
	s.wg.Wait()
}
