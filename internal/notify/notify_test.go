package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"murmur/internal/events"
)

type notificationLog struct {
	mu   sync.Mutex
	sent []string
}

func (l *notificationLog) add(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = append(l.sent, message)
}

func (l *notificationLog) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.sent...)
}

func captureNotifications(t *testing.T) *notificationLog {
	t.Helper()

	original := sendNotification
	t.Cleanup(func() { sendNotification = original })

	log := &notificationLog{}
	sendNotification = func(title, message string) error {
		require.Equal(t, "murmur", title)
		log.add(message)
		return nil
	}
	return log
}

func TestSinkNotifiesOnlyTerminalOutcomes(t *testing.T) {
	log := captureNotifications(t)
	sink := NewSink(nil)

	sink.StatusChanged("Listening...", events.SeverityActive)
	sink.StatusChanged("Transcribing...", events.SeverityWarning)
	sink.StatusChanged("Ready", events.SeverityInfo)
	sink.StatusChanged("Transcribed & copied to clipboard!", events.SeveritySuccess)
	sink.StatusChanged("Error: engine exploded", events.SeverityError)
	sink.StatusChanged("", events.SeveritySuccess)
	sink.Close()

	require.ElementsMatch(t, []string{
		"Transcribed & copied to clipboard!",
		"Error: engine exploded",
	}, log.messages())
}

func TestSinkIgnoresLogAndLevelEvents(t *testing.T) {
	log := captureNotifications(t)
	sink := NewSink(nil)

	sink.LogAppended("some log line", events.CategoryNote)
	sink.AudioLevel(3.5)
	sink.AudioLevel(events.LevelReset)
	sink.Close()

	require.Empty(t, log.messages())
}

func TestSinkSurvivesNotifierFailure(t *testing.T) {
	original := sendNotification
	t.Cleanup(func() { sendNotification = original })
	sendNotification = func(string, string) error {
		return errors.New("no notification daemon")
	}

	sink := NewSink(nil)
	sink.StatusChanged("Transcribed & copied to clipboard!", events.SeveritySuccess)
	sink.Close()
}
