// Package session implements the audio session controller: the state machine
// that arbitrates between the mutually-exclusive level-test and recording
// capture modes, owns the live stream, and hands stopped recordings to the
// transcription pipeline.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"murmur/internal/audio"
	"murmur/internal/buffer"
	"murmur/internal/config"
	"murmur/internal/events"
	"murmur/internal/fsm"
)

// Controller owns at most one live capture stream and linearizes every state
// transition through a single mutex. The mutex is held for state
// check-and-set and stream start/stop only, never across the blocking engine
// call, which runs on a pipeline goroutine spawned per stopped recording.
type Controller struct {
	logger     *slog.Logger
	cfg        config.Config
	opener     audio.Opener
	transcribe Transcriber
	clipboard  Clipboard
	dumper     Dumper
	sink       events.Sink
	selection  *Selection

	// generation identifies the capture session currently allowed to
	// deliver frames. It is bumped at every session boundary; capture
	// callbacks compare it against the token they were created with and
	// tell the stream to stop delivering when stale.
	generation atomic.Uint64

	mu         sync.Mutex
	state      fsm.State
	stream     audio.Stream
	rec        *buffer.SampleBuffer
	sessionID  string
	testTimer  *time.Timer
	resetTimer *time.Timer
	closed     bool

	pipelines sync.WaitGroup
}

// NewController constructs the session controller with safe fallbacks for
// absent collaborators. A nil dumper disables debug dumps.
func NewController(
	logger *slog.Logger,
	cfg config.Config,
	opener audio.Opener,
	transcriber Transcriber,
	clipboard Clipboard,
	dumper Dumper,
	sink events.Sink,
) *Controller {
	if transcriber == nil {
		transcriber = placeholderTranscriber{}
	}
	if clipboard == nil {
		clipboard = CopyFunc(func(context.Context, string) error { return nil })
	}
	if sink == nil {
		sink = events.Noop{}
	}

	return &Controller{
		logger:     logger,
		cfg:        cfg,
		opener:     opener,
		transcribe: transcriber,
		clipboard:  clipboard,
		dumper:     dumper,
		sink:       sink,
		selection:  NewSelection(cfg),
		state:      fsm.StateIdle,
	}
}

// State returns the current state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Selection returns the shared device/model/language selection.
func (c *Controller) Selection() *Selection {
	return c.selection
}

// ToggleTest starts level metering from Idle and stops it from Testing.
// Any other state rejects the toggle with one informational status event
// and no stream side effects.
func (c *Controller) ToggleTest(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	switch c.state {
	case fsm.StateIdle:
		c.startTestLocked(ctx)
	case fsm.StateTesting:
		c.stopTestLocked("Audio test stopped", events.SeverityWarning)
	case fsm.StateListening:
		c.sink.StatusChanged("Stop recording first", events.SeverityWarning)
	default:
		c.sink.StatusChanged("Audio system busy", events.SeverityWarning)
	}
}

// ToggleRecording starts capture from Idle and stops-and-transcribes from
// Listening. Stopping blocks only long enough to close the stream; the
// engine call happens on the pipeline goroutine.
func (c *Controller) ToggleRecording(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	switch c.state {
	case fsm.StateIdle:
		c.startRecordingLocked(ctx)
	case fsm.StateListening:
		c.stopRecordingLocked()
	case fsm.StateTesting:
		c.sink.StatusChanged("Stop audio test first", events.SeverityWarning)
	default:
		c.sink.StatusChanged("Audio system busy", events.SeverityWarning)
	}
}

// Close aborts any active capture, cancels pending timers, and waits for an
// in-flight transcription pipeline to finish. The controller must not be
// used afterwards.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.pipelines.Wait()
		return nil
	}
	c.closed = true

	c.generation.Add(1)
	c.closeStreamLocked()
	c.stopTimersLocked()
	c.rec = nil
	if c.state == fsm.StateTesting || c.state == fsm.StateListening {
		c.transitionLocked(fsm.EventAbort)
	}
	c.mu.Unlock()

	c.pipelines.Wait()
	return nil
}

// startTestLocked opens the metering stream. The callback computes one level
// value per block and never buffers audio.
func (c *Controller) startTestLocked(ctx context.Context) {
	gen := c.generation.Add(1)

	stream, err := c.openStreamLocked(ctx, func(frame []float32) bool {
		if c.generation.Load() != gen {
			return false
		}
		c.sink.AudioLevel(audio.Level(frame))
		return true
	})
	if err != nil {
		text := fmt.Sprintf("Audio test failed: %v", err)
		c.sink.StatusChanged(text, events.SeverityError)
		c.sink.LogAppended(text, events.CategoryError)
		c.logError("audio test failed", "error", err.Error())
		c.scheduleStatusResetLocked()
		return
	}

	c.stream = stream
	c.transitionLocked(fsm.EventStartTest)
	c.testTimer = time.AfterFunc(c.cfg.Audio.TestDuration, func() {
		c.completeTest(gen)
	})

	c.sink.StatusChanged("Testing audio input...", events.SeverityWarning)
	c.logInfo("audio test started", "device", stream.Device().Name)
}

// stopTestLocked tears the metering stream down and resets the level meter.
func (c *Controller) stopTestLocked(text string, severity events.Severity) {
	c.generation.Add(1)
	c.closeStreamLocked()
	c.stopTimersLocked()
	c.transitionLocked(fsm.EventStopTest)

	c.sink.AudioLevel(events.LevelReset)
	c.sink.StatusChanged(text, severity)
	c.scheduleStatusResetLocked()
	c.logInfo("audio test stopped", "status", text)
}

// completeTest ends a test session once the configured duration elapses.
// A manual stop or a newer session makes the timer's token stale.
func (c *Controller) completeTest(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != fsm.StateTesting || c.generation.Load() != gen {
		return
	}
	c.stopTestLocked("Audio test complete", events.SeveritySuccess)
}

// startRecordingLocked opens the capture stream and arms a fresh sample
// buffer. The callback copies each frame into the buffer of exactly this
// session; a stale callback sees a newer generation and aborts instead.
func (c *Controller) startRecordingLocked(ctx context.Context) {
	gen := c.generation.Add(1)
	rec := buffer.New()

	stream, err := c.openStreamLocked(ctx, func(frame []float32) bool {
		if c.generation.Load() != gen {
			return false
		}
		rec.Append(frame)
		return true
	})
	if err != nil {
		text := fmt.Sprintf("Failed to start recording: %v", err)
		c.sink.StatusChanged(text, events.SeverityError)
		c.sink.LogAppended(text, events.CategoryError)
		c.logError("start recording failed", "error", err.Error())
		c.scheduleStatusResetLocked()
		return
	}

	c.stream = stream
	c.rec = rec
	c.sessionID = uuid.NewString()
	c.transitionLocked(fsm.EventStartRecording)

	c.sink.StatusChanged("Listening...", events.SeverityActive)
	c.sink.LogAppended(stamped("Recording started with: "+stream.Device().Name), events.CategoryDevice)
	c.logInfo("recording started", "session", c.sessionID, "device", stream.Device().Name)
}

// stopRecordingLocked closes the stream synchronously, snapshots the
// selection, and hands the buffer to a pipeline goroutine. The buffer field
// is cleared immediately so the controller is free to start a new session.
func (c *Controller) stopRecordingLocked() {
	c.generation.Add(1)
	c.closeStreamLocked()
	c.stopTimersLocked()

	rec := c.rec
	c.rec = nil
	c.transitionLocked(fsm.EventStopRecording)
	c.sink.StatusChanged("Transcribing...", events.SeverityWarning)

	req := request{
		id:         c.sessionID,
		rec:        rec,
		sampleRate: c.cfg.Audio.SampleRate,
		model:      c.selection.Model(),
		language:   c.selection.Language(),
	}
	c.pipelines.Add(1)
	go c.runPipeline(req)
}

// openStreamLocked resolves the selected device against the live list and
// opens a capture stream on it. An unknown selection falls back to the
// default device with a warning rather than failing the session.
func (c *Controller) openStreamLocked(ctx context.Context, onFrame audio.OnFrame) (audio.Stream, error) {
	if c.opener == nil {
		return nil, errors.New("no audio backend configured")
	}

	devices, err := c.opener.Devices(ctx)
	if err != nil {
		return nil, err
	}
	device, warning, err := audio.Resolve(devices, c.selection.Device())
	if err != nil {
		return nil, err
	}
	if warning != "" {
		c.sink.LogAppended(warning, events.CategoryNote)
		c.logWarn("device selection fallback", "warning", warning)
	}

	return c.opener.Open(ctx, audio.StreamConfig{
		Device:     device,
		SampleRate: c.cfg.Audio.SampleRate,
		OnFrame:    onFrame,
	})
}

// closeStreamLocked tears down the active stream. Idempotent; close errors
// are logged, not propagated, because teardown must always leave the state
// consistent.
func (c *Controller) closeStreamLocked() {
	if c.stream == nil {
		return
	}
	if err := c.stream.Close(); err != nil {
		c.logWarn("close capture stream", "error", err.Error())
	}
	c.stream = nil
}

// transitionLocked applies one FSM event. Callers dispatch on the current
// state first, so a rejection here indicates a controller bug; it is logged
// and the state left untouched.
func (c *Controller) transitionLocked(event fsm.Event) {
	next, err := fsm.Transition(c.state, event)
	if err != nil {
		c.logWarn("state transition rejected", "error", err.Error())
		return
	}
	c.state = next
}

// finishPipeline returns the controller to Idle exactly once per pipeline
// run, after the terminal event has been emitted.
func (c *Controller) finishPipeline() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitionLocked(fsm.EventFinish)
	if !c.closed {
		c.scheduleStatusResetLocked()
	}
}

// scheduleStatusResetLocked arms the cosmetic return-to-Idle status event.
// The event fires only if no newer session has started in the meantime and
// the controller is still idle.
func (c *Controller) scheduleStatusResetLocked() {
	gen := c.generation.Load()
	if c.resetTimer != nil {
		c.resetTimer.Stop()
	}

	delay := c.cfg.StatusReset
	if delay < 0 {
		delay = 0
	}
	c.resetTimer = time.AfterFunc(delay, func() {
		if c.generation.Load() != gen {
			return
		}
		c.mu.Lock()
		idle := c.state == fsm.StateIdle && !c.closed
		c.mu.Unlock()
		if idle {
			c.sink.StatusChanged("Idle", events.SeverityInfo)
		}
	})
}

func (c *Controller) stopTimersLocked() {
	if c.testTimer != nil {
		c.testTimer.Stop()
		c.testTimer = nil
	}
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

// logInfo emits info-level logs when a logger is configured.
func (c *Controller) logInfo(message string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Info(message, args...)
}

// logWarn emits warning-level logs when a logger is configured.
func (c *Controller) logWarn(message string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(message, args...)
}

// logError emits error-level logs when a logger is configured.
func (c *Controller) logError(message string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Error(message, args...)
}
