package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"murmur/internal/audio"
	"murmur/internal/buffer"
	"murmur/internal/events"
)

// request carries everything one pipeline run needs, snapshotted when the
// recording stops so later selection changes cannot affect it.
type request struct {
	id         string
	rec        *buffer.SampleBuffer
	sampleRate int
	model      string
	language   string
}

// outcome describes how one pipeline run ended.
type outcome struct {
	kind     string
	text     string
	duration time.Duration
	samples  int
	latency  time.Duration
	err      error
}

// runPipeline validates and transcribes one stopped recording on its own
// goroutine. Every exit path emits exactly one terminal status event, writes
// one session log record, and returns the controller to Idle.
func (c *Controller) runPipeline(req request) {
	defer c.pipelines.Done()
	defer c.finishPipeline()

	out := c.transcribeRecording(req)
	c.logSession(req, out)
}

// transcribeRecording drains the captured samples, walks the validation
// chain, and calls the engine for recordings that pass. Validation rejects
// are ordinary outcomes, not failures; the session always ends with a status
// event telling the user what happened.
func (c *Controller) transcribeRecording(req request) outcome {
	samples := req.rec.Drain()
	if len(samples) == 0 {
		c.sink.StatusChanged("No audio recorded", events.SeverityError)
		return outcome{kind: outcomeEmptyRecording, err: ErrEmptyRecording}
	}

	duration := time.Duration(float64(len(samples)) / float64(req.sampleRate) * float64(time.Second))
	peak := audio.MaxAmplitude(samples)
	rms := audio.RMS(samples)
	c.sink.LogAppended(fmt.Sprintf("Audio stats - Duration: %.1fs, Max: %.3f, RMS: %.3f",
		duration.Seconds(), peak, rms), events.CategoryNote)

	out := outcome{duration: duration, samples: len(samples)}

	if duration < c.cfg.Recording.MinDuration {
		c.sink.StatusChanged("Recording too short", events.SeverityError)
		out.kind = outcomeTooShort
		out.err = ErrTooShort
		return out
	}
	if peak < c.cfg.Recording.SilenceThreshold {
		c.sink.StatusChanged("No audio detected - check microphone", events.SeverityError)
		c.sink.LogAppended("Try the 'murmur test' command to check your microphone levels.", events.CategoryNote)
		out.kind = outcomeSilence
		out.err = ErrSilence
		return out
	}

	if c.dumper != nil {
		c.dumper.Dump(req.id, samples, req.sampleRate)
	}

	started := time.Now()
	text, err := c.transcribe.Transcribe(context.Background(), samples, req.sampleRate, req.language, req.model)
	out.latency = time.Since(started)
	if err != nil {
		c.sink.StatusChanged(fmt.Sprintf("Error: %v", err), events.SeverityError)
		c.sink.LogAppended(stamped(fmt.Sprintf("Error: %v", err)), events.CategoryError)
		out.kind = outcomeEngineFailure
		out.err = err
		return out
	}

	text = strings.TrimSpace(text)
	if text == "" {
		c.sink.StatusChanged("No speech detected", events.SeverityWarning)
		c.sink.LogAppended(stamped("No speech detected"), events.CategoryNote)
		out.kind = outcomeNoSpeech
		out.err = ErrNoSpeech
		return out
	}

	if err := c.clipboard.Copy(context.Background(), text); err != nil {
		c.logWarn("clipboard copy failed", "error", err.Error())
	}
	c.sink.LogAppended(stamped(text), events.CategoryTranscript)
	c.sink.StatusChanged("Transcribed & copied to clipboard!", events.SeveritySuccess)

	out.kind = outcomeSuccess
	out.text = text
	return out
}

// logSession writes the one structured record each session leaves behind.
func (c *Controller) logSession(req request, out outcome) {
	if c.logger == nil {
		return
	}

	args := []any{
		"session", req.id,
		"outcome", out.kind,
		"model", req.model,
		"language", req.language,
		"duration_ms", out.duration.Milliseconds(),
		"samples", out.samples,
		"engine_ms", out.latency.Milliseconds(),
	}
	if out.err != nil {
		args = append(args, "error", out.err.Error())
		c.logger.Error("session failed", args...)
		return
	}
	args = append(args, "transcript_length", len(out.text))
	c.logger.Info("session complete", args...)
}

// stamped prefixes an activity log line with the wall-clock time.
func stamped(text string) string {
	return "[" + time.Now().Format("15:04:05") + "] " + text
}
