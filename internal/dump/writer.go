// Package dump writes debug WAV snapshots of validated recordings.
package dump

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"murmur/internal/logging"
)

// Writer persists recordings as 16-bit PCM WAV files in the state directory.
// Dump failures are logged and never interrupt a session.
type Writer struct {
	logger *slog.Logger
}

// NewWriter constructs a dump writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// Dump writes samples as dump-<id>.wav. Errors are logged, not returned.
func (w *Writer) Dump(id string, samples []float32, sampleRate int) {
	path, err := w.write(id, samples, sampleRate)
	if err != nil {
		w.logWarn(fmt.Sprintf("unable to write audio dump: %v", err))
		return
	}
	w.logInfo("wrote audio dump", "path", path)
}

func (w *Writer) write(id string, samples []float32, sampleRate int) (string, error) {
	if len(samples) == 0 {
		return "", errors.New("no samples to dump")
	}

	dir, err := logging.StateDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "dump-"+id+".wav")

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("open dump file %q: %w", path, err)
	}

	encoder := wav.NewEncoder(file, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, sample := range samples {
		buf.Data[i] = pcm16(sample)
	}

	if err := encoder.Write(buf); err != nil {
		_ = encoder.Close()
		_ = file.Close()
		return "", fmt.Errorf("encode wav: %w", err)
	}
	if err := encoder.Close(); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("finalize wav: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close dump file: %w", err)
	}
	return path, nil
}

// pcm16 scales a float sample to s16 range, clamping out-of-range input.
func pcm16(sample float32) int {
	scaled := int(sample * 32767)
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return scaled
}

// logWarn emits warning-level logs when a logger is configured.
func (w *Writer) logWarn(message string) {
	if w.logger == nil {
		return
	}
	w.logger.Warn(message)
}

// logInfo emits info-level logs when a logger is configured.
func (w *Writer) logInfo(message string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Info(message, args...)
}
