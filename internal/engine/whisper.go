// Package engine adapts the whisper.cpp bindings: model resolution and
// caching, language hints, and blocking transcription of PCM samples.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"murmur/internal/config"
)

// Engine loads ggml whisper models on demand and serves transcription
// requests. Loaded models stay cached until Close.
type Engine struct {
	logger  *slog.Logger
	dir     string
	threads int

	mu     sync.Mutex
	models map[string]whisper.Model
}

// New resolves the model directory and returns an engine ready to load
// weights. No model is loaded until the first transcription asks for it.
func New(logger *slog.Logger, cfg config.EngineConfig) (*Engine, error) {
	dir, err := resolveModelDir(cfg.ModelDir)
	if err != nil {
		return nil, err
	}
	return &Engine{
		logger:  logger,
		dir:     dir,
		threads: cfg.Threads,
		models:  make(map[string]whisper.Model),
	}, nil
}

// ModelDir returns the resolved weights directory.
func (e *Engine) ModelDir() string {
	return e.dir
}

// Transcribe runs one blocking transcription over mono float32 samples.
// The context is checked before the model call; the call itself is not
// interruptible.
func (e *Engine) Transcribe(ctx context.Context, samples []float32, sampleRate int, language, model string) (string, error) {
	if len(samples) == 0 {
		return "", errors.New("no samples to transcribe")
	}
	if sampleRate != whisper.SampleRate {
		return "", fmt.Errorf("whisper expects %d Hz input, got %d Hz", whisper.SampleRate, sampleRate)
	}

	code, err := LanguageCode(language)
	if err != nil {
		return "", err
	}

	loaded, err := e.load(model)
	if err != nil {
		return "", err
	}

	wctx, err := loaded.NewContext()
	if err != nil {
		return "", fmt.Errorf("create whisper context: %w", err)
	}
	if loaded.IsMultilingual() {
		if err := wctx.SetLanguage(code); err != nil {
			return "", fmt.Errorf("set language %q: %w", code, err)
		}
	}
	if e.threads > 0 {
		wctx.SetThreads(uint(e.threads))
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whisper process: %w", err)
	}

	var segments []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read segment: %w", err)
		}
		segments = append(segments, segment.Text)
	}

	return strings.TrimSpace(strings.Join(segments, " ")), nil
}

// load returns the cached model or loads its weights from disk.
func (e *Engine) load(id string) (whisper.Model, error) {
	if !ValidModel(id) {
		return nil, fmt.Errorf("unknown model %q", id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if loaded, ok := e.models[id]; ok {
		return loaded, nil
	}

	path := ModelPath(e.dir, id)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model weights not found at %q (download ggml weights into the model directory): %w", path, err)
	}

	e.logInfo("loading whisper model", "model", id, "path", path)
	loaded, err := whisper.New(path)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", path, err)
	}
	e.models[id] = loaded
	e.logInfo("whisper model ready", "model", id)
	return loaded, nil
}

// logInfo emits info-level logs when a logger is configured.
func (e *Engine) logInfo(message string, args ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Info(message, args...)
}

// Close releases every cached model.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var firstErr error
	for id, loaded := range e.models {
		if err := loaded.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(e.models, id)
	}
	return firstErr
}

// resolveModelDir applies config/XDG/home fallback rules for the weights dir.
func resolveModelDir(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}

	if xdg := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdg != "" {
		return filepath.Join(xdg, "murmur", "models"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for model directory")
	}
	return filepath.Join(home, ".local", "share", "murmur", "models"), nil
}
