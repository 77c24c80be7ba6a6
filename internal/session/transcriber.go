package session

import "context"

// Transcriber is the speech-to-text collaborator: one blocking call that
// converts mono float32 samples in [-1, 1] to text. The controller never
// invokes it while holding its state lock.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int, language, model string) (string, error)
}

// TranscribeFunc adapts a function to the Transcriber interface.
type TranscribeFunc func(ctx context.Context, samples []float32, sampleRate int, language, model string) (string, error)

func (f TranscribeFunc) Transcribe(ctx context.Context, samples []float32, sampleRate int, language, model string) (string, error) {
	return f(ctx, samples, sampleRate, language, model)
}

// placeholderTranscriber preserves pipeline flow when no engine is wired.
type placeholderTranscriber struct{}

func (placeholderTranscriber) Transcribe(context.Context, []float32, int, string, string) (string, error) {
	return "", ErrNoEngine
}

// Clipboard publishes transcript text. Copy is fire-and-forget from the
// session's point of view: failures are logged, never fatal.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// CopyFunc adapts a function to the Clipboard interface.
type CopyFunc func(ctx context.Context, text string) error

func (f CopyFunc) Copy(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Dumper persists a validated recording as a debug artifact. Implementations
// handle their own failures; the pipeline does not check them.
type Dumper interface {
	Dump(id string, samples []float32, sampleRate int)
}
