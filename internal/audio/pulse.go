package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// pulseOpener captures through a PulseAudio (or pipewire-pulse) server.
type pulseOpener struct{}

func (o *pulseOpener) Name() string { return "pulse" }

func (o *pulseOpener) Devices(_ context.Context) ([]Device, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("murmur"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	defaultSource, err := client.DefaultSource()
	if err != nil {
		return nil, fmt.Errorf("read default source: %w", err)
	}
	defaultID := defaultSource.ID()

	var sourceInfos pulseproto.GetSourceInfoListReply
	if err := client.RawRequest(&pulseproto.GetSourceInfoList{}, &sourceInfos); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	devices := make([]Device, 0, len(sourceInfos))
	for _, source := range sourceInfos {
		if source == nil {
			continue
		}
		name := source.Device
		if strings.TrimSpace(name) == "" {
			name = source.SourceName
		}
		devices = append(devices, Device{
			ID:         source.SourceName,
			Name:       name,
			Channels:   int(source.SampleSpec.Channels),
			SampleRate: int(source.SampleSpec.Rate),
			Default:    source.SourceName == defaultID,
		})
	}
	return devices, nil
}

func (o *pulseOpener) Open(_ context.Context, cfg StreamConfig) (Stream, error) {
	if cfg.OnFrame == nil {
		return nil, errors.New("audio: OnFrame must not be nil")
	}
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("murmur"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}

	source, err := client.SourceByID(cfg.Device.ID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve source %q: %w", cfg.Device.ID, err)
	}

	s := &pulseStream{
		device:    cfg.Device,
		client:    client,
		onFrame:   cfg.OnFrame,
		frameSize: cfg.SampleRate / 50, // 20ms frames
	}
	s.frame = make([]float32, 0, s.frameSize)

	writer := pulse.NewWriter(writerFunc(s.onPCM), pulseproto.FormatInt16LE)
	stream, err := client.NewRecord(
		writer,
		pulse.RecordSource(source),
		pulse.RecordMono,
		pulse.RecordSampleRate(cfg.SampleRate),
		pulse.RecordBufferFragmentSize(uint32(s.frameSize*2)),
		pulse.RecordMediaName("murmur dictation"),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create pulse record stream: %w", err)
	}

	s.stream = stream
	stream.Start()
	return s, nil
}

// pulseStream assembles the server's s16 byte stream into fixed 20ms float32
// frames and hands them to the consumer callback.
type pulseStream struct {
	device Device
	client *pulse.Client
	stream *pulse.RecordStream

	onFrame   OnFrame
	frameSize int
	frame     []float32 // partially filled frame, reused across onPCM calls

	mu       sync.Mutex
	stopped  bool
	closed   bool
	inflight sync.WaitGroup
}

func (s *pulseStream) Device() Device {
	return s.device
}

// onPCM receives raw bytes on the record stream's goroutine. It returns
// io.EOF once the stream is stopped so the library halts delivery.
func (s *pulseStream) onPCM(buffer []byte) (int, error) {
	if len(buffer) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return 0, io.EOF
	}
	// Guard Add under the same mutex as s.stopped to avoid Add/Wait races.
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	samples := decodePCM16(buffer)
	for len(samples) > 0 {
		take := s.frameSize - len(s.frame)
		if take > len(samples) {
			take = len(samples)
		}
		s.frame = append(s.frame, samples[:take]...)
		samples = samples[take:]

		if len(s.frame) < s.frameSize {
			break
		}

		keep := s.onFrame(s.frame)
		s.frame = s.frame[:0]
		if !keep {
			s.mu.Lock()
			s.stopped = true
			s.mu.Unlock()
			return 0, io.EOF
		}
	}

	return len(buffer), nil
}

// Close stops the record stream and returns after any in-flight callback has
// finished. Safe to call more than once.
func (s *pulseStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopped = true
	s.mu.Unlock()

	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
	}
	if s.client != nil {
		s.client.Close()
	}

	s.inflight.Wait()
	return nil
}

// decodePCM16 converts little-endian s16 bytes to float32 samples in [-1, 1).
func decodePCM16(buffer []byte) []float32 {
	samples := make([]float32, len(buffer)/2)
	for i := range samples {
		raw := int16(binary.LittleEndian.Uint16(buffer[2*i:]))
		samples[i] = float32(raw) / 32768
	}
	return samples
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
