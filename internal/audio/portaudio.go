package audio

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// framesPerBuffer is the blocking-read granularity: 32ms at 16kHz.
const framesPerBuffer = 512

// portAudioOpener is the default capture backend. It uses the blocking
// stream API with a reader goroutine; the callback API would invoke Go code
// from a C thread.
type portAudioOpener struct{}

func (o *portAudioOpener) Name() string { return "portaudio" }

func (o *portAudioOpener) Devices(_ context.Context) ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	defer func() { _ = portaudio.Terminate() }()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("portaudio devices: %w", err)
	}
	defaultInput, _ := portaudio.DefaultInputDevice()

	devices := make([]Device, 0, len(infos))
	for i, info := range infos {
		if info == nil || info.MaxInputChannels <= 0 {
			continue
		}
		devices = append(devices, Device{
			ID:         strconv.Itoa(i),
			Name:       info.Name,
			Channels:   info.MaxInputChannels,
			SampleRate: int(info.DefaultSampleRate),
			Default:    defaultInput != nil && info.Name == defaultInput.Name,
		})
	}
	return devices, nil
}

func (o *portAudioOpener) Open(_ context.Context, cfg StreamConfig) (Stream, error) {
	if cfg.OnFrame == nil {
		return nil, errors.New("audio: OnFrame must not be nil")
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}

	input, err := findPortAudioInput(cfg.Device)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, err
	}

	buf := make([]float32, framesPerBuffer)
	params := portaudio.LowLatencyParameters(input, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(cfg.SampleRate)
	params.FramesPerBuffer = framesPerBuffer

	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio start stream: %w", err)
	}

	s := &portAudioStream{
		device: cfg.Device,
		stream: stream,
		stopCh: make(chan struct{}),
	}
	s.reader.Add(1)
	go s.readLoop(buf, cfg.OnFrame)
	return s, nil
}

// findPortAudioInput resolves the requested device against the live list,
// falling back to the default input when it is gone.
func findPortAudioInput(want Device) (*portaudio.DeviceInfo, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("portaudio devices: %w", err)
	}
	for i, info := range infos {
		if info == nil || info.MaxInputChannels <= 0 {
			continue
		}
		if want.ID != "" && want.ID == strconv.Itoa(i) {
			return info, nil
		}
		if want.Name != "" && info.Name == want.Name {
			return info, nil
		}
	}

	defaultInput, err := portaudio.DefaultInputDevice()
	if err != nil || defaultInput == nil {
		return nil, errors.New("no usable portaudio input device")
	}
	return defaultInput, nil
}

// portAudioStream drives one blocking-read capture loop.
type portAudioStream struct {
	device Device
	stream *portaudio.Stream

	mu     sync.Mutex
	closed bool
	stopCh chan struct{}
	reader sync.WaitGroup
}

func (s *portAudioStream) Device() Device {
	return s.device
}

// readLoop blocks on stream.Read and hands the shared buffer to onFrame.
// The buffer is rewritten on each Read, matching the OnFrame reuse contract.
func (s *portAudioStream) readLoop(buf []float32, onFrame OnFrame) {
	defer s.reader.Done()
	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		if err := s.stream.Read(); err != nil {
			return
		}

		select {
		case <-s.stopCh:
			return
		default:
		}

		if !onFrame(buf) {
			return
		}
	}
}

// Close stops the stream, waits for the reader goroutine, and releases the
// portaudio handle. Safe to call more than once.
func (s *portAudioStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.stopCh)
	s.mu.Unlock()

	// Stop unblocks a reader parked in stream.Read.
	stopErr := s.stream.Stop()
	s.reader.Wait()
	closeErr := s.stream.Close()
	_ = portaudio.Terminate()

	if stopErr != nil {
		return fmt.Errorf("portaudio stop stream: %w", stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("portaudio close stream: %w", closeErr)
	}
	return nil
}
