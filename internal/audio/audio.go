// Package audio handles capture device discovery, selection, and PCM streams.
package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Device describes one capture source surfaced to murmur.
type Device struct {
	ID         string
	Name       string
	Channels   int
	SampleRate int
	Default    bool
}

// OnFrame receives each captured frame of mono float32 samples. The frame
// slice is reused between invocations; implementations must copy anything
// they keep. Returning false tells the stream to stop delivering frames.
type OnFrame func(frame []float32) bool

// StreamConfig carries everything a backend needs to open a capture stream.
type StreamConfig struct {
	Device     Device
	SampleRate int
	OnFrame    OnFrame
}

// Stream is one live capture session. Close is idempotent and returns only
// once no further OnFrame invocations are possible.
type Stream interface {
	Device() Device
	Close() error
}

// Opener creates capture streams for one audio backend.
type Opener interface {
	Name() string
	Devices(ctx context.Context) ([]Device, error)
	Open(ctx context.Context, cfg StreamConfig) (Stream, error)
}

// NewOpener selects a capture backend by its configured name.
func NewOpener(backend string) (Opener, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "portaudio":
		return &portAudioOpener{}, nil
	case "pulse":
		return &pulseOpener{}, nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q", backend)
	}
}

// Resolve matches a configured device name against live devices. An empty or
// "default" preference selects the default device; an unknown name falls back
// to the default with a warning instead of failing the session.
func Resolve(devices []Device, want string) (Device, string, error) {
	if len(devices) == 0 {
		return Device{}, "", errors.New("no audio input devices found")
	}

	fallback := devices[0]
	for _, dev := range devices {
		if dev.Default {
			fallback = dev
			break
		}
	}

	term := strings.TrimSpace(strings.ToLower(want))
	if term == "" || term == "default" {
		return fallback, "", nil
	}

	for _, dev := range devices {
		if deviceMatches(dev, term) {
			return dev, "", nil
		}
	}

	warning := fmt.Sprintf("audio device %q did not match any input; using %q", want, fallback.Name)
	return fallback, warning, nil
}

// deviceMatches reports whether a lowercase search term matches a device id or name.
func deviceMatches(device Device, term string) bool {
	if term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(device.ID), term) ||
		strings.Contains(strings.ToLower(device.Name), term)
}

// Level reduces one frame to the meter value shown during audio tests: the
// Euclidean norm of the samples scaled by 10.
func Level(frame []float32) float64 {
	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum) * 10
}

// MaxAmplitude returns the largest absolute sample value.
func MaxAmplitude(samples []float32) float64 {
	var peak float64
	for _, s := range samples {
		abs := math.Abs(float64(s))
		if abs > peak {
			peak = abs
		}
	}
	return peak
}

// RMS returns the root mean square of the samples.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
