package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOpenerSelectsBackend(t *testing.T) {
	opener, err := NewOpener("")
	require.NoError(t, err)
	require.Equal(t, "portaudio", opener.Name())

	opener, err = NewOpener("portaudio")
	require.NoError(t, err)
	require.Equal(t, "portaudio", opener.Name())

	opener, err = NewOpener(" Pulse ")
	require.NoError(t, err)
	require.Equal(t, "pulse", opener.Name())

	_, err = NewOpener("alsa")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown audio backend")
}

func TestResolveEmptyListFails(t *testing.T) {
	_, _, err := Resolve(nil, "default")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no audio input devices")
}

func TestResolvePrefersMarkedDefault(t *testing.T) {
	devices := []Device{
		{ID: "0", Name: "Webcam Mic"},
		{ID: "3", Name: "Desk Mic", Default: true},
	}

	dev, warning, err := Resolve(devices, "")
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Equal(t, "3", dev.ID)

	dev, warning, err = Resolve(devices, "default")
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Equal(t, "3", dev.ID)
}

func TestResolveFallsBackToFirstWithoutDefault(t *testing.T) {
	devices := []Device{
		{ID: "0", Name: "Webcam Mic"},
		{ID: "1", Name: "Desk Mic"},
	}

	dev, warning, err := Resolve(devices, "")
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Equal(t, "0", dev.ID)
}

func TestResolveMatchesNameAndID(t *testing.T) {
	devices := []Device{
		{ID: "alsa_input.usb-elgato", Name: "Elgato Wave 3 Mono", Default: true},
		{ID: "1", Name: "Blue Yeti Stereo"},
	}

	dev, warning, err := Resolve(devices, "blue yeti")
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Equal(t, "1", dev.ID)

	dev, warning, err = Resolve(devices, "USB-ELGATO")
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Equal(t, "alsa_input.usb-elgato", dev.ID)
}

func TestResolveUnknownNameWarnsAndUsesDefault(t *testing.T) {
	devices := []Device{
		{ID: "0", Name: "Desk Mic", Default: true},
	}

	dev, warning, err := Resolve(devices, "missing mic")
	require.NoError(t, err)
	require.Equal(t, "0", dev.ID)
	require.Contains(t, warning, "did not match")
	require.Contains(t, warning, "Desk Mic")
}

func TestDeviceMatchesByIDAndName(t *testing.T) {
	dev := Device{ID: "alsa_input.usb-elgato", Name: "Elgato Wave 3 Mono"}
	require.True(t, deviceMatches(dev, "elgato"))
	require.True(t, deviceMatches(dev, "wave 3"))
	require.False(t, deviceMatches(dev, "missing"))
	require.False(t, deviceMatches(dev, ""))
}

func TestLevelScalesEuclideanNorm(t *testing.T) {
	require.Zero(t, Level(nil))
	require.InDelta(t, 5.0, Level([]float32{0.3, 0.4}), 1e-9)
}

func TestMaxAmplitudeUsesAbsoluteValue(t *testing.T) {
	require.Zero(t, MaxAmplitude(nil))
	require.InDelta(t, 0.7, MaxAmplitude([]float32{0.1, -0.7, 0.3}), 1e-6)
}

func TestRMS(t *testing.T) {
	require.Zero(t, RMS(nil))
	require.InDelta(t, 0.5, RMS([]float32{0.5, -0.5}), 1e-9)
}
