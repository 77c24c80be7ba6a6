package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaultsPass(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateRejectsInvalidCoreFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty backend",
			mutate:  func(c *Config) { c.Audio.Backend = "  " },
			wantErr: "audio.backend must not be empty",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Audio.Backend = "alsa" },
			wantErr: "audio.backend must be one of",
		},
		{
			name:    "zero sample rate",
			mutate:  func(c *Config) { c.Audio.SampleRate = 0 },
			wantErr: "audio.sample_rate must be > 0",
		},
		{
			name:    "zero test duration",
			mutate:  func(c *Config) { c.Audio.TestDuration = 0 },
			wantErr: "audio.test_duration_s must be > 0",
		},
		{
			name:    "negative min duration",
			mutate:  func(c *Config) { c.Recording.MinDuration = -time.Second },
			wantErr: "recording.min_duration_s must be >= 0",
		},
		{
			name:    "negative silence threshold",
			mutate:  func(c *Config) { c.Recording.SilenceThreshold = -0.1 },
			wantErr: "recording.silence_threshold must be >= 0",
		},
		{
			name:    "empty model",
			mutate:  func(c *Config) { c.Engine.Model = " " },
			wantErr: "engine.model must not be empty",
		},
		{
			name:    "empty language",
			mutate:  func(c *Config) { c.Engine.Language = "" },
			wantErr: "engine.language must not be empty",
		},
		{
			name:    "negative threads",
			mutate:  func(c *Config) { c.Engine.Threads = -1 },
			wantErr: "engine.threads must be >= 0",
		},
		{
			name:    "clipboard command configured but empty",
			mutate:  func(c *Config) { c.Clipboard = CommandConfig{Raw: "# comment only"} },
			wantErr: "clipboard_cmd is configured but empty",
		},
		{
			name:    "negative status reset",
			mutate:  func(c *Config) { c.StatusReset = -time.Millisecond },
			wantErr: "status_reset_ms must be >= 0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateNormalizesBackendCase(t *testing.T) {
	cfg := Default()
	cfg.Audio.Backend = " PortAudio "
	_, err := Validate(cfg)
	require.NoError(t, err)
}

func TestValidateWarnsOnNonWhisperSampleRate(t *testing.T) {
	cfg := Default()
	cfg.Audio.SampleRate = 48000
	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "16000")
}

func TestValidateAllowsEmptyClipboardCommand(t *testing.T) {
	cfg := Default()
	cfg.Clipboard = CommandConfig{}
	_, err := Validate(cfg)
	require.NoError(t, err)
}
