package config

import "time"

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Hotkey: "ctrl+shift+space",
		Audio: AudioConfig{
			Backend:      "portaudio",
			Device:       "",
			SampleRate:   16000,
			TestDuration: 5 * time.Second,
		},
		Recording: RecordingConfig{
			MinDuration:      500 * time.Millisecond,
			SilenceThreshold: 0.001,
		},
		Engine: EngineConfig{
			Model:    "base",
			ModelDir: "",
			Language: "Autodetect",
			Threads:  0,
		},
		Clipboard: CommandConfig{},
		Notify: NotifyConfig{
			Enable: false,
			Sound:  true,
		},
		Debug:       DebugConfig{},
		StatusReset: 2 * time.Second,
	}
}
