package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

type jsoncConfig struct {
	Hotkey    *string         `json:"hotkey"`
	Audio     *jsoncAudio     `json:"audio"`
	Recording *jsoncRecording `json:"recording"`
	Engine    *jsoncEngine    `json:"engine"`

	ClipboardCmd *string      `json:"clipboard_cmd"`
	Notify       *jsoncNotify `json:"notify"`
	Debug        *jsoncDebug  `json:"debug"`

	StatusResetMS *int `json:"status_reset_ms"`
}

type jsoncAudio struct {
	Backend       *string  `json:"backend"`
	Device        *string  `json:"device"`
	SampleRate    *int     `json:"sample_rate"`
	TestDurationS *float64 `json:"test_duration_s"`
}

type jsoncRecording struct {
	MinDurationS     *float64 `json:"min_duration_s"`
	SilenceThreshold *float64 `json:"silence_threshold"`
}

type jsoncEngine struct {
	Model    *string `json:"model"`
	ModelDir *string `json:"model_dir"`
	Language *string `json:"language"`
	Threads  *int    `json:"threads"`
}

type jsoncNotify struct {
	Enable *bool `json:"enable"`
	Sound  *bool `json:"sound"`
}

type jsoncDebug struct {
	AudioDump *bool `json:"audio_dump"`
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	warnings, err := payload.applyTo(&cfg)
	if err != nil {
		return Config{}, nil, err
	}

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append(warnings, validatedWarnings...)
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if payload.Hotkey != nil {
		cfg.Hotkey = strings.TrimSpace(*payload.Hotkey)
	}

	if payload.Audio != nil {
		if payload.Audio.Backend != nil {
			cfg.Audio.Backend = strings.ToLower(strings.TrimSpace(*payload.Audio.Backend))
		}
		if payload.Audio.Device != nil {
			cfg.Audio.Device = strings.TrimSpace(*payload.Audio.Device)
		}
		if payload.Audio.SampleRate != nil {
			cfg.Audio.SampleRate = *payload.Audio.SampleRate
		}
		if payload.Audio.TestDurationS != nil {
			cfg.Audio.TestDuration = secondsToDuration(*payload.Audio.TestDurationS)
		}
	}

	if payload.Recording != nil {
		if payload.Recording.MinDurationS != nil {
			cfg.Recording.MinDuration = secondsToDuration(*payload.Recording.MinDurationS)
		}
		if payload.Recording.SilenceThreshold != nil {
			cfg.Recording.SilenceThreshold = *payload.Recording.SilenceThreshold
		}
	}

	if payload.Engine != nil {
		if payload.Engine.Model != nil {
			cfg.Engine.Model = strings.TrimSpace(*payload.Engine.Model)
		}
		if payload.Engine.ModelDir != nil {
			cfg.Engine.ModelDir = strings.TrimSpace(*payload.Engine.ModelDir)
		}
		if payload.Engine.Language != nil {
			cfg.Engine.Language = strings.TrimSpace(*payload.Engine.Language)
		}
		if payload.Engine.Threads != nil {
			cfg.Engine.Threads = *payload.Engine.Threads
		}
	}

	if payload.ClipboardCmd != nil {
		raw := *payload.ClipboardCmd
		argv, err := parseArgv(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid clipboard_cmd: %w", err)
		}
		cfg.Clipboard = CommandConfig{Raw: raw, Argv: argv}
	}

	if payload.Notify != nil {
		if payload.Notify.Enable != nil {
			cfg.Notify.Enable = *payload.Notify.Enable
		}
		if payload.Notify.Sound != nil {
			cfg.Notify.Sound = *payload.Notify.Sound
		}
	}

	if payload.Debug != nil && payload.Debug.AudioDump != nil {
		cfg.Debug.AudioDump = *payload.Debug.AudioDump
	}

	if payload.StatusResetMS != nil {
		cfg.StatusReset = time.Duration(*payload.StatusResetMS) * time.Millisecond
	}

	return warnings, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func normalizeJSONC(content string) (string, error) {
	withoutComments, err := stripJSONCComments(content)
	if err != nil {
		return "", err
	}
	return stripJSONCTrailingCommas(withoutComments), nil
}

func stripJSONCComments(content string) (string, error) {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false
	lineComment := false
	blockComment := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if lineComment {
			if ch == '\n' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			if ch == '\r' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			out.WriteByte(' ')
			continue
		}

		if blockComment {
			if ch == '*' && i+1 < len(content) && content[i+1] == '/' {
				blockComment = false
				out.WriteString("  ")
				i++
				continue
			}
			if ch == '\n' || ch == '\r' || ch == '\t' {
				out.WriteByte(ch)
			} else {
				out.WriteByte(' ')
			}
			continue
		}

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == '/' && i+1 < len(content) {
			next := content[i+1]
			if next == '/' {
				lineComment = true
				out.WriteString("  ")
				i++
				continue
			}
			if next == '*' {
				blockComment = true
				out.WriteString("  ")
				i++
				continue
			}
		}

		out.WriteByte(ch)
	}

	if blockComment {
		return "", fmt.Errorf("unterminated block comment in JSONC")
	}

	return out.String(), nil
}

func stripJSONCTrailingCommas(content string) string {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(content) && isJSONWhitespace(content[j]) {
				j++
			}
			if j < len(content) && (content[j] == '}' || content[j] == ']') {
				continue
			}
		}

		out.WriteByte(ch)
	}

	return out.String()
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	line := 1
	col := 1
	for i := 0; i < limit-1; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
