package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"murmur/internal/config"
)

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, "[OK] one: good")
	require.Contains(t, text, "[FAIL] two: bad")
}

func TestReportOKAllPassing(t *testing.T) {
	report := Report{Checks: []Check{{Name: "one", Pass: true}, {Name: "two", Pass: true}}}
	require.True(t, report.OK())
}

func TestCheckEnv(t *testing.T) {
	t.Setenv("TEST_DOCTOR_ENV", "some-value")

	check := checkEnv(
		"TEST_DOCTOR_ENV",
		func(v string) bool { return strings.TrimSpace(v) != "" },
		"looks good",
		"unexpected",
	)

	require.True(t, check.Pass)
	require.Equal(t, "looks good", check.Message)
}

func TestCheckConfigReportsDefaultsWhenFileAbsent(t *testing.T) {
	check := checkConfig(config.Loaded{Path: "/tmp/none.conf", Config: config.Default(), Exists: false})
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "using defaults")
}

func TestCheckConfigCountsWarnings(t *testing.T) {
	loaded := config.Loaded{
		Path:     "/tmp/config.conf",
		Config:   config.Default(),
		Exists:   true,
		Warnings: []config.Warning{{Message: "bad key"}, {Message: "bad value"}},
	}
	check := checkConfig(loaded)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "2 warning(s)")
}

func TestCheckCommandEmpty(t *testing.T) {
	check := checkCommand(nil, "clipboard_cmd")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "command is empty")
}

func TestCheckBinaryFound(t *testing.T) {
	check := checkBinary("sh", "shell available")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "shell available")
}

func TestCheckBinaryMissing(t *testing.T) {
	check := checkBinary("definitely-not-a-real-binary", "unused")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "binary not found")
}

func TestCheckCommandUsesBinaryFromPath(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "fake-bin")
	require.NoError(t, os.WriteFile(scriptPath, []byte("#!/usr/bin/env sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))

	check := checkCommand([]string{"fake-bin", "--arg"}, "clipboard_cmd")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "clipboard_cmd command is available")
}

func TestCheckModelWeightsUnknownModel(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Model = "enormous"

	check := checkModelWeights(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, `unknown model "enormous"`)
}

func TestCheckModelWeightsMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.ModelDir = t.TempDir()

	check := checkModelWeights(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "weights missing at")
	require.Contains(t, check.Message, "ggml-base.bin")
}

func TestCheckModelWeightsPresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ggml-base.bin"), []byte("weights"), 0o600))

	cfg := config.Default()
	cfg.Engine.ModelDir = dir

	check := checkModelWeights(cfg)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "weights at")
}

func TestCheckLanguageResolvesDefault(t *testing.T) {
	check := checkLanguage(config.Default())
	require.True(t, check.Pass)
	require.Contains(t, check.Message, `"auto"`)
}

func TestCheckLanguageRejectsUnknown(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Language = "klingon"

	check := checkLanguage(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, `unknown language "klingon"`)
}

func TestCheckClipboardUsesConfiguredCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fake-copy"), []byte("#!/usr/bin/env sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", dir)

	cfg := config.Default()
	cfg.Clipboard = config.CommandConfig{Raw: "fake-copy", Argv: []string{"fake-copy"}}

	check := checkClipboard(cfg)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "clipboard_cmd command is available")
}

func TestCheckClipboardFindsLibraryHelper(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xclip"), []byte("#!/usr/bin/env sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", dir)

	check := checkClipboard(config.Default())
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "xclip")
}

func TestCheckClipboardFailsWithoutAnyHelper(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	check := checkClipboard(config.Default())
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "no clipboard helper")
}

func TestCheckAudioRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Audio.Backend = "jack"

	checks := checkAudio(context.Background(), cfg)
	require.Len(t, checks, 1)
	require.Equal(t, "audio.backend", checks[0].Name)
	require.False(t, checks[0].Pass)
	require.Contains(t, checks[0].Message, "unknown audio backend")
}

func TestCheckAudioDeviceListingFailureWithInvalidPulseServer(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	cfg := config.Default()
	cfg.Audio.Backend = "pulse"

	checks := checkAudio(context.Background(), cfg)
	require.Len(t, checks, 2)
	require.True(t, checks[0].Pass)
	require.Equal(t, "audio.devices", checks[1].Name)
	require.False(t, checks[1].Pass)
}

func TestRunCoversEveryConcern(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")
	t.Setenv("PATH", t.TempDir())

	cfg := config.Default()
	cfg.Audio.Backend = "pulse"
	cfg.Engine.ModelDir = t.TempDir()

	report := Run(context.Background(), config.Loaded{Path: "/tmp/config.conf", Config: cfg})
	require.False(t, report.OK())

	names := make(map[string]bool, len(report.Checks))
	for _, check := range report.Checks {
		names[check.Name] = true
	}
	for _, want := range []string{
		"config",
		"XDG_RUNTIME_DIR",
		"audio.backend",
		"audio.devices",
		"engine.model",
		"engine.language",
		"clipboard",
		"state.dir",
	} {
		require.True(t, names[want], "missing check %q", want)
	}

	require.Contains(t, report.String(), "[FAIL]")
	require.Contains(t, report.String(), "[OK]")
}
