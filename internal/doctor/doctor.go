// Package doctor runs readiness diagnostics: config, socket directory,
// audio capture, engine weights, clipboard, and the state directory.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"murmur/internal/audio"
	"murmur/internal/config"
	"murmur/internal/engine"
	"murmur/internal/logging"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, loaded config.Loaded) Report {
	checks := []Check{checkConfig(loaded)}

	checks = append(checks, checkEnv("XDG_RUNTIME_DIR", func(v string) bool {
		return strings.TrimSpace(v) != ""
	}, "control socket directory available", "XDG_RUNTIME_DIR is empty; the daemon socket lives there"))

	checks = append(checks, checkAudio(ctx, loaded.Config)...)
	checks = append(checks,
		checkModelWeights(loaded.Config),
		checkLanguage(loaded.Config),
		checkClipboard(loaded.Config),
		checkStateDir(),
	)

	return Report{Checks: checks}
}

func checkConfig(loaded config.Loaded) Check {
	if !loaded.Exists {
		return Check{Name: "config", Pass: true, Message: fmt.Sprintf("no file at %q; using defaults", loaded.Path)}
	}
	if n := len(loaded.Warnings); n > 0 {
		return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q with %d warning(s)", loaded.Path, n)}
	}
	return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", loaded.Path)}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkAudio stages backend construction, device listing, and selection;
// a failed stage short-circuits the rest.
func checkAudio(ctx context.Context, cfg config.Config) []Check {
	opener, err := audio.NewOpener(cfg.Audio.Backend)
	if err != nil {
		return []Check{{Name: "audio.backend", Pass: false, Message: err.Error()}}
	}
	backend := Check{Name: "audio.backend", Pass: true, Message: fmt.Sprintf("using %s", opener.Name())}

	devices, err := opener.Devices(ctx)
	if err != nil {
		return []Check{backend, {Name: "audio.devices", Pass: false, Message: err.Error()}}
	}
	if len(devices) == 0 {
		return []Check{backend, {Name: "audio.devices", Pass: false, Message: "no audio input devices found"}}
	}
	listed := Check{Name: "audio.devices", Pass: true, Message: fmt.Sprintf("%d input device(s)", len(devices))}

	device, warning, err := audio.Resolve(devices, cfg.Audio.Device)
	if err != nil {
		return []Check{backend, listed, {Name: "audio.device", Pass: false, Message: err.Error()}}
	}
	message := fmt.Sprintf("selected %q", device.Name)
	if warning != "" {
		message = message + " (" + warning + ")"
	}
	return []Check{backend, listed, {Name: "audio.device", Pass: true, Message: message}}
}

func checkModelWeights(cfg config.Config) Check {
	if !engine.ValidModel(cfg.Engine.Model) {
		return Check{Name: "engine.model", Pass: false, Message: fmt.Sprintf("unknown model %q", cfg.Engine.Model)}
	}

	eng, err := engine.New(nil, cfg.Engine)
	if err != nil {
		return Check{Name: "engine.model", Pass: false, Message: err.Error()}
	}

	path := engine.ModelPath(eng.ModelDir(), cfg.Engine.Model)
	if _, err := os.Stat(path); err != nil {
		return Check{Name: "engine.model", Pass: false, Message: fmt.Sprintf("weights missing at %s", path)}
	}
	return Check{Name: "engine.model", Pass: true, Message: fmt.Sprintf("weights at %s", path)}
}

func checkLanguage(cfg config.Config) Check {
	code, err := engine.LanguageCode(cfg.Engine.Language)
	if err != nil {
		return Check{Name: "engine.language", Pass: false, Message: err.Error()}
	}
	return Check{Name: "engine.language", Pass: true, Message: fmt.Sprintf("%q resolves to %q", cfg.Engine.Language, code)}
}

// clipboardHelpers are the binaries the library backend shells out to.
var clipboardHelpers = []string{"wl-copy", "xclip", "xsel"}

func checkClipboard(cfg config.Config) Check {
	if len(cfg.Clipboard.Argv) > 0 {
		return checkCommand(cfg.Clipboard.Argv, "clipboard_cmd")
	}
	for _, bin := range clipboardHelpers {
		if path, err := exec.LookPath(bin); err == nil {
			return Check{Name: "clipboard", Pass: true, Message: fmt.Sprintf("%s found at %s", bin, path)}
		}
	}
	return Check{Name: "clipboard", Pass: false, Message: "no clipboard helper in PATH (install wl-clipboard, xclip, or xsel)"}
}

func checkStateDir() Check {
	dir, err := logging.StateDir()
	if err != nil {
		return Check{Name: "state.dir", Pass: false, Message: err.Error()}
	}
	return Check{Name: "state.dir", Pass: true, Message: fmt.Sprintf("logs and debug artifacts under %s", dir)}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}
