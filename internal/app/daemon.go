package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"murmur/internal/audio"
	"murmur/internal/config"
	"murmur/internal/console"
	"murmur/internal/cue"
	"murmur/internal/dump"
	"murmur/internal/engine"
	"murmur/internal/events"
	"murmur/internal/ipc"
	"murmur/internal/notify"
	"murmur/internal/output"
	"murmur/internal/session"
)

// commandRun starts the long-lived daemon: it claims the control socket,
// wires the session controller to its collaborators, and serves IPC commands
// until the context is cancelled.
func (r Runner) commandRun(ctx context.Context, cfg config.Config, logger *slog.Logger, logPath string) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintln(r.Stderr, "error: murmur daemon already running")
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	opener, err := audio.NewOpener(cfg.Audio.Backend)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	eng, err := engine.New(logger, cfg.Engine)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = eng.Close() }()

	renderer := console.New(r.Stdout, logger)
	defer renderer.Close()

	sinks := events.Multi{renderer}
	if cfg.Notify.Enable {
		notifications := notify.NewSink(logger)
		defer notifications.Close()
		sinks = append(sinks, notifications)
	}
	if cfg.Notify.Sound {
		cues := cue.NewSink(logger)
		defer cues.Close()
		sinks = append(sinks, cues)
	}

	var dumper session.Dumper
	if cfg.Debug.AudioDump {
		dumper = dump.NewWriter(logger)
	}

	clipboard := output.NewWriter(cfg.Clipboard)
	controller := session.NewController(logger, cfg, opener, eng, clipboard, dumper, sinks)
	defer func() { _ = controller.Close() }()

	welcome(sinks, cfg)

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, daemonHandler{controller: controller})
	}()

	logger.Info("daemon ready",
		"socket", socketPath,
		"backend", opener.Name(),
		"log", logPath,
	)

	var serverErr error
	select {
	case <-ctx.Done():
		serverCancel()
		serverErr = <-serverErrCh
	case serverErr = <-serverErrCh:
	}
	if serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	logger.Info("daemon stopped")
	return 0
}

// welcome seeds the log view with usage instructions before any session runs.
func welcome(sink events.Sink, cfg config.Config) {
	hotkey := cfg.Hotkey
	if hotkey == "" {
		hotkey = "your configured hotkey"
	}
	lines := []string{
		"Welcome to murmur!",
		fmt.Sprintf("1. Press %s (or run 'murmur toggle') to start recording", hotkey),
		"2. Speak, then press it again to stop",
		"3. The transcript lands on your clipboard",
	}
	for _, line := range lines {
		sink.LogAppended(line, events.CategoryNote)
	}
	sink.StatusChanged("Idle", events.SeverityInfo)
}

// daemonHandler answers IPC requests by driving the session controller.
type daemonHandler struct {
	controller *session.Controller
}

func (h daemonHandler) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		return ipc.Response{OK: true, State: string(h.controller.State())}
	case "toggle":
		h.controller.ToggleRecording(ctx)
		return ipc.Response{OK: true, State: string(h.controller.State())}
	case "test":
		h.controller.ToggleTest(ctx)
		return ipc.Response{OK: true, State: string(h.controller.State())}
	case "set":
		return h.handleSet(req)
	default:
		return ipc.Response{
			OK:    false,
			State: string(h.controller.State()),
			Error: fmt.Sprintf("unknown command: %s", req.Command),
		}
	}
}

// handleSet mutates the live selection. Device names are not validated here
// because the device list changes between sessions; the stream opener falls
// back to the default device with a warning when the name no longer matches.
func (h daemonHandler) handleSet(req ipc.Request) ipc.Response {
	state := string(h.controller.State())

	switch req.Key {
	case "device":
		h.controller.Selection().SetDevice(req.Value)
		shown := req.Value
		if shown == "" {
			shown = "default"
		}
		return ipc.Response{OK: true, State: state, Message: fmt.Sprintf("device set to %s", shown)}
	case "model":
		if !engine.ValidModel(req.Value) {
			return ipc.Response{
				OK:    false,
				State: state,
				Error: fmt.Sprintf("unknown model %q (see 'murmur models')", req.Value),
			}
		}
		h.controller.Selection().SetModel(req.Value)
		return ipc.Response{OK: true, State: state, Message: fmt.Sprintf("model set to %s", req.Value)}
	case "language":
		if !engine.ValidLanguage(req.Value) {
			return ipc.Response{
				OK:    false,
				State: state,
				Error: fmt.Sprintf("unknown language %q", req.Value),
			}
		}
		h.controller.Selection().SetLanguage(req.Value)
		return ipc.Response{OK: true, State: state, Message: fmt.Sprintf("language set to %s", req.Value)}
	default:
		return ipc.Response{
			OK:    false,
			State: state,
			Error: fmt.Sprintf("unknown setting %q (valid: device, model, language)", req.Key),
		}
	}
}
