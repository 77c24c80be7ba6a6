package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandRun     Command = "run"
	CommandToggle  Command = "toggle"
	CommandTest    Command = "test"
	CommandStatus  Command = "status"
	CommandSet     Command = "set"
	CommandDevices Command = "devices"
	CommandModels  Command = "models"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandRun:     {},
	CommandToggle:  {},
	CommandTest:    {},
	CommandStatus:  {},
	CommandSet:     {},
	CommandDevices: {},
	CommandModels:  {},
	CommandDoctor:  {},
	CommandVersion: {},
	CommandHelp:    {},
}

type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool
	SetKey     string
	SetValue   string
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp

			if cmd == CommandSet {
				i++
				if i >= len(args) {
					return Parsed{}, errors.New("set requires a key=value argument")
				}
				key, value, err := splitAssignment(args[i])
				if err != nil {
					return Parsed{}, err
				}
				parsed.SetKey = key
				parsed.SetValue = value
			}

			if i != len(args)-1 {
				return Parsed{}, fmt.Errorf("unexpected arguments after command %q", arg)
			}
		}
	}

	return parsed, nil
}

// splitAssignment parses key=value on the first '='. The value may be empty;
// the key may not.
func splitAssignment(arg string) (string, string, error) {
	eq := strings.Index(arg, "=")
	if eq <= 0 {
		return "", "", fmt.Errorf("set expects key=value, got %q", arg)
	}
	return arg[:eq], arg[eq+1:], nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command>

Commands:
  run            Run the dictation daemon in the foreground
  toggle         Start recording, or stop and transcribe when recording
  test           Start or stop the microphone level test
  status         Print the daemon state
  set KEY=VALUE  Change a runtime setting (device, model, language)
  devices        List audio input devices
  models         List transcription models and their install state
  doctor         Run configuration and environment checks
  version        Print version information
  help           Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/murmur/config.conf)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
