package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle         State = "idle"
	StateTesting      State = "testing"
	StateListening    State = "listening"
	StateTranscribing State = "transcribing"
)

const (
	EventStartTest      Event = "start_test"
	EventStopTest       Event = "stop_test"
	EventStartRecording Event = "start_recording"
	EventStopRecording  Event = "stop_recording"
	EventFinish         Event = "finish"
	EventAbort          Event = "abort"
)

func Transition(current State, event Event) (State, error) {
	switch current {
	case StateIdle:
		switch event {
		case EventStartTest:
			return StateTesting, nil
		case EventStartRecording:
			return StateListening, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateTesting:
		switch event {
		case EventStopTest, EventAbort:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateListening:
		switch event {
		case EventStopRecording:
			return StateTranscribing, nil
		case EventAbort:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateTranscribing:
		switch event {
		case EventFinish:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
