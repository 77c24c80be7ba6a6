package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionRecordingCycle(t *testing.T) {
	s := StateIdle

	next, err := Transition(s, EventStartRecording)
	require.NoError(t, err)
	require.Equal(t, StateListening, next)

	next, err = Transition(next, EventStopRecording)
	require.NoError(t, err)
	require.Equal(t, StateTranscribing, next)

	next, err = Transition(next, EventFinish)
	require.NoError(t, err)
	require.Equal(t, StateIdle, next)
}

func TestTransitionTestCycle(t *testing.T) {
	next, err := Transition(StateIdle, EventStartTest)
	require.NoError(t, err)
	require.Equal(t, StateTesting, next)

	next, err = Transition(next, EventStopTest)
	require.NoError(t, err)
	require.Equal(t, StateIdle, next)
}

func TestTransitionAbortUnwindsActiveStreams(t *testing.T) {
	for _, state := range []State{StateTesting, StateListening} {
		next, err := Transition(state, EventAbort)
		require.NoError(t, err)
		require.Equal(t, StateIdle, next)
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		event   Event
		want    State
		wantErr bool
	}{
		{name: "idle stop test invalid", state: StateIdle, event: EventStopTest, want: StateIdle, wantErr: true},
		{name: "idle stop recording invalid", state: StateIdle, event: EventStopRecording, want: StateIdle, wantErr: true},
		{name: "idle abort invalid", state: StateIdle, event: EventAbort, want: StateIdle, wantErr: true},
		{name: "testing start recording invalid", state: StateTesting, event: EventStartRecording, want: StateTesting, wantErr: true},
		{name: "testing start test invalid", state: StateTesting, event: EventStartTest, want: StateTesting, wantErr: true},
		{name: "listening start test invalid", state: StateListening, event: EventStartTest, want: StateListening, wantErr: true},
		{name: "listening stop test invalid", state: StateListening, event: EventStopTest, want: StateListening, wantErr: true},
		{name: "transcribing start recording invalid", state: StateTranscribing, event: EventStartRecording, want: StateTranscribing, wantErr: true},
		{name: "transcribing abort invalid", state: StateTranscribing, event: EventAbort, want: StateTranscribing, wantErr: true},
		{name: "transcribing finish valid", state: StateTranscribing, event: EventFinish, want: StateIdle, wantErr: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.want, next)
			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "invalid transition")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventStartTest)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, State("mystery"), next)
}
