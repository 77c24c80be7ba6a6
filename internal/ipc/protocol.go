package ipc

// Request is one client command sent to the daemon. Command is one of
// "toggle", "test", "status", or "set"; Key and Value carry the selection
// change for "set".
type Request struct {
	Command string `json:"command"`
	Key     string `json:"key,omitempty"`
	Value   string `json:"value,omitempty"`
}

// Response reports the daemon's answer. State carries the controller state
// for "status"; Message is human-readable output for the client terminal.
type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
