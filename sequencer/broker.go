package sequencer

import "time"

type (
	// Broker is the centralized message hub for the sequencer. It is
	// many-to-one communication, implemented with one channel for each
	// recipient: the model (owned by the UI goroutine), the player (owned by
	// the playback goroutine) and the GUI. All sends through the broker are
	// non-blocking; a full channel drops the message, which is acceptable
	// because every message is either a full-state copy that the next send
	// supersedes, or a notification the recipient can recover from.
	//
	// For closing the player goroutine, ClosePlayer has a capacity of 1 so a
	// close request never blocks; FinishedPlayer is closed by the player
	// when it has shut down and released the audio backend.
	Broker struct {
		ToModel  chan MsgToModel
		ToPlayer chan any
		ToGUI    chan any

		ClosePlayer    chan struct{}
		FinishedPlayer chan struct{}
	}

	// MsgToModel is a message sent to the model. The player status is passed
	// unboxed on every message to avoid allocations in the tick path; the
	// infrequent messages travel boxed in Data.
	MsgToModel struct {
		HasPlayerStatus bool
		Status          PlayerStatus

		Data any
	}

	// PlayerStatus is the scalar playback state the player publishes after
	// every tick: what is playing, where the cursor is, and how far through
	// the section's loops playback is.
	PlayerStatus struct {
		Playing     bool
		CursorStep  int
		Section     int
		SectionLoop int
	}

	// CellAddr is one grid address, used for addressable change
	// notifications and the cell selection.
	CellAddr struct {
		Step, Col int
	}

	// MsgToGUI carries fine-grained change notifications: the cells and
	// slots touched by one committed change bracket, coalesced so the GUI
	// redraws each address once per edit instead of once per mutation.
	MsgToGUI struct {
		Cells []CellAddr
		Slots []int
	}

	// SampleLoadedMsg reports an asynchronous sample load completion from
	// the audio backend, routed through the player to the model.
	SampleLoadedMsg struct {
		Slot int
		Err  error
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:        make(chan MsgToModel, 1024),
		ToPlayer:       make(chan any, 1024),
		ToGUI:          make(chan any, 1024),
		ClosePlayer:    make(chan struct{}, 1),
		FinishedPlayer: make(chan struct{}),
	}
}

// TrySend is a helper function to send a value to a channel if it is not
// full. It is guaranteed to be non-blocking. Returns true if the value was
// sent, false otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive blocks until a value is received from a channel, or times
// out after t. ok is false if the timeout occurred or the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
