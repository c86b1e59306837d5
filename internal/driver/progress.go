package driver

import "time"

// Stage identifies a per-fixture step of the bind pipeline.
type Stage string

const (
	// StageLoad decodes and renders the fixture.
	StageLoad Stage = "load"
	// StageCollect builds the symbols of the fixture's local functions.
	StageCollect Stage = "collect"
	// StageBind forces the lazy signature facts.
	StageBind Stage = "bind"
	// StageDrain moves accumulated diagnostics into the result.
	StageDrain Stage = "drain"
)

// Status describes where a fixture is within a stage.
type Status string

const (
	// StatusQueued indicates the fixture is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is in progress.
	StatusWorking Status = "working"
	// StatusDone indicates the fixture finished without errors.
	StatusDone Status = "done"
	// StatusError indicates the fixture produced errors or failed to load.
	StatusError Status = "error"
)

// Event reports progress for a fixture (or for the whole run when File is empty).
type Event struct {
	File   string
	Stage  Stage
	Status Status
	// Symbols is the number of local functions of the fixture; set from StageBind on.
	Symbols int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Bind calls OnEvent from several
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
