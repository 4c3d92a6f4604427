// Package pipeline holds the progress vocabulary shared by the driver
// and the terminal UI.
package pipeline

import "time"

// Stage describes a high-level phase of kernel processing.
type Stage string

const (
	// StageBuild is symbolic tree construction.
	StageBuild Stage = "build"
	// StageEmit is IR emission.
	StageEmit Stage = "emit"
	// StageDump is textual rendering.
	StageDump Stage = "dump"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the kernel is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the kernel is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the kernel is done.
	StatusDone Status = "done"
	// StatusError indicates the kernel failed.
	StatusError Status = "error"
	// StatusCached indicates the kernel was served from the disk cache.
	StatusCached Status = "cached"
)

// Event reports progress for one kernel.
type Event struct {
	Kernel  string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel; a full channel drops the
// event rather than stalling the driver.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent implements ProgressSink.
func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	select {
	case s.Ch <- ev:
	default:
	}
}

// NopSink ignores all events.
type NopSink struct{}

// OnEvent implements ProgressSink.
func (NopSink) OnEvent(Event) {}
