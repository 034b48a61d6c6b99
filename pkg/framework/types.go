package framework

import (
	"context"
	"time"
)

// Runnable is a background task living as long as its context.
type Runnable interface {
	Run(context.Context) error
}

// Message is posted into the loop and handled during the next tick.
type Message interface {
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
}

// Controller runs once per tick at the Stage it is added to.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext is what a Controller sees of the current tick.
type ControlContext interface {
	// Context is canceled when the loop stops.
	Context() context.Context
	// Time is when the tick started.
	Time() time.Time
	// Tick counts ticks from 1.
	Tick() uint64
	// Stage is the stage being run.
	Stage() Stage
	// Inbox holds messages posted before the tick started.
	Inbox() Inbox
}

// Inbox is the set of messages pending in a tick.
type Inbox interface {
	// Take passes each pending message to fn in posting order.
	// Messages for which fn returns true are removed.
	Take(fn func(Message) bool)
}

// LoopControl is the part of the loop usable from other goroutines.
type LoopControl interface {
	// PostMessage queues msg for the next tick. It never wakes the loop.
	PostMessage(Message)
}

// Stage orders controllers within a tick.
type Stage int

// Stages of a tick, run in this order.
const (
	// StageCommand applies requests from peers.
	StageCommand Stage = iota
	// StageSense reads inputs.
	StageSense
	// StageControl computes new outputs.
	StageControl
	// StageActuate writes outputs.
	StageActuate
	// StagePublish reports the outcome.
	StagePublish
	// StageIdle handles whatever is left.
	StageIdle

	numStages
)

var stageNames = [numStages]string{"command", "sense", "control", "actuate", "publish", "idle"}

func (s Stage) String() string {
	if s >= 0 && s < numStages {
		return stageNames[s]
	}
	return "invalid"
}
