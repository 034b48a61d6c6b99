package l1

import (
	"context"

	fx "github.com/robotalks/axiled/pkg/framework"
)

// Registrar publishes controller events and delivers remote commands
// into the loop.
type Registrar interface {
	// SendEvent sends an event to subscribers.
	SendEvent(context.Context, fx.Message) error
}

// Command represents a received command to be processed.
type Command interface {
	Msg() fx.Message
	Done(fx.Message) error
}

// CommandMsg wraps a Command as a Message.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// ControllerRef is a reference to an LED controller.
type ControllerRef struct {
	// Type is controller type, e.g. "axiled".
	Type string
	// ID is unique ID of the board.
	ID string
}

// Name retrieves the name from ref.
func (r ControllerRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates ControllerRef is valid.
func (r ControllerRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// ControllerMeta provides metadata for the controller.
type ControllerMeta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// ControllerInfo provides information of a controller.
type ControllerInfo struct {
	Ref  ControllerRef
	Meta ControllerMeta
}
