package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/axiled/pkg/framework"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic message representing command error.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{Message: message}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// RegisterRead reads a register.
type RegisterRead struct {
	Offset uint32 `protobuf:"varint,1,opt,name=offset,proto3" json:"offset,omitempty"`
}

// NewMessage implements Message.
func (m *RegisterRead) NewMessage() fx.Message { return &RegisterRead{} }

// TypeID implements SerializableMessage.
func (m *RegisterRead) TypeID() uint32 { return RegisterReadTypeID }

// Serializable implements SerializableMessage.
func (m *RegisterRead) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *RegisterRead) ProtoMessage() {}

// Reset implements proto.Message.
func (m *RegisterRead) Reset() { *m = RegisterRead{} }

// String implements proto.Message.
func (m *RegisterRead) String() string { return proto.CompactTextString(m) }

// RegisterValue is the reply of RegisterRead.
type RegisterValue struct {
	Offset uint32 `protobuf:"varint,1,opt,name=offset,proto3" json:"offset,omitempty"`
	Value  uint32 `protobuf:"varint,2,opt,name=value,proto3" json:"value"`
}

// NewMessage implements Message.
func (m *RegisterValue) NewMessage() fx.Message { return &RegisterValue{} }

// TypeID implements SerializableMessage.
func (m *RegisterValue) TypeID() uint32 { return RegisterValueTypeID }

// Serializable implements SerializableMessage.
func (m *RegisterValue) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *RegisterValue) ProtoMessage() {}

// Reset implements proto.Message.
func (m *RegisterValue) Reset() { *m = RegisterValue{} }

// String implements proto.Message.
func (m *RegisterValue) String() string { return proto.CompactTextString(m) }

// RegisterWrite writes one of the control registers.
type RegisterWrite struct {
	Offset uint32 `protobuf:"varint,1,opt,name=offset,proto3" json:"offset,omitempty"`
	Value  uint32 `protobuf:"varint,2,opt,name=value,proto3" json:"value"`
}

// NewMessage implements Message.
func (m *RegisterWrite) NewMessage() fx.Message { return &RegisterWrite{} }

// TypeID implements SerializableMessage.
func (m *RegisterWrite) TypeID() uint32 { return RegisterWriteTypeID }

// Serializable implements SerializableMessage.
func (m *RegisterWrite) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *RegisterWrite) ProtoMessage() {}

// Reset implements proto.Message.
func (m *RegisterWrite) Reset() { *m = RegisterWrite{} }

// String implements proto.Message.
func (m *RegisterWrite) String() string { return proto.CompactTextString(m) }

// LEDStatus is the event published when the strip changes.
type LEDStatus struct {
	// Value is what was written to the LED register.
	Value       uint32 `protobuf:"varint,1,opt,name=value,proto3" json:"value"`
	Pattern     string `protobuf:"bytes,2,opt,name=pattern,proto3" json:"pattern,omitempty"`
	StartPtr    uint32 `protobuf:"varint,3,opt,name=start_ptr,proto3" json:"start_ptr"`
	BlinkMask   uint32 `protobuf:"varint,4,opt,name=blink_mask,proto3" json:"blink_mask"`
	Direction   uint32 `protobuf:"varint,5,opt,name=direction,proto3" json:"direction"`
	ActiveCount uint32 `protobuf:"varint,6,opt,name=active_count,proto3" json:"active_count"`
	BlinkEnable uint32 `protobuf:"varint,7,opt,name=blink_enable,proto3" json:"blink_enable"`
	Ticks       uint64 `protobuf:"varint,8,opt,name=ticks,proto3" json:"ticks"`
}

// NewMessage implements Message.
func (m *LEDStatus) NewMessage() fx.Message { return &LEDStatus{} }

// TypeID implements SerializableMessage.
func (m *LEDStatus) TypeID() uint32 { return LEDStatusEventTypeID }

// Serializable implements SerializableMessage.
func (m *LEDStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LEDStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LEDStatus) Reset() { *m = LEDStatus{} }

// String implements proto.Message.
func (m *LEDStatus) String() string { return proto.CompactTextString(m) }

// TypeID Groups
const (
	GroupCommand  uint32 = 0x00000000
	GroupRegister uint32 = 0x00010000
	GroupLED      uint32 = 0x00020000
)

// TypeIDs
const (
	CommandOKTypeID      uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID     uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	RegisterReadTypeID   uint32 = GroupRegister | 0x0000
	RegisterValueTypeID  uint32 = RegisterReadTypeID | TypeIDMaskReply
	RegisterWriteTypeID  uint32 = GroupRegister | 0x0001
	LEDStatusEventTypeID uint32 = GroupLED | TypeIDKindEvent | 0x0000
)

// MessageTypes maps type IDs to messages.
var MessageTypes = map[uint32]SerializableMessage{
	CommandOKTypeID:      (*CommandOK)(nil),
	CommandErrTypeID:     (*CommandErr)(nil),
	RegisterReadTypeID:   (*RegisterRead)(nil),
	RegisterValueTypeID:  (*RegisterValue)(nil),
	RegisterWriteTypeID:  (*RegisterWrite)(nil),
	LEDStatusEventTypeID: (*LEDStatus)(nil),
}
