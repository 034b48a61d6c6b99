package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/axiled/pkg/framework"
)

type localMsg struct{}

func (m *localMsg) NewMessage() fx.Message { return &localMsg{} }

func TestTypedEnvelope(t *testing.T) {
	typed, err := TypedFrom(&RegisterWrite{Offset: 0x08, Value: 3})
	require.NoError(t, err)
	typed.Sequence = 7
	require.True(t, typed.IsCommand())
	require.False(t, typed.IsReply())

	data, err := typed.Encode()
	require.NoError(t, err)
	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, uint32(7), decoded.Sequence)
	require.Equal(t, RegisterWriteTypeID, decoded.TypeId)

	msg, err := decoded.Decode()
	require.NoError(t, err)
	require.Equal(t, &RegisterWrite{Offset: 0x08, Value: 3}, msg)
}

func TestTypedKinds(t *testing.T) {
	testCases := []struct {
		name    string
		msg     SerializableMessage
		event   bool
		command bool
		reply   bool
	}{
		{name: "read", msg: &RegisterRead{}, command: true},
		{name: "value", msg: &RegisterValue{}, command: true, reply: true},
		{name: "ok", msg: NewCommandOK(), command: true, reply: true},
		{name: "err", msg: NewCommandErrFromMsg("x"), command: true, reply: true},
		{name: "status", msg: &LEDStatus{}, event: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typed, err := TypedFrom(tc.msg)
			require.NoError(t, err)
			require.Equal(t, tc.event, typed.IsEvent())
			require.Equal(t, tc.command, typed.IsCommand())
			require.Equal(t, tc.reply, typed.IsReply())
		})
	}
}

func TestTypedErrors(t *testing.T) {
	_, err := TypedFrom(&localMsg{})
	require.Equal(t, ErrNotSerializable, err)

	_, err = (&Typed{TypeId: 0x00ff0000}).Decode()
	require.IsType(t, &ErrUnknownType{}, err)
	require.Equal(t, "unknown type: ff0000", err.Error())
}

func TestCommandErr(t *testing.T) {
	var err error = NewCommandErr(ErrUnsupportedCommand)
	require.EqualError(t, err, "unsupported command")
}
