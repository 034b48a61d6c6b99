package ledctl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/axiled/pkg/framework"
	"github.com/robotalks/axiled/pkg/l1"
	"github.com/robotalks/axiled/pkg/l1/msgs"
	"github.com/robotalks/axiled/pkg/pattern"
	"github.com/robotalks/axiled/pkg/regs"
)

type testCommand struct {
	msg   fx.Message
	reply fx.Message
}

func (c *testCommand) Msg() fx.Message { return c.msg }

func (c *testCommand) Done(reply fx.Message) error {
	c.reply = reply
	return nil
}

type eventRecorder struct {
	events []*msgs.LEDStatus
}

func (r *eventRecorder) SendEvent(ctx context.Context, msg fx.Message) error {
	r.events = append(r.events, msg.(*msgs.LEDStatus))
	return nil
}

func newTestLoop(bank regs.Bank, events l1.Registrar) (*fx.Loop, *Controller) {
	ctl := NewController(bank, pattern.Timing{BlinkPeriod: 2, ShiftPeriod: 1})
	ctl.Events = events
	return fx.NewLoop().Add(ctl), ctl
}

func TestControllerDrivesLEDRegister(t *testing.T) {
	bank := regs.NewSimBank()
	bank.Write32(regs.Direction, 1)
	bank.Write32(regs.ActiveCount, 3)
	loop, ctl := newTestLoop(bank, nil)

	var leds []uint32
	for i := 0; i < 4; i++ {
		loop.RunIteration(context.Background())
		leds = append(leds, bank.Read32(regs.LED))
	}
	require.Equal(t, []uint32{0x70, 0x38, 0x1c, 0x0e}, leds)

	status := ctl.Status()
	require.Equal(t, uint64(4), status.Ticks)
	require.Equal(t, uint32(4), status.StartPtr)
	require.Equal(t, "○○○○●●●○", status.Pattern)
}

func TestControllerBlinking(t *testing.T) {
	bank := regs.NewSimBank()
	bank.Write32(regs.ActiveCount, 8)
	bank.Write32(regs.BlinkEnable, 1)
	loop, _ := newTestLoop(bank, nil)

	var leds []uint32
	for i := 0; i < 6; i++ {
		loop.RunIteration(context.Background())
		leds = append(leds, bank.Read32(regs.LED))
	}
	require.Equal(t, []uint32{0xff, 0, 0, 0xff, 0xff, 0}, leds)
}

func TestControllerRegisterCommands(t *testing.T) {
	bank := regs.NewSimBank()
	loop, _ := newTestLoop(bank, nil)

	write := &testCommand{msg: &msgs.RegisterWrite{Offset: regs.ActiveCount, Value: 3}}
	writeLED := &testCommand{msg: &msgs.RegisterWrite{Offset: regs.LED, Value: 0xff}}
	writeBad := &testCommand{msg: &msgs.RegisterWrite{Offset: 0x40, Value: 1}}
	read := &testCommand{msg: &msgs.RegisterRead{Offset: regs.ActiveCount}}
	for _, cmd := range []*testCommand{write, writeLED, writeBad, read} {
		loop.PostMessage(&l1.CommandMsg{Command: cmd})
	}
	loop.RunIteration(context.Background())

	require.Equal(t, msgs.NewCommandOK(), write.reply)
	require.Equal(t, msgs.NewCommandErr(ErrReadOnlyRegister), writeLED.reply)
	require.IsType(t, &msgs.CommandErr{}, writeBad.reply)
	require.Equal(t, &msgs.RegisterValue{Offset: regs.ActiveCount, Value: 3}, read.reply)

	// written before sensing, so the same tick lights 3 LEDs shifted backwards.
	require.Equal(t, uint32(0xc1), bank.Read32(regs.LED))
}

func TestControllerPublishesChanges(t *testing.T) {
	bank := regs.NewSimBank()
	rec := &eventRecorder{}
	loop, _ := newTestLoop(bank, rec)

	for i := 0; i < 3; i++ {
		loop.RunIteration(context.Background())
	}
	// nothing lit, but the start pointer moves on every tick.
	require.Len(t, rec.events, 3)

	bank.Write32(regs.ActiveCount, 8)
	rec.events = nil
	for i := 0; i < 3; i++ {
		loop.RunIteration(context.Background())
	}
	require.Len(t, rec.events, 3)
	require.Equal(t, uint32(0xff), rec.events[0].Value)
	require.Equal(t, uint64(4), rec.events[0].Ticks)
}

func TestControllerSkipsUnchangedStatus(t *testing.T) {
	bank := regs.NewSimBank()
	rec := &eventRecorder{}
	ctl := NewController(bank, pattern.Timing{BlinkPeriod: 100, ShiftPeriod: 100})
	ctl.Events = rec
	loop := fx.NewLoop().Add(ctl)
	for i := 0; i < 5; i++ {
		loop.RunIteration(context.Background())
	}
	require.Len(t, rec.events, 1)
}
