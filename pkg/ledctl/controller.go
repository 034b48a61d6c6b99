// Package ledctl drives the LED strip from the control registers,
// one tick per loop iteration.
package ledctl

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/axiled/pkg/framework"
	"github.com/robotalks/axiled/pkg/l1"
	"github.com/robotalks/axiled/pkg/l1/msgs"
	"github.com/robotalks/axiled/pkg/pattern"
	"github.com/robotalks/axiled/pkg/regs"
)

// ErrReadOnlyRegister is returned when writing the LED register remotely,
// which is owned by the controller.
var ErrReadOnlyRegister = errors.New("LED register is written by the controller")

// Controller reads the control registers and writes the LED register
// once per loop iteration.
type Controller struct {
	Bank   regs.Bank
	Timing pattern.Timing
	// Events receives LEDStatus when it changes, optional.
	Events l1.Registrar

	state  pattern.State
	inputs pattern.Inputs
	output uint8
	ticks  uint64

	published *msgs.LEDStatus
	lock      sync.RWMutex
}

// NewController creates a Controller.
func NewController(bank regs.Bank, timing pattern.Timing) *Controller {
	return &Controller{
		Bank:   bank,
		Timing: timing,
		state:  pattern.NewState(),
	}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.StageCommand, fx.ControlFunc(c.applyCommands))
	loop.AddController(fx.StageSense, fx.ControlFunc(c.sense))
	loop.AddController(fx.StageControl, c)
	loop.AddController(fx.StageActuate, fx.ControlFunc(c.actuate))
	if c.Events != nil {
		loop.AddController(fx.StagePublish, fx.ControlFunc(c.notifyStatusChange))
	}
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.state, c.output = pattern.Tick(c.state, c.inputs, c.Timing)
	c.ticks++
	if glog.V(4) {
		glog.Infof("tick %d: ptr=%d mask=%d %s", c.ticks, c.state.StartPtr, c.state.BlinkMask, pattern.Decode(c.output))
	}
	return nil
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() *msgs.LEDStatus {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.status()
}

func (c *Controller) status() *msgs.LEDStatus {
	return &msgs.LEDStatus{
		Value:       uint32(c.output),
		Pattern:     pattern.Decode(c.output).String(),
		StartPtr:    uint32(c.state.StartPtr),
		BlinkMask:   uint32(c.state.BlinkMask),
		Direction:   c.inputs.Direction,
		ActiveCount: c.inputs.ActiveCount,
		BlinkEnable: c.inputs.BlinkEnable,
		Ticks:       c.ticks,
	}
}

func (c *Controller) sense(cc fx.ControlContext) error {
	in := pattern.Inputs{
		Direction:   c.Bank.Read32(regs.Direction),
		ActiveCount: c.Bank.Read32(regs.ActiveCount),
		BlinkEnable: c.Bank.Read32(regs.BlinkEnable),
	}
	c.lock.Lock()
	c.inputs = in
	c.lock.Unlock()
	return nil
}

func (c *Controller) actuate(cc fx.ControlContext) error {
	c.lock.RLock()
	out := c.output
	c.lock.RUnlock()
	c.Bank.Write32(regs.LED, uint32(out))
	return nil
}

func (c *Controller) notifyStatusChange(cc fx.ControlContext) error {
	c.lock.Lock()
	status := c.status()
	changed := c.published == nil || !sameStrip(c.published, status)
	if changed {
		c.published = status
	}
	c.lock.Unlock()
	if changed {
		return c.Events.SendEvent(cc.Context(), status)
	}
	return nil
}

// sameStrip ignores the tick counter.
func sameStrip(a, b *msgs.LEDStatus) bool {
	return a.Value == b.Value &&
		a.StartPtr == b.StartPtr &&
		a.BlinkMask == b.BlinkMask &&
		a.Direction == b.Direction &&
		a.ActiveCount == b.ActiveCount &&
		a.BlinkEnable == b.BlinkEnable
}

func (c *Controller) applyCommands(cc fx.ControlContext) error {
	cc.Inbox().Take(func(msg fx.Message) bool {
		cmdMsg, ok := msg.(*l1.CommandMsg)
		if !ok {
			return false
		}
		var reply fx.Message
		switch m := cmdMsg.Command.Msg().(type) {
		case *msgs.RegisterRead:
			reply = c.readRegister(m)
		case *msgs.RegisterWrite:
			reply = c.writeRegister(m)
		default:
			return false
		}
		if err := cmdMsg.Command.Done(reply); err != nil {
			glog.Errorf("reply command error: %v", err)
		}
		return true
	})
	return nil
}

func (c *Controller) readRegister(m *msgs.RegisterRead) fx.Message {
	if !regs.IsRegister(m.Offset) {
		return msgs.NewCommandErrFromMsg(fmt.Sprintf("no register at offset 0x%02x", m.Offset))
	}
	return &msgs.RegisterValue{Offset: m.Offset, Value: c.Bank.Read32(m.Offset)}
}

func (c *Controller) writeRegister(m *msgs.RegisterWrite) fx.Message {
	if !regs.IsRegister(m.Offset) {
		return msgs.NewCommandErrFromMsg(fmt.Sprintf("no register at offset 0x%02x", m.Offset))
	}
	if m.Offset == regs.LED {
		return msgs.NewCommandErr(ErrReadOnlyRegister)
	}
	glog.Infof("remote write %s=%d", regs.Name(m.Offset), m.Value)
	c.Bank.Write32(m.Offset, m.Value)
	return msgs.NewCommandOK()
}
