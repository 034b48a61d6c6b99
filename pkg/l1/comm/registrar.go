package comm

import (
	"context"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/axiled/pkg/framework"
	"github.com/robotalks/axiled/pkg/l1"
	"github.com/robotalks/axiled/pkg/l1/msgs"
)

// Registrar implements l1.Registrar over a PacketWriter.
// Incoming packets are fed through HandlePacket.
type Registrar struct {
	Writer PacketWriter

	sendLock sync.Mutex
}

// NewRegistrar creates a Registrar.
func NewRegistrar(w PacketWriter) *Registrar {
	return &Registrar{Writer: w}
}

// SendEvent implements l1.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	if !typed.IsEvent() {
		panic("message is not an event")
	}
	return r.sendTyped(typed)
}

// SendReply replies the command identified by seq.
func (r *Registrar) SendReply(msg fx.Message, seq uint32) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	typed.Sequence = seq
	return r.sendTyped(typed)
}

func (r *Registrar) sendTyped(typed *msgs.Typed) error {
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	r.sendLock.Lock()
	defer r.sendLock.Unlock()
	return r.Writer.WritePacket(pkt)
}

// HandlePacket decodes a packet and posts the command into the loop,
// to be applied on the next tick.
func (r *Registrar) HandlePacket(loopCtl fx.LoopControl, pkt []byte) error {
	typed, err := msgs.DecodeTyped(pkt)
	if err != nil {
		return err
	}
	if !typed.IsCommand() || typed.IsReply() {
		glog.V(2).Infof("ignore message %x", typed.TypeId)
		return nil
	}
	msg, err := typed.Decode()
	if err != nil {
		return r.SendReply(msgs.NewCommandErr(err), typed.Sequence)
	}
	loopCtl.PostMessage(&l1.CommandMsg{Command: &command{seq: typed.Sequence, msg: msg, registrar: r}})
	return nil
}

type command struct {
	seq       uint32
	msg       fx.Message
	registrar *Registrar
}

func (c *command) Msg() fx.Message {
	return c.msg
}

func (c *command) Done(msg fx.Message) error {
	return c.registrar.SendReply(msg, c.seq)
}

// RegistrarMux sends events to multiple Registrars.
type RegistrarMux struct {
	Registrars []l1.Registrar
}

// SendEvent implements l1.Registrar.
func (r *RegistrarMux) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.Errors
	for _, reg := range r.Registrars {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Err()
}

// AddToLoop implements LoopAdder.
func (r *RegistrarMux) AddToLoop(l *fx.Loop) {
	for _, reg := range r.Registrars {
		if adder, ok := reg.(fx.LoopAdder); ok {
			l.Add(adder)
		}
	}
	l.Add(&UnsupportedCommands{})
}

// Add adds more registrars.
func (r *RegistrarMux) Add(regs ...l1.Registrar) {
	r.Registrars = append(r.Registrars, regs...)
}

// Empty indicates no registrar is added.
func (r *RegistrarMux) Empty() bool {
	return len(r.Registrars) == 0
}

// UnsupportedCommands replies left-over commands as unsupported.
type UnsupportedCommands struct {
}

// Control implements Controller.
func (c *UnsupportedCommands) Control(cc fx.ControlContext) error {
	cc.Inbox().Take(func(msg fx.Message) bool {
		cmdMsg, ok := msg.(*l1.CommandMsg)
		if ok {
			if err := cmdMsg.Command.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand)); err != nil {
				glog.Errorf("reply unsupported command error: %v", err)
			}
		}
		return ok
	})
	return nil
}

// AddToLoop implements LoopAdder.
func (c *UnsupportedCommands) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.StageIdle, c)
}
