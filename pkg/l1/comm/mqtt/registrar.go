package mqtt

import (
	"context"
	"encoding/json"
	"errors"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	fx "github.com/robotalks/axiled/pkg/framework"
	"github.com/robotalks/axiled/pkg/l1"
	"github.com/robotalks/axiled/pkg/l1/comm"
)

var errPublishTimeout = errors.New("mqtt publish timeout")

// Registrar implements l1.Registrar using MQTT.
//
// Topics, relative to the prefix of the broker URL:
//   TYPE/ID/meta  retained controller metadata, cleared on exit
//   TYPE/ID/cmd   commands from peers
//   TYPE/ID/msg   replies and events
type Registrar struct {
	Queue *Queue
	Info  l1.ControllerInfo

	metaJSON  []byte
	registrar *comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info l1.ControllerInfo) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+info.Ref.Name()+"/meta", nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("axiled:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		metaJSON: meta,
	}
	r.Queue.OnConnect = func(*Queue) { r.publishMeta(r.metaJSON) }
	r.registrar = comm.NewRegistrar(comm.PacketWriterFunc(r.writePacket))
	return r, nil
}

// SendEvent implements l1.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	if !r.Queue.Client.IsConnected() {
		return nil
	}
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("mqtt", r))
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	sub := r.Queue.Sub(r.topic("cmd"), func(topic string, payload []byte) {
		if err := r.registrar.HandlePacket(loopCtl, payload); err != nil {
			glog.Errorf("bad command on %q: %v", topic, err)
		}
	})
	r.Queue.Connect()
	<-ctx.Done()
	sub.Close()
	r.publishMeta(nil).WaitTimeout(PublishTimeout)
	r.Queue.Close()
	return ctx.Err()
}

func (r *Registrar) topic(name string) string {
	return r.Info.Ref.Name() + "/" + name
}

func (r *Registrar) publishMeta(meta []byte) paho.Token {
	return r.Queue.PubWith(r.topic("meta"), meta, 1, true)
}

func (r *Registrar) writePacket(pkt []byte) error {
	token := r.Queue.Pub(r.topic("msg"), pkt)
	if !token.WaitTimeout(PublishTimeout) {
		return errPublishTimeout
	}
	return token.Error()
}
