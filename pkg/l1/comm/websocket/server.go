// Package websocket streams controller events to websocket clients as JSON.
package websocket

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/axiled/pkg/framework"
)

// Path is where clients connect to receive events.
const Path = "/events"

const (
	// DefaultBacklog is the number of events queued per client.
	DefaultBacklog = 16
	// DefaultWriteTimeout bounds a single frame write.
	DefaultWriteTimeout = 2 * time.Second
)

// Server implements l1.Registrar by broadcasting events.
// SendEvent only queues: a client falling behind loses events and
// a client not reading at all is disconnected after WriteTimeout.
type Server struct {
	Addr         string
	Backlog      int
	WriteTimeout time.Duration

	clients map[*client]struct{}
	dropped uint64
	lock    sync.Mutex
}

type client struct {
	conn   *websocket.Conn
	events chan []byte
}

// NewServer creates a Server listening on addr.
func NewServer(addr string) *Server {
	return &Server{
		Addr:         addr,
		Backlog:      DefaultBacklog,
		WriteTimeout: DefaultWriteTimeout,
		clients:      make(map[*client]struct{}),
	}
}

// Handler serves websocket clients.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(Path, websocket.Handler(s.serveConn))
	return mux
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.clients)
}

// Dropped returns the number of events discarded for slow clients.
func (s *Server) Dropped() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.dropped
}

// SendEvent implements l1.Registrar. It never blocks on clients.
func (s *Server) SendEvent(ctx context.Context, msg fx.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	for c := range s.clients {
		select {
		case c.events <- data:
		default:
			s.dropped++
			glog.V(2).Infof("websocket client %s behind, event dropped", c.conn.Request().RemoteAddr)
		}
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("websocket", s))
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler()}
	glog.Infof("websocket events on %s%s", s.Addr, Path)
	err := fx.RunWithContextCloser(ctx, srv, srv.ListenAndServe)
	s.closeClients()
	if err == http.ErrServerClosed {
		return ctx.Err()
	}
	return err
}

func (s *Server) closeClients() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for c := range s.clients {
		c.conn.Close()
	}
}

func (s *Server) serveConn(conn *websocket.Conn) {
	backlog := s.Backlog
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	c := &client{conn: conn, events: make(chan []byte, backlog)}
	s.lock.Lock()
	s.clients[c] = struct{}{}
	s.lock.Unlock()
	glog.V(2).Infof("websocket client %s connected", conn.Request().RemoteAddr)

	// Clients aren't expected to send anything, reading detects disconnection.
	gone := make(chan struct{})
	go func() {
		io.Copy(ioutil.Discard, conn)
		close(gone)
	}()
	s.writeEvents(c, gone)

	s.lock.Lock()
	delete(s.clients, c)
	s.lock.Unlock()
	conn.Close()
	glog.V(2).Infof("websocket client %s disconnected", conn.Request().RemoteAddr)
}

func (s *Server) writeEvents(c *client, gone <-chan struct{}) {
	timeout := s.WriteTimeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	for {
		select {
		case <-gone:
			return
		case data := <-c.events:
			c.conn.SetWriteDeadline(time.Now().Add(timeout))
			if err := websocket.Message.Send(c.conn, string(data)); err != nil {
				glog.V(2).Infof("drop websocket client %s: %v", c.conn.Request().RemoteAddr, err)
				return
			}
		}
	}
}
