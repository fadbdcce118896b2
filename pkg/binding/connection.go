package binding

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	fberrors "github.com/vango-dev/formbind/internal/errors"
	"github.com/vango-dev/formbind/pkg/reactive"
	"github.com/vango-dev/formbind/pkg/signup"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 64
)

// connection is one bound form.
type connection struct {
	server *Server
	conn   *websocket.Conn
	logger *slog.Logger

	loop *reactive.Loop
	svc  *scopedService
	vm   *signup.ViewModel
	subs []*reactive.Subscription

	send      chan ServerMessage
	done      chan struct{}
	closeOnce sync.Once
}

func newConnection(s *Server, conn *websocket.Conn) *connection {
	logger := s.logger.With("remote", conn.RemoteAddr().String())
	c := &connection{
		server: s,
		conn:   conn,
		logger: logger,
		loop:   reactive.NewLoop(reactive.WithLoopLogger(logger)),
		svc:    newScopedService(s.svc),
		send:   make(chan ServerMessage, sendBuffer),
		done:   make(chan struct{}),
	}

	opts := append([]signup.Option{}, s.vmOpts...)
	if s.metrics != nil {
		opts = append(opts, signup.WithActionMiddleware(s.metrics.Middleware()))
	}
	opts = append(opts, signup.WithScheduler(c.loop), signup.WithLogger(logger))
	c.vm = signup.New(c.svc, opts...)
	return c
}

// serve runs the connection until the peer goes away.
func (c *connection) serve() {
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		c.writePump()
	}()

	c.loop.Schedule(c.bind)
	c.readPump()

	c.close()
	c.loop.Schedule(c.unbind)
	c.loop.Close()
	c.svc.close()
	writer.Wait()
}

// bind subscribes the form outputs. It runs on the loop.
func (c *connection) bind() {
	submit := c.vm.Submit()
	pushState := func() {
		c.push(stateMessage(submit.State().String(), submit.Enabled().Get()))
	}

	c.subs = append(c.subs,
		c.vm.Reasons().Subscribe(func(text string) {
			c.push(reasonsMessage(text))
		}),
		submit.StateProperty().OnChange(pushState),
		submit.Enabled().OnChange(pushState),
		submit.Completed().Subscribe(func(struct{}) {
			c.push(ServerMessage{Type: TypeCompleted})
		}),
		submit.Errors().Subscribe(func(err error) {
			c.push(errorMessage(TypeFailed, err))
		}),
	)

	c.push(reasonsMessage(c.vm.CurrentReasons()))
	pushState()
}

// unbind releases the form. It runs on the loop.
func (c *connection) unbind() {
	for _, sub := range c.subs {
		sub.Unsubscribe()
	}
	c.subs = nil
	c.vm.Close()
}

// readPump reads frames until the transport fails. A frame that does not
// decode is answered with a rejection and the binding stays up.
func (c *connection) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, r, err := c.conn.NextReader()
		if err != nil {
			c.readEnded(err)
			return
		}
		data, err := io.ReadAll(r)
		if err != nil {
			c.readEnded(err)
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.push(errorMessage(TypeRejected, fberrors.New("P001").WithDetail(err.Error())))
			continue
		}
		c.loop.Schedule(func() { c.apply(msg) })
	}
}

func (c *connection) readEnded(err error) {
	if isClosing(c.done) || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return
	}
	c.logger.Debug("binding read ended", "error", err)
}

// apply performs one client message. It runs on the loop.
func (c *connection) apply(msg ClientMessage) {
	switch msg.Type {
	case TypeSet:
		if err := c.set(msg.Field, msg.Value); err != nil {
			c.push(errorMessage(TypeRejected, err))
		}
	case TypeSubmit:
		if err := c.vm.Submit().Run(); err != nil {
			c.push(errorMessage(TypeRejected, err))
		}
	default:
		c.push(errorMessage(TypeRejected,
			fberrors.New("P001").WithDetail("unknown message type "+msg.Type)))
	}
}

func (c *connection) set(field string, raw json.RawMessage) error {
	switch field {
	case FieldEmail, FieldEmailConfirmation:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fberrors.New("P001").WithDetail(field + " must be a string").Wrap(err)
		}
		if field == FieldEmail {
			c.vm.Email().Set(v)
		} else {
			c.vm.EmailConfirmation().Set(v)
		}
	case FieldTermsAccepted:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return fberrors.New("P001").WithDetail(field + " must be a boolean").Wrap(err)
		}
		c.vm.TermsAccepted().Set(v)
	default:
		return fberrors.New("P002").WithDetail("unknown field " + field)
	}
	return nil
}

// push queues msg for the writer. It drops msg once the connection closed.
func (c *connection) push(msg ServerMessage) {
	select {
	case c.send <- msg:
	case <-c.done:
	}
}

// writePump owns the socket: it sends queued messages and, once the
// connection is closing, the close frame before closing the socket.
func (c *connection) writePump() {
	defer c.conn.Close()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("binding write failed", "error", err)
				c.close()
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// close asks the writer to send the close frame and release the socket.
// Safe to call more than once.
func (c *connection) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// discard releases a connection that was never served.
func (c *connection) discard() {
	c.loop.Close()
	c.vm.Close()
	c.svc.close()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
	_ = c.conn.Close()
}

func isClosing(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}
