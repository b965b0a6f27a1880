package notes

import (
	"NProject/logger"

	"github.com/pkg/errors"
)

// Dispatcher routes inbound frames to the handler registered for their
// event name. Registration happens once during start-up wiring.
type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Register(h Handler) { d.handlers[h.Event()] = h }

func (d *Dispatcher) Dispatch(c *Context, f *Frame, conn Conn) error {
	h, ok := d.handlers[f.Event]
	if !ok {
		return errors.Errorf("no handler for event=%q", f.Event)
	}
	return h.Handle(c, f, conn)
}

func (d *Dispatcher) GetHandler(event string) Handler {
	h, ok := d.handlers[event]
	if !ok {
		logger.Infof("no handler for event=%q", event)
		return nil
	}
	return h
}
