// Package bridge routes named requests from the frontend to registered
// handlers and carries events back the other way.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"localmind-desktop/internal/logger"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrDuplicateCommand = errors.New("command already registered")
	ErrEmptyName        = errors.New("command name is empty")
	ErrSealed           = errors.New("bridge is sealed")
	ErrInvalidArgs      = errors.New("invalid command arguments")
	ErrMissingArg       = errors.New("missing argument")
)

// Handler serves one command. The returned value is marshalled as JSON.
type Handler func(inv *Invocation) (any, error)

// Request is a single frontend call.
type Request struct {
	Command string          `json:"cmd"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response is the outcome of a Request. Err keeps the original error for
// in-process callers; Error is what crosses the wire.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Err   error  `json:"-"`
}

// Bridge routes named requests from the frontend to handlers and carries
// events back. Invoke is safe for concurrent use.
type Bridge struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	sealed   bool

	events *eventBus
	logger logger.Logger
}

// New returns an empty, unsealed Bridge. A nil log discards output.
func New(log logger.Logger) *Bridge {
	if log == nil {
		log = logger.Nop()
	}
	return &Bridge{
		handlers: make(map[string]Handler),
		events:   newEventBus(64, log),
		logger:   log,
	}
}

func (b *Bridge) Register(name string, h Handler) error {
	if name == "" {
		return ErrEmptyName
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sealed {
		return fmt.Errorf("register %q: %w", name, ErrSealed)
	}
	if _, ok := b.handlers[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateCommand)
	}
	b.handlers[name] = h

	b.logger.Debug("Bridge", "command registered", map[string]interface{}{
		"command": name,
	})
	return nil
}

// Seal freezes the command surface. Called once the run loop starts.
func (b *Bridge) Seal() {
	b.mu.Lock()
	b.sealed = true
	b.mu.Unlock()
}

// Commands lists the registered command names in sorted order.
func (b *Bridge) Commands() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *Bridge) Invoke(ctx context.Context, req Request) (resp Response) {
	b.mu.RLock()
	h, ok := b.handlers[req.Command]
	b.mu.RUnlock()

	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownCommand, req.Command)
		return Response{Error: err.Error(), Err: err}
	}

	inv, err := newInvocation(ctx, req)
	if err != nil {
		return Response{Error: err.Error(), Err: err}
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("command %s panicked: %v", req.Command, r)
			b.logger.Error("Bridge", err, nil)
			resp = Response{Error: err.Error(), Err: err}
		}
	}()

	data, err := h(inv)
	if err != nil {
		b.logger.Debug("Bridge", "command failed", map[string]interface{}{
			"command": req.Command,
			"error":   err.Error(),
		})
		return Response{Error: err.Error(), Err: err}
	}
	return Response{Data: data}
}

// InvokeJSON is the wire form of Invoke: JSON arguments in, JSON response out.
// The error return is reserved for encoding failures.
func (b *Bridge) InvokeJSON(ctx context.Context, command string, args []byte) ([]byte, error) {
	resp := b.Invoke(ctx, Request{Command: command, Args: args})
	out, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode %s response: %w", command, err)
	}
	return out, nil
}

// Emit queues an event for every listener of name.
func (b *Bridge) Emit(name string, payload any) {
	b.events.publish(Event{Name: name, Payload: payload})
}

// Listen subscribes fn to name and returns a function that removes it.
func (b *Bridge) Listen(name string, fn func(Event)) (unlisten func()) {
	return b.events.subscribe(name, fn)
}

func (b *Bridge) Shutdown() {
	b.events.shutdown()
}
