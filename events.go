package mqttacl

import "sync"

// ConnectEvent is emitted after a client passes the connect check.
type ConnectEvent struct {
	ClientID  string
	Principal *Principal // nil for anonymous
}

// PublishEvent is emitted for each accepted publish.
type PublishEvent struct {
	ClientID string
	Topic    string
	Payload  []byte
	QoS      byte
	Retain   bool
}

// DisconnectEvent is emitted when a client disconnects.
type DisconnectEvent struct {
	ClientID string
	Err      error // nil on clean disconnect
}

// Events dispatches connect/publish/disconnect notifications to
// registered handlers. Dispatch is fire-and-forget: handlers cannot
// veto or alter anything, and the decision engine never consumes
// events. Registration and emission are safe for concurrent use;
// handlers run on the emitting goroutine, so long-running work belongs
// behind the handler's own queue.
type Events struct {
	mu         sync.RWMutex
	connect    []func(ConnectEvent)
	publish    []func(PublishEvent)
	disconnect []func(DisconnectEvent)
}

// NewEvents creates an empty dispatcher.
func NewEvents() *Events {
	return &Events{}
}

// OnConnect registers a connect handler.
func (e *Events) OnConnect(fn func(ConnectEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connect = append(e.connect, fn)
}

// OnPublish registers a publish handler.
func (e *Events) OnPublish(fn func(PublishEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.publish = append(e.publish, fn)
}

// OnDisconnect registers a disconnect handler.
func (e *Events) OnDisconnect(fn func(DisconnectEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disconnect = append(e.disconnect, fn)
}

// EmitConnect delivers a connect event to all handlers.
func (e *Events) EmitConnect(ev ConnectEvent) {
	for _, fn := range e.connectHandlers() {
		fn(ev)
	}
}

// EmitPublish delivers a publish event to all handlers.
func (e *Events) EmitPublish(ev PublishEvent) {
	for _, fn := range e.publishHandlers() {
		fn(ev)
	}
}

// EmitDisconnect delivers a disconnect event to all handlers.
func (e *Events) EmitDisconnect(ev DisconnectEvent) {
	for _, fn := range e.disconnectHandlers() {
		fn(ev)
	}
}

// Handler slices are snapshotted under the read lock so emission never
// holds the lock across handler calls.

func (e *Events) connectHandlers() []func(ConnectEvent) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append(([]func(ConnectEvent))(nil), e.connect...)
}

func (e *Events) publishHandlers() []func(PublishEvent) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append(([]func(PublishEvent))(nil), e.publish...)
}

func (e *Events) disconnectHandlers() []func(DisconnectEvent) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append(([]func(DisconnectEvent))(nil), e.disconnect...)
}
