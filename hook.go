package mqttacl

import (
	"bytes"
	"context"
	"log/slog"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"
)

// PrincipalExtractor maps a connected client to a principal. The
// default treats the MQTT username as the principal id and an empty
// username as anonymous; group membership is loaded from the store
// during evaluation.
type PrincipalExtractor func(cl *mqtt.Client) *Principal

func defaultPrincipalExtractor(cl *mqtt.Client) *Principal {
	username := string(cl.Properties.Username)
	if username == "" {
		return nil
	}
	return &Principal{ID: username}
}

// AuthHook bridges a mochi-mqtt broker to the decision engine: the
// connect check runs at CONNECT, the ACL check at PUBLISH and
// SUBSCRIBE, and accepted connects, publishes and disconnects are
// forwarded to an optional Events dispatcher.
//
// Example:
//
//	server := mqtt.New(nil)
//	_ = server.AddHook(mqttacl.NewAuthHook(engine, events, nil), nil)
type AuthHook struct {
	mqtt.HookBase
	engine    *Engine
	events    *Events
	log       *slog.Logger
	principal PrincipalExtractor
}

// NewAuthHook creates a broker hook over an engine. events may be nil
// when no notifications are wanted; a nil logger falls back to
// slog.Default.
func NewAuthHook(engine *Engine, events *Events, logger *slog.Logger) *AuthHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHook{
		engine:    engine,
		events:    events,
		log:       logger,
		principal: defaultPrincipalExtractor,
	}
}

// SetPrincipalExtractor replaces the default username-based principal
// mapping. Call before the hook is added to the server.
func (h *AuthHook) SetPrincipalExtractor(fn PrincipalExtractor) {
	h.principal = fn
}

// ID returns the hook identifier.
func (h *AuthHook) ID() string {
	return "mqttacl-auth"
}

// Provides indicates which hook methods this hook provides.
func (h *AuthHook) Provides(b byte) bool {
	return bytes.Contains([]byte{
		mqtt.OnConnectAuthenticate,
		mqtt.OnACLCheck,
		mqtt.OnPublish,
		mqtt.OnDisconnect,
	}, []byte{b})
}

// OnConnectAuthenticate runs the connect check for a client.
func (h *AuthHook) OnConnectAuthenticate(cl *mqtt.Client, pk packets.Packet) bool {
	principal := h.principal(cl)
	secret := string(pk.Connect.Password)

	ok, err := h.engine.CheckConnect(context.Background(), cl.ID, principal, secret)
	if !ok {
		attrs := []any{"client", cl.ID}
		if err != nil {
			attrs = append(attrs, "error", err)
		}
		h.log.Info("connect denied", attrs...)
		return false
	}

	if h.events != nil {
		h.events.EmitConnect(ConnectEvent{ClientID: cl.ID, Principal: principal})
	}
	return true
}

// OnACLCheck runs the topic check for a publish (write) or subscribe.
func (h *AuthHook) OnACLCheck(cl *mqtt.Client, topic string, write bool) bool {
	access := AccessSubscribe
	if write {
		access = AccessPublish
	}

	ok, err := h.engine.CheckACL(context.Background(), topic, access, h.principal(cl), "")
	if !ok {
		attrs := []any{"client", cl.ID, "topic", topic, "access", access.String()}
		if err != nil {
			attrs = append(attrs, "error", err)
		}
		h.log.Info("access denied", attrs...)
	}
	return ok
}

// OnPublish forwards accepted publishes to the event dispatcher.
func (h *AuthHook) OnPublish(cl *mqtt.Client, pk packets.Packet) (packets.Packet, error) {
	if h.events != nil {
		h.events.EmitPublish(PublishEvent{
			ClientID: cl.ID,
			Topic:    pk.TopicName,
			Payload:  pk.Payload,
			QoS:      pk.FixedHeader.Qos,
			Retain:   pk.FixedHeader.Retain,
		})
	}
	return pk, nil
}

// OnDisconnect forwards disconnects to the event dispatcher.
func (h *AuthHook) OnDisconnect(cl *mqtt.Client, err error, expire bool) {
	if h.events != nil {
		h.events.EmitDisconnect(DisconnectEvent{ClientID: cl.ID, Err: err})
	}
}
