/*
Package chat contains the core logic for tracking WebSocket connections and broadcasting messages.

This file defines the inbound frame representation and the filtering policy.
Payloads are decoded exactly once at the read boundary into a tagged envelope;
the original bytes travel through the relay untouched so delivery stays
byte-for-byte faithful.
*/
package chat

import "encoding/json"

// TypeChat is the envelope tag used by clients for chat messages.
const TypeChat = "message"

// Envelope is the minimal structure every inbound payload must decode to.
// Only the tag is inspected; the rest of the payload is opaque to the relay.
type Envelope struct {
	Type string `json:"type"`
}

// Frame is one inbound payload on its way through the relay.
type Frame struct {
	// sender is the connection the payload arrived on.
	sender *Client

	// data is the original payload, forwarded verbatim.
	data []byte

	// envelope is the decoded tag used for the filtering decision.
	envelope Envelope
}

// ParseEnvelope decodes the payload's envelope. An error means the payload is
// not well-formed JSON and must be dropped.
func ParseEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// FilterFunc decides whether a decoded payload is forwarded.
// The policy varies across deployments, so it is injected into the Hub
// rather than hard-coded.
type FilterFunc func(env Envelope) bool

// ForwardAll forwards every well-formed payload.
func ForwardAll(Envelope) bool {
	return true
}

// ChatOnly forwards only payloads tagged as chat messages.
func ChatOnly(env Envelope) bool {
	return env.Type == TypeChat
}
