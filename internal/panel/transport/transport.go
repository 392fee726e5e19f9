// Package transport connects the panel to the MQTT broker the device
// listens on. Publishing is fire-and-forget: delivery is never awaited.
package transport

// Publisher is the messaging capability the panel core depends on.
type Publisher interface {
	// IsConnected reports whether the broker connection is currently up.
	IsConnected() bool

	// Publish sends payload to topic without waiting for acknowledgement.
	// It fails with common.ErrNotConnected while disconnected.
	Publish(topic, payload string) error
}
