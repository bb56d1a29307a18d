package events

// Subscriber receives pipeline events from the bus. The render workers
// consume queued-execution messages through this interface.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// The cancel function unsubscribes and closes the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
