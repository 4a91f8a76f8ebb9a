// Package notifier fans out change pings to long-lived SSE handlers.
package notifier

import "sync"

// Topic names what changed.
type Topic string

// Topics published by the server.
const (
	// TopicRuns fires after a profiling run is recorded.
	TopicRuns Topic = "runs"
	// TopicTables fires after seed files are reloaded into the target.
	TopicTables Topic = "tables"
)

// Notifier broadcasts pings per topic. Listeners receive an empty struct
// and re-read whatever state they render.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]map[Topic]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]map[Topic]struct{}),
	}
}

// Subscribe returns a channel pinged when any of topics is published.
// No topics subscribes to all of them. Callers must Unsubscribe.
func (n *Notifier) Subscribe(topics ...Topic) chan struct{} {
	ch := make(chan struct{}, 1)
	var set map[Topic]struct{}
	if len(topics) > 0 {
		set = make(map[Topic]struct{}, len(topics))
		for _, t := range topics {
			set[t] = struct{}{}
		}
	}
	n.mu.Lock()
	n.listeners[ch] = set
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	_, ok := n.listeners[ch]
	delete(n.listeners, ch)
	n.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Broadcast pings every listener of topic. A listener with a pending ping
// is skipped.
func (n *Notifier) Broadcast(topic Topic) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, topics := range n.listeners {
		if topics != nil {
			if _, ok := topics[topic]; !ok {
				continue
			}
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
