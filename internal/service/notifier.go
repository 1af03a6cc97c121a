package service

import (
	"sync"
	"sync/atomic"
)

const subscriberBuffer = 16

// notifier fans redraw notifications out to subscribers. A subscriber whose
// buffer is full misses the notification; the next one carries the same
// information since every notification means "fetch the view again".
type notifier struct {
	mu       sync.Mutex
	subs     map[<-chan string]chan string
	revision atomic.Uint64
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[<-chan string]chan string)}
}

func (n *notifier) subscribe() <-chan string {
	ch := make(chan string, subscriberBuffer)
	n.mu.Lock()
	n.subs[ch] = ch
	n.mu.Unlock()
	return ch
}

func (n *notifier) unsubscribe(ch <-chan string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if c, ok := n.subs[ch]; ok {
		delete(n.subs, ch)
		close(c)
	}
}

// publish bumps the revision and tells every subscriber which widget changed.
func (n *notifier) publish(widget string) {
	n.revision.Add(1)

	n.mu.Lock()
	defer n.mu.Unlock()
	for _, c := range n.subs {
		select {
		case c <- widget:
		default:
		}
	}
}

func (n *notifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
