package tracking

import (
	"sync"

	"github.com/zaika-app/zaika/pkg/metrics"
)

// subscriber buffer size. Sends never block; a subscriber that falls this
// far behind misses intermediate patches and catches up on the next one.
const subscriberBuffer = 8

// Broker fans tracking patches out to per-order subscribers.
type Broker struct {
	mu   sync.RWMutex
	subs map[uint]map[chan Patch]struct{}
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[uint]map[chan Patch]struct{})}
}

// Subscribe registers interest in one order's patches. The returned cancel
// function unregisters the channel; after it returns no more sends happen.
func (b *Broker) Subscribe(orderID uint) (<-chan Patch, func()) {
	ch := make(chan Patch, subscriberBuffer)

	b.mu.Lock()
	if b.subs[orderID] == nil {
		b.subs[orderID] = make(map[chan Patch]struct{})
	}
	b.subs[orderID][ch] = struct{}{}
	b.mu.Unlock()

	metrics.TrackingSubscribers.Inc()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subs[orderID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(b.subs, orderID)
				}
			}
			b.mu.Unlock()
			metrics.TrackingSubscribers.Dec()
		})
	}
	return ch, cancel
}

// Publish delivers a patch to every subscriber of its order without
// blocking. Slow subscribers drop the patch.
func (b *Broker) Publish(p Patch) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[p.OrderID] {
		select {
		case ch <- p:
		default:
		}
	}
}
