package events

import (
	"context"
	"errors"
	"sync"
)

// Handler receives events synchronously on the publishing goroutine.
type Handler func(ctx context.Context, e Event) error

// Bus fans events out to in-process subscribers in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it again.
func (b *Bus) Subscribe(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish calls every subscriber even if some fail; failures are joined.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := s.fn(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Multi publishes to every publisher in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
