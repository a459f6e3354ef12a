package clock

import (
	"sync"

	"github.com/Naimy441/nutriuni/internal/logger"
)

// State is an app lifecycle transition.
type State int

const (
	Foreground State = iota
	Background
)

func (s State) String() string {
	switch s {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	default:
		return "unknown"
	}
}

// Lifecycle fans transitions out to subscribers in subscription order.
type Lifecycle struct {
	mu   sync.Mutex
	next int
	subs []subscription
}

type subscription struct {
	id int
	fn func(State)
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

// Subscribe registers fn. The returned func removes only this subscription
// and may be called any number of times.
func (l *Lifecycle) Subscribe(fn func(State)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	id := l.next
	l.subs = append(l.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for i, s := range l.subs {
				if s.id == id {
					l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Emit delivers s to every subscriber. A panicking subscriber is logged and
// does not stop delivery to the rest.
func (l *Lifecycle) Emit(s State) {
	l.mu.Lock()
	subs := make([]subscription, len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()

	for _, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Lifecycle subscriber panicked", "state", s, "panic", r)
				}
			}()
			sub.fn(s)
		}()
	}
}

// Subscribers reports the number of active subscriptions.
func (l *Lifecycle) Subscribers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}
