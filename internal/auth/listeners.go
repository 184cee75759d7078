package auth

import (
	"sync"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// Listeners is the subscriber set of a session push channel. The zero value
// is ready to use.
type Listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(domain.AuthChange)
}

// Subscribe registers fn and returns a function that removes it. The returned
// function may be called more than once.
func (l *Listeners) Subscribe(fn func(domain.AuthChange)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(domain.AuthChange))
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

// Broadcast calls every subscriber with c outside the lock.
func (l *Listeners) Broadcast(c domain.AuthChange) {
	l.mu.Lock()
	fns := make([]func(domain.AuthChange), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Len returns the number of subscribers.
func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
