package auth

import (
	"testing"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

func TestListeners_BroadcastAndUnsubscribe(t *testing.T) {
	t.Parallel()

	var l Listeners
	var a, b int
	unsubA := l.Subscribe(func(domain.AuthChange) { a++ })
	l.Subscribe(func(domain.AuthChange) { b++ })

	l.Broadcast(domain.AuthChange{Event: domain.AuthSignedOut})
	unsubA()
	unsubA()
	l.Broadcast(domain.AuthChange{Event: domain.AuthSignedOut})

	if a != 1 || b != 2 {
		t.Fatalf("a=%d b=%d, want 1 and 2", a, b)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestListeners_SubscribeFromCallback(t *testing.T) {
	t.Parallel()

	var l Listeners
	l.Subscribe(func(domain.AuthChange) {
		// Must not deadlock: callbacks run outside the lock.
		l.Subscribe(func(domain.AuthChange) {})
	})

	l.Broadcast(domain.AuthChange{Event: domain.AuthSignedIn})

	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}
