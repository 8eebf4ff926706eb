package formulas

import "sync"

// actorLocks serializes runs per actor. Entries are dropped when unused.
type actorLocks struct {
	mu    sync.Mutex
	locks map[string]*actorLock
}

type actorLock struct {
	mu      sync.Mutex
	waiters int
}

func newActorLocks() *actorLocks {
	return &actorLocks{locks: make(map[string]*actorLock)}
}

// lock blocks until the actor is free and returns the unlock func
func (l *actorLocks) lock(actorID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[actorID]
	if !ok {
		entry = &actorLock{}
		l.locks[actorID] = entry
	}
	entry.waiters++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.waiters--
		if entry.waiters == 0 {
			delete(l.locks, actorID)
		}
		l.mu.Unlock()
	}
}
