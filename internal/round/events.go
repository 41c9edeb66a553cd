package round

import "sync"

// Listener receives a snapshot after every session transition. Listeners
// are called one at a time, in transition order, and may call back into
// the engine.
type Listener interface {
	OnSnapshot(s Snapshot)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(s Snapshot)

// OnSnapshot calls f.
func (f ListenerFunc) OnSnapshot(s Snapshot) { f(s) }

// subscribers is an ordered set of listeners keyed by subscription id.
type subscribers struct {
	mu     sync.RWMutex
	nextID int
	ids    []int
	byID   map[int]Listener
}

func newSubscribers() *subscribers {
	return &subscribers{byID: make(map[int]Listener)}
}

func (s *subscribers) add(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.ids = append(s.ids, id)
	s.byID[id] = l

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *subscribers) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byID, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

func (s *subscribers) snapshot() []Listener {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Listener, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *subscribers) publish(snap Snapshot) {
	for _, l := range s.snapshot() {
		l.OnSnapshot(snap)
	}
}
