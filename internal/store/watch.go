package store

import "sync"

// hub fans document changes out to subscribers. Every successful write
// publishes the full current document to every subscriber registered for
// that (collection, key). Delivery is in-process only.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Document
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[int]chan Document)}
}

func hubKey(collection, key string) string {
	return collection + "/" + key
}

// Subscribe registers fn to be called with the full document after every
// write to (collection, key). Calls are delivered sequentially per
// subscriber, in write order, on a dedicated goroutine. The returned
// function cancels the subscription; callers own calling it on teardown —
// an unreleased subscription leaks a goroutine for the process lifetime.
func (s *Store) Subscribe(collection, key string, fn func(Document)) (unsubscribe func()) {
	ch, cancel := s.Watch(collection, key)
	go func() {
		for doc := range ch {
			fn(doc)
		}
	}()
	return cancel
}

// Watch is the channel form of Subscribe: it returns a channel that
// receives the full document after every write to (collection, key).
// The channel is closed when the returned cancel function is called or
// the store is closed.
func (s *Store) Watch(collection, key string) (<-chan Document, func()) {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()

	hk := hubKey(collection, key)
	if h.subs[hk] == nil {
		h.subs[hk] = make(map[int]chan Document)
	}
	id := h.nextID
	h.nextID++

	// Buffered so a slow consumer doesn't block the writer for the
	// human-paced update rates this store sees.
	ch := make(chan Document, 16)
	h.subs[hk][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[hk][id]; ok {
				delete(h.subs[hk], id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// publish delivers doc to all subscribers of (collection, key).
// A subscriber whose buffer is full misses this delivery; it will see
// the next write's full document instead.
func (h *hub) publish(collection, key string, doc Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[hubKey(collection, key)] {
		select {
		case ch <- doc:
		default:
		}
	}
}

// closeAll drops every subscription. Called on store close.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for hk, subs := range h.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(h.subs, hk)
	}
}
