package inventory

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Snapshot is the read-only view of the store handed to subscribers.
type Snapshot struct {
	Items             []Item    `json:"items"`
	LastUpdated       time.Time `json:"lastUpdated"`
	TotalItems        int       `json:"totalItems"`
	LowStockCount     int       `json:"lowStockCount"`
	OutOfStockCount   int       `json:"outOfStockCount"`
	AIClassifiedCount int       `json:"aiClassifiedCount"`
}

// Listener receives the full snapshot after each replacement.
type Listener func(Snapshot)

// Store is the session inventory collection. It is an explicit object owned
// by the application root rather than a package-level singleton. Updates
// replace the whole item slice (copy-on-write) and listeners are notified
// synchronously after each replacement.
type Store struct {
	mu        sync.RWMutex
	items     []Item
	updated   time.Time
	listeners map[int]Listener
	nextID    int
	persist   func(Snapshot) error
	logger    *zap.Logger
}

// NewStore creates an empty inventory store. persist, when non-nil, is
// invoked with the new snapshot after every replacement; persistence
// failures are logged and do not fail the update.
func NewStore(persist func(Snapshot) error, logger *zap.Logger) *Store {
	return &Store{
		listeners: make(map[int]Listener),
		updated:   time.Now().UTC(),
		persist:   persist,
		logger:    logger,
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Replace swaps the entire item collection and notifies listeners.
func (s *Store) Replace(items []Item) {
	s.commit(func() bool {
		s.items = append([]Item(nil), items...)
		return true
	})
}

// Add appends items to the collection.
func (s *Store) Add(newItems []Item) {
	s.commit(func() bool {
		merged := make([]Item, 0, len(s.items)+len(newItems))
		merged = append(merged, s.items...)
		merged = append(merged, newItems...)
		s.items = merged
		return true
	})
}

// Update applies fn to the item with the given ID. The update overwrites
// fields in place; it does not re-run classification. Status and LastSynced
// are re-derived after fn runs. Returns false when the ID is unknown.
func (s *Store) Update(itemID string, fn func(*Item)) bool {
	return s.commit(func() bool {
		updated := make([]Item, len(s.items))
		copy(updated, s.items)
		for i := range updated {
			if updated[i].ID == itemID {
				fn(&updated[i])
				updated[i].Status = StatusFor(updated[i].Availability)
				updated[i].LastSynced = time.Now().UTC()
				s.items = updated
				return true
			}
		}
		return false
	})
}

// Remove deletes the item with the given ID. Returns false when unknown.
func (s *Store) Remove(itemID string) bool {
	return s.commit(func() bool {
		remaining := make([]Item, 0, len(s.items))
		found := false
		for _, item := range s.items {
			if item.ID == itemID {
				found = true
				continue
			}
			remaining = append(remaining, item)
		}
		if !found {
			return false
		}
		s.items = remaining
		return true
	})
}

// commit runs mutate while holding the write lock so concurrent mutations
// serialize instead of clobbering each other. mutate reports whether it
// changed the collection; listeners and persistence run only on change,
// outside the lock.
func (s *Store) commit(mutate func() bool) bool {
	s.mu.Lock()
	if !mutate() {
		s.mu.Unlock()
		return false
	}
	s.updated = time.Now().UTC()
	snapshot := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}

	if s.persist != nil {
		if err := s.persist(snapshot); err != nil {
			s.logger.Warn("Failed to persist inventory snapshot", zap.Error(err))
		}
	}
	return true
}

// Snapshot returns the current store view with derived statistics.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		Items:       append([]Item(nil), s.items...),
		LastUpdated: s.updated,
		TotalItems:  len(s.items),
	}
	for _, item := range s.items {
		switch item.Status {
		case StatusLowStock:
			snapshot.LowStockCount++
		case StatusOutOfStock:
			snapshot.OutOfStockCount++
		}
		if item.AIClassified {
			snapshot.AIClassifiedCount++
		}
	}
	return snapshot
}

// ByID returns the item with the given ID.
func (s *Store) ByID(itemID string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == itemID {
			return item, true
		}
	}
	return Item{}, false
}

// BySKU returns all items with the given SKU.
func (s *Store) BySKU(sku string) []Item {
	return s.filter(func(item Item) bool { return item.SKU == sku })
}

// ByCategory returns all items in the given category.
func (s *Store) ByCategory(category string) []Item {
	return s.filter(func(item Item) bool { return item.Category == category })
}

// ByStatus returns all items with the given stock status.
func (s *Store) ByStatus(status Status) []Item {
	return s.filter(func(item Item) bool { return item.Status == status })
}

// Search matches the query case-insensitively against name, SKU and
// category.
func (s *Store) Search(query string) []Item {
	term := strings.ToLower(query)
	return s.filter(func(item Item) bool {
		return strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.SKU), term) ||
			strings.Contains(strings.ToLower(item.Category), term)
	})
}

func (s *Store) filter(keep func(Item) bool) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []Item
	for _, item := range s.items {
		if keep(item) {
			matched = append(matched, item)
		}
	}
	return matched
}
