package state

import (
	"sync"

	"go.uber.org/zap"

	"covidtracker/internal/metrics"
)

// Store serialises dispatch over a State and notifies subscribers after
// every applied action.
type Store struct {
	mu    sync.RWMutex
	state State
	seq   map[Field]uint64

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int

	log     *zap.Logger
	metrics *metrics.Metrics
}

type StoreOption func(*Store)

func WithStoreLogger(l *zap.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

func WithStoreMetrics(m *metrics.Metrics) StoreOption {
	return func(s *Store) { s.metrics = m }
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state: Initial(),
		seq:   make(map[Field]uint64),
		subs:  make(map[int]chan struct{}),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch reduces a into the current state and reports whether it applied.
func (s *Store) Dispatch(a Action) bool {
	s.mu.Lock()
	next, applied := Reduce(s.state, a)
	s.state = next
	s.mu.Unlock()

	if !applied {
		if isResponse(a) {
			s.metrics.ObserveStale(string(a.field()))
			s.log.Debug("dropped stale response", zap.String("field", string(a.field())))
		}
		return false
	}
	s.notify()
	return true
}

// Issue allocates the next sequence number for f and dispatches the request
// action built from it in the same critical section, so request actions for
// one field always reach the reducer in issue order.
func (s *Store) Issue(f Field, mk func(seq uint64) Action) uint64 {
	s.mu.Lock()
	s.seq[f]++
	seq := s.seq[f]
	s.state, _ = Reduce(s.state, mk(seq))
	s.mu.Unlock()

	s.notify()
	return seq
}

// Subscribe returns a channel that receives a value after state changes.
// Notifications coalesce; readers should take a fresh Snapshot on each one.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func isResponse(a Action) bool {
	switch a.(type) {
	case SummaryLoaded, SummaryFailed, CountriesLoaded, CountriesFailed, HistoryLoaded, HistoryFailed:
		return true
	}
	return false
}
