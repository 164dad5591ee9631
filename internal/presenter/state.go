package presenter

import (
	"sync"

	"github.com/JaimeDevz/weather-app/internal/models"
)

type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// RequestState is the lifecycle of the most recent search. Data is kept from
// the previous success while a new search is loading or has failed.
type RequestState struct {
	Status Status
	Data   *models.ForecastResponse
	Err    string
}

// Store owns the single RequestState. Readers only ever see whole states.
type Store struct {
	mu      sync.RWMutex
	state   RequestState
	subs    map[int]chan RequestState
	nextSub int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]chan RequestState)}
}

func (s *Store) Snapshot() RequestState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe returns a channel that receives every new state. A slow reader
// only misses intermediate states, never the latest one.
func (s *Store) Subscribe() (<-chan RequestState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan RequestState, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Store) update(fn func(*RequestState)) RequestState {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	for _, ch := range s.subs {
		select {
		case ch <- s.state:
		default:
			// Replace the stale pending value with the latest one.
			select {
			case <-ch:
			default:
			}
			ch <- s.state
		}
	}
	return s.state
}
