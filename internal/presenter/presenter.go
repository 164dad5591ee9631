package presenter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/JaimeDevz/weather-app/internal/models"
)

var ErrEmptyCity = errors.New("city must not be empty")

// Presenter drives RequestState from user searches. Only the most recent
// search may write to the store; older calls are canceled and their results
// dropped.
type Presenter struct {
	gateway Gateway
	store   *Store

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func New(gateway Gateway, store *Store) *Presenter {
	if store == nil {
		store = NewStore()
	}
	return &Presenter{gateway: gateway, store: store}
}

func (p *Presenter) Store() *Store { return p.store }

// Task is the handle for one search.
type Task struct {
	ID   uint64
	City string

	done       chan struct{}
	state      RequestState
	superseded bool
}

func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the gateway call resolves and returns the state it
// produced. For a superseded task that is the state it found, untouched.
func (t *Task) Wait() RequestState {
	<-t.done
	return t.state
}

// Superseded reports whether a newer search replaced this one before it
// resolved. Valid after Done is closed.
func (t *Task) Superseded() bool {
	<-t.done
	return t.superseded
}

// Search trims city, moves the store to Loading and starts one gateway call.
// Blank input is rejected before anything is dispatched.
func (p *Presenter) Search(ctx context.Context, city string) (*Task, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	callCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.store.update(func(s *RequestState) {
		s.Status = Loading
		s.Err = ""
	})
	p.mu.Unlock()

	task := &Task{ID: gen, City: city, done: make(chan struct{})}
	go func() {
		defer cancel()
		data, err := p.gateway.GetForecast(callCtx, city)
		p.resolve(task, data, err)
	}()
	return task, nil
}

func (p *Presenter) resolve(task *Task, data *models.ForecastResponse, err error) {
	defer close(task.done)

	p.mu.Lock()
	defer p.mu.Unlock()

	if task.ID != p.gen {
		task.superseded = true
		task.state = p.store.Snapshot()
		slog.Debug("dropping superseded forecast result", "city", task.City, "task", task.ID, "current", p.gen)
		return
	}
	p.cancel = nil

	if err != nil {
		msg := errorMessage(err)
		slog.Debug("forecast search failed", "city", task.City, "error", err)
		task.state = p.store.update(func(s *RequestState) {
			s.Status = Failed
			s.Err = msg
		})
		return
	}
	task.state = p.store.update(func(s *RequestState) {
		s.Status = Succeeded
		s.Data = data
		s.Err = ""
	})
}

func errorMessage(err error) string {
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return err.Error()
}
