// Package store keeps an in-memory task collection consistent across
// optimistic local edits, background network requests, and event
// subscribers. Mutations apply to the snapshot immediately, the network
// call runs in the background, and a failure restores the prior state and
// schedules a refetch. Last write wins; there is no cross-mutation ordering
// guarantee.
package store

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/jask/taskdeck/internal/client"
	"github.com/jask/taskdeck/internal/database/repository"
)

// API is the slice of the HTTP client the store needs.
type API interface {
	ListTasks(ctx context.Context, q client.TaskQuery) ([]repository.Task, error)
	CreateTask(ctx context.Context, t repository.Task) (client.CreatedTask, error)
	UpdateTask(ctx context.Context, t repository.Task) (repository.Task, error)
	TransitionTask(ctx context.Context, id, status string) (repository.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Store is the optimistic task collection.
type Store struct {
	api API

	mu    sync.Mutex
	byID  map[string]repository.Task
	order []string // ids in last-fetched order
	query client.TaskQuery

	refreshMu     sync.Mutex
	cancelRefresh context.CancelFunc

	pending sync.WaitGroup

	bus *Bus
}

// New returns an empty store bound to the given API.
func New(api API) *Store {
	return &Store{
		api:  api,
		byID: make(map[string]repository.Task),
		bus:  NewBus(),
	}
}

// Subscribe registers an event channel; see Bus.Subscribe.
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.bus.Subscribe()
}

// Tasks returns the current snapshot in fetch order, with optimistic edits
// applied.
func (s *Store) Tasks() []repository.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.Task, 0, len(s.order))
	for _, id := range s.order {
		if t, ok := s.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Get returns one task from the snapshot.
func (s *Store) Get(id string) (repository.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	return t, ok
}

// Refresh refetches the collection with the given query. A newer Refresh
// supersedes an in-flight one by cancelling its context; the superseded
// fetch's result is discarded by the server-side cancellation, not merged.
func (s *Store) Refresh(ctx context.Context, q client.TaskQuery) error {
	s.refreshMu.Lock()
	if s.cancelRefresh != nil {
		s.cancelRefresh()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancelRefresh = cancel
	s.refreshMu.Unlock()
	defer cancel()

	tasks, err := s.api.ListTasks(ctx, q)
	if err != nil {
		return err
	}

	s.mu.Lock()
	// the supersede check must happen under the snapshot lock: a newer
	// Refresh that cancelled this one may have already written, and a stale
	// result must never overwrite it
	if ctx.Err() != nil {
		s.mu.Unlock()
		return ctx.Err()
	}
	s.query = q
	s.byID = make(map[string]repository.Task, len(tasks))
	s.order = s.order[:0]
	for _, t := range tasks {
		s.byID[t.ID] = t
		s.order = append(s.order, t.ID)
	}
	s.mu.Unlock()

	s.bus.Publish(Event{Kind: EventRefreshed})
	return nil
}

// Transition optimistically moves a task to a new status and fires the
// network call in the background. On failure the prior status is restored,
// a reverted event is published, and the collection is refetched.
func (s *Store) Transition(id, status string) {
	s.mu.Lock()
	prev, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	next := prev
	next.Status = status
	s.byID[id] = next
	s.mu.Unlock()

	s.bus.Publish(Event{Kind: EventStatusChanged, TaskID: id})

	s.background(func(ctx context.Context) {
		confirmed, err := s.api.TransitionTask(ctx, id, status)
		if err != nil {
			s.revert(id, prev, err)
			return
		}
		s.absorb(confirmed)
	})
}

// Update optimistically replaces a task's fields and syncs in the background.
func (s *Store) Update(t repository.Task) {
	s.mu.Lock()
	prev, ok := s.byID[t.ID]
	if !ok {
		s.mu.Unlock()
		return
	}
	t.Status = prev.Status // status changes go through Transition
	s.byID[t.ID] = t
	s.mu.Unlock()

	s.bus.Publish(Event{Kind: EventUpdated, TaskID: t.ID})

	s.background(func(ctx context.Context) {
		confirmed, err := s.api.UpdateTask(ctx, t)
		if err != nil {
			s.revert(t.ID, prev, err)
			return
		}
		s.absorb(confirmed)
	})
}

// Create optimistically inserts a task at the end of the collection. The
// task must already carry an id so the optimistic record and the confirmed
// one line up.
func (s *Store) Create(t repository.Task) {
	s.mu.Lock()
	s.byID[t.ID] = t
	s.order = append(s.order, t.ID)
	s.mu.Unlock()

	s.bus.Publish(Event{Kind: EventCreated, TaskID: t.ID})

	s.background(func(ctx context.Context) {
		created, err := s.api.CreateTask(ctx, t)
		if err != nil {
			s.drop(t.ID, err)
			return
		}
		s.absorb(created.Task)
	})
}

// Delete optimistically removes a task; on failure it is restored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	prev, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.byID, id)
	s.mu.Unlock()

	s.bus.Publish(Event{Kind: EventDeleted, TaskID: id})

	s.background(func(ctx context.Context) {
		if err := s.api.DeleteTask(ctx, id); err != nil {
			s.revert(id, prev, err)
			return
		}
		s.mu.Lock()
		s.order = removeID(s.order, id)
		s.mu.Unlock()
	})
}

// Wait blocks until all background syncs settle. Tests and shutdown use it.
func (s *Store) Wait() {
	s.pending.Wait()
}

func (s *Store) background(fn func(ctx context.Context)) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		fn(context.Background())
	}()
}

// absorb folds a server-confirmed record into the snapshot unless the
// record was locally deleted in the meantime (last write wins).
func (s *Store) absorb(t repository.Task) {
	s.mu.Lock()
	if _, ok := s.byID[t.ID]; ok {
		s.byID[t.ID] = t
	}
	s.mu.Unlock()
}

func (s *Store) revert(id string, prev repository.Task, cause error) {
	log.Printf("store: sync failed for task %s, reverting: %v", id, cause)
	s.mu.Lock()
	s.byID[id] = prev
	q := s.query
	s.mu.Unlock()

	s.bus.Publish(Event{Kind: EventReverted, TaskID: id, Err: cause})

	// refetch so the snapshot converges on the server's view
	if err := s.Refresh(context.Background(), q); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("store: refetch after revert failed: %v", err)
	}
}

func (s *Store) drop(id string, cause error) {
	log.Printf("store: create failed for task %s, dropping: %v", id, cause)
	s.mu.Lock()
	delete(s.byID, id)
	s.order = removeID(s.order, id)
	s.mu.Unlock()

	s.bus.Publish(Event{Kind: EventReverted, TaskID: id, Err: cause})
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
