// Package store keeps the in-memory task collection for the signed-in user.
// It is a cache of the remote source of truth, never the system of record:
// create and update round-trip through a full reload, delete prunes locally.
package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"daftar/internal/model"
)

// Provider is the remote persistence collaborator, scoped implicitly to the
// authenticated user's own rows.
type Provider interface {
	FetchUserTasks(ctx context.Context) ([]model.Task, error)
	FetchTaskByID(ctx context.Context, id string) (model.Task, error)
	CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error)
	UpdateTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
	FetchAllCategories(ctx context.Context) ([]model.Category, error)
}

// EventKind names a completed store transition.
type EventKind int

const (
	EventLoaded EventKind = iota
	EventCreated
	EventUpdated
	EventRemoved
	EventFailed
)

type Event struct {
	Kind   EventKind
	TaskID string
}

// Store holds the collection plus loading/error flags. The collection is
// swapped wholesale under the mutex, so a read during an in-flight load sees
// the last-known-good slice rather than a torn one.
type Store struct {
	provider Provider
	log      *logrus.Logger

	mu      sync.RWMutex
	tasks   []model.Task
	loading bool
	lastErr error

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

func New(provider Provider, log *logrus.Logger) *Store {
	return &Store{
		provider: provider,
		log:      log,
		subs:     make(map[int]func(Event)),
	}
}

// Subscribe registers fn to run exactly once per completed transition and
// returns the matching unsubscribe handle.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Load replaces the whole collection with the remote result. On failure the
// prior contents stay put and the error flag is set; the failure is logged
// here and never escapes to the derivation layer.
func (s *Store) Load(ctx context.Context) error {
	s.setLoading(true)
	tasks, err := s.provider.FetchUserTasks(ctx)
	if err != nil {
		wrapped := model.FetchError(err)
		s.log.WithError(err).Error("task load failed")
		s.finish(wrapped)
		s.notify(Event{Kind: EventFailed})
		return wrapped
	}

	s.mu.Lock()
	s.tasks = tasks
	s.loading = false
	s.lastErr = nil
	s.mu.Unlock()

	s.notify(Event{Kind: EventLoaded})
	return nil
}

// Create delegates to the remote call, then reloads the full collection
// instead of patching locally.
func (s *Store) Create(ctx context.Context, in model.TaskInput) error {
	created, err := s.provider.CreateTask(ctx, in)
	if err != nil {
		wrapped := model.MutationError("create", err)
		s.log.WithError(err).Error("task create failed")
		s.setErr(wrapped)
		s.notify(Event{Kind: EventFailed})
		return wrapped
	}
	if err := s.Load(ctx); err != nil {
		return err
	}
	s.notify(Event{Kind: EventCreated, TaskID: created.ID})
	return nil
}

// Update delegates to the remote call scoped by id, then reloads.
func (s *Store) Update(ctx context.Context, id string, in model.TaskInput) error {
	if _, err := s.provider.UpdateTask(ctx, id, in); err != nil {
		wrapped := model.MutationError("update", err)
		s.log.WithError(err).WithField("task_id", id).Error("task update failed")
		s.setErr(wrapped)
		s.notify(Event{Kind: EventFailed, TaskID: id})
		return wrapped
	}
	if err := s.Load(ctx); err != nil {
		return err
	}
	s.notify(Event{Kind: EventUpdated, TaskID: id})
	return nil
}

// Remove delegates to the remote delete, then subtracts the matching entry
// locally. Deletion needs no reload.
func (s *Store) Remove(ctx context.Context, id string) error {
	ok, err := s.provider.DeleteTask(ctx, id)
	if err != nil || !ok {
		if err == nil {
			err = model.ErrNotFound
		}
		wrapped := model.MutationError("delete", err)
		s.log.WithError(err).WithField("task_id", id).Error("task delete failed")
		s.setErr(wrapped)
		s.notify(Event{Kind: EventFailed, TaskID: id})
		return wrapped
	}

	s.mu.Lock()
	kept := s.tasks[:0:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.lastErr = nil
	s.mu.Unlock()

	s.notify(Event{Kind: EventRemoved, TaskID: id})
	return nil
}

// GetByID looks the task up in the local collection. Absence is a display
// concern, not a fault.
func (s *Store) GetByID(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Tasks returns a copy of the current collection.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err reports the last failed operation, cleared by the next success.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Store) finish(err error) {
	s.mu.Lock()
	s.loading = false
	s.lastErr = err
	s.mu.Unlock()
}
