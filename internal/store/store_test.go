package store

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"daftar/internal/model"
	"daftar/internal/tasklist"
)

// fakeProvider is an in-memory stand-in for the remote backend.
type fakeProvider struct {
	tasks      []model.Task
	fetchErr   error
	createErr  error
	updateErr  error
	deleteErr  error
	fetchCalls int
}

func (p *fakeProvider) FetchUserTasks(ctx context.Context) ([]model.Task, error) {
	p.fetchCalls++
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	out := make([]model.Task, len(p.tasks))
	copy(out, p.tasks)
	return out, nil
}

func (p *fakeProvider) FetchTaskByID(ctx context.Context, id string) (model.Task, error) {
	for _, t := range p.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, model.ErrNotFound
}

func (p *fakeProvider) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	if p.createErr != nil {
		return model.Task{}, p.createErr
	}
	t := model.Task{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Priority:  in.Priority,
		Status:    in.Status,
		Category:  model.UncategorizedLabel,
		CreatedAt: time.Now(),
		DueDate:   in.DueDate,
	}
	p.tasks = append(p.tasks, t)
	return t, nil
}

func (p *fakeProvider) UpdateTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error) {
	if p.updateErr != nil {
		return model.Task{}, p.updateErr
	}
	for i, t := range p.tasks {
		if t.ID == id {
			p.tasks[i].Title = in.Title
			p.tasks[i].Status = in.Status
			p.tasks[i].Priority = in.Priority
			return p.tasks[i], nil
		}
	}
	return model.Task{}, model.ErrNotFound
}

func (p *fakeProvider) DeleteTask(ctx context.Context, id string) (bool, error) {
	if p.deleteErr != nil {
		return false, p.deleteErr
	}
	for i, t := range p.tasks {
		if t.ID == id {
			p.tasks = append(p.tasks[:i], p.tasks[i+1:]...)
			return true, nil
		}
	}
	return true, nil
}

func (p *fakeProvider) FetchAllCategories(ctx context.Context) ([]model.Category, error) {
	return nil, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func seededProvider() *fakeProvider {
	return &fakeProvider{tasks: []model.Task{
		{ID: "task-1", Title: "خرید شیر", Status: model.StatusNotStarted, CreatedAt: time.Now().Add(-time.Hour)},
		{ID: "task-2", Title: "نوشتن گزارش", Status: model.StatusDone, CreatedAt: time.Now()},
	}}
}

func TestLoadReplacesCollection(t *testing.T) {
	s := New(seededProvider(), quietLogger())

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(s.Tasks()); got != 2 {
		t.Fatalf("len(tasks) = %d, want 2", got)
	}
	if s.Loading() {
		t.Fatal("loading flag still set after load")
	}
	if s.Err() != nil {
		t.Fatalf("err flag set after successful load: %v", s.Err())
	}
}

func TestLoadFailureKeepsPriorCollection(t *testing.T) {
	p := seededProvider()
	s := New(p, quietLogger())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	p.fetchErr = errors.New("network down")
	if err := s.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}

	if got := len(s.Tasks()); got != 2 {
		t.Fatalf("prior collection not retained, len = %d", got)
	}
	if s.Err() == nil {
		t.Fatal("err flag not set")
	}
	if s.Loading() {
		t.Fatal("loading flag not cleared on failure")
	}
}

func TestCreateReloadsFullCollection(t *testing.T) {
	p := seededProvider()
	s := New(p, quietLogger())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	fetchesBefore := p.fetchCalls

	in := model.TaskInput{Title: "تماس با بانک", Priority: model.PriorityMedium, Status: model.StatusNotStarted}
	if err := s.Create(context.Background(), in); err != nil {
		t.Fatalf("create: %v", err)
	}

	if p.fetchCalls != fetchesBefore+1 {
		t.Fatalf("create did not trigger a full reload, fetches = %d", p.fetchCalls)
	}
	if got := len(s.Tasks()); got != 3 {
		t.Fatalf("len(tasks) = %d, want 3", got)
	}
}

func TestCreateFailureLeavesStoreUnchanged(t *testing.T) {
	p := seededProvider()
	s := New(p, quietLogger())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	p.createErr = errors.New("row level security")
	err := s.Create(context.Background(), model.TaskInput{Title: "هر چیزی", Priority: model.PriorityLow, Status: model.StatusNotStarted})
	if err == nil {
		t.Fatal("expected create error")
	}
	if got := len(s.Tasks()); got != 2 {
		t.Fatalf("store changed on failed create, len = %d", got)
	}
	if s.Err() == nil {
		t.Fatal("err flag not set")
	}
}

func TestUpdateReloads(t *testing.T) {
	p := seededProvider()
	s := New(p, quietLogger())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	in := model.TaskInput{Title: "خرید شیر و نان", Priority: model.PriorityLow, Status: model.StatusInProgress}
	if err := s.Update(context.Background(), "task-1", in); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, ok := s.GetByID("task-1")
	if !ok {
		t.Fatal("task-1 missing after update")
	}
	if got.Title != "خرید شیر و نان" || got.Status != model.StatusInProgress {
		t.Fatalf("update not reflected: %+v", got)
	}
}

func TestRemovePrunesLocallyWithoutReload(t *testing.T) {
	p := seededProvider()
	s := New(p, quietLogger())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	visibleBefore, _ := tasklist.Derive(s.Tasks(), tasklist.DefaultFilters())
	fetchesBefore := p.fetchCalls

	if err := s.Remove(context.Background(), "task-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if p.fetchCalls != fetchesBefore {
		t.Fatalf("remove triggered a reload, fetches = %d", p.fetchCalls)
	}
	if _, ok := s.GetByID("task-1"); ok {
		t.Fatal("task-1 still present after remove")
	}
	visibleAfter, _ := tasklist.Derive(s.Tasks(), tasklist.DefaultFilters())
	if len(visibleAfter) != len(visibleBefore)-1 {
		t.Fatalf("visible count %d, want %d", len(visibleAfter), len(visibleBefore)-1)
	}
}

func TestGetByIDAbsenceIsNotAnError(t *testing.T) {
	s := New(seededProvider(), quietLogger())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, ok := s.GetByID("no-such-task"); ok {
		t.Fatal("found a task that does not exist")
	}
}

func TestSubscribeFiresOncePerTransition(t *testing.T) {
	p := seededProvider()
	s := New(p, quietLogger())

	var events []Event
	unsubscribe := s.Subscribe(func(ev Event) { events = append(events, ev) })

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Remove(context.Background(), "task-2"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	want := []Event{
		{Kind: EventLoaded},
		{Kind: EventRemoved, TaskID: "task-2"},
	}
	if len(events) != len(want) {
		t.Fatalf("events = %+v, want %+v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event[%d] = %+v, want %+v", i, events[i], want[i])
		}
	}

	unsubscribe()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != len(want) {
		t.Fatal("subscriber fired after unsubscribe")
	}
}

func TestTasksReturnsACopy(t *testing.T) {
	s := New(seededProvider(), quietLogger())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	got := s.Tasks()
	got[0].Title = "خراب"

	fresh, _ := s.GetByID(got[0].ID)
	if fresh.Title == "خراب" {
		t.Fatal("mutating the returned slice leaked into the store")
	}
}
