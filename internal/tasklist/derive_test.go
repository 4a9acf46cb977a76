package tasklist

import (
	"reflect"
	"testing"
	"time"

	"daftar/internal/model"
)

var (
	t1 = time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)
	t2 = time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC)
)

func fixtureTasks() []model.Task {
	return []model.Task{
		{
			ID:        "task-1",
			Title:     "خرید شیر",
			Status:    model.StatusNotStarted,
			Priority:  model.PriorityLow,
			Category:  "خریدها",
			CreatedAt: t1,
			DueDate:   t1,
		},
		{
			ID:        "task-2",
			Title:     "نوشتن گزارش",
			Status:    model.StatusDone,
			Priority:  model.PriorityHigh,
			Category:  "کار",
			CreatedAt: t2,
			DueDate:   t2,
		},
	}
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestDeriveDefaultFiltersSortsLatestFirst(t *testing.T) {
	visible, counts := Derive(fixtureTasks(), DefaultFilters())

	want := []string{"نوشتن گزارش", "خرید شیر"}
	if got := titles(visible); !reflect.DeepEqual(got, want) {
		t.Fatalf("visible = %v, want %v", got, want)
	}
	wantCounts := Counts{Total: 2, NotStarted: 1, InProgress: 0, Done: 1}
	if counts != wantCounts {
		t.Fatalf("counts = %+v, want %+v", counts, wantCounts)
	}
}

func TestDeriveFilterDimensions(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Filters)
		want    []string
		counts  Counts
	}{
		{
			name:   "status done",
			mutate: func(f *Filters) { f.Status = string(model.StatusDone) },
			want:   []string{"نوشتن گزارش"},
			counts: Counts{Total: 1, Done: 1},
		},
		{
			name:   "priority low",
			mutate: func(f *Filters) { f.Priority = string(model.PriorityLow) },
			want:   []string{"خرید شیر"},
			counts: Counts{Total: 1, NotStarted: 1},
		},
		{
			name:   "category",
			mutate: func(f *Filters) { f.Category = "کار" },
			want:   []string{"نوشتن گزارش"},
			counts: Counts{Total: 1, Done: 1},
		},
		{
			name:   "search text substring of title",
			mutate: func(f *Filters) { f.SearchText = "شیر" },
			want:   []string{"خرید شیر"},
			counts: Counts{Total: 1, NotStarted: 1},
		},
		{
			name:   "search matches nothing",
			mutate: func(f *Filters) { f.SearchText = "جلسه" },
			want:   []string{},
			counts: Counts{},
		},
		{
			name:   "oldest first",
			mutate: func(f *Filters) { f.Sort = SortOldest },
			want:   []string{"خرید شیر", "نوشتن گزارش"},
			counts: Counts{Total: 2, NotStarted: 1, Done: 1},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := DefaultFilters()
			tc.mutate(&f)
			visible, counts := Derive(fixtureTasks(), f)
			if got := titles(visible); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("visible = %v, want %v", got, tc.want)
			}
			if counts != tc.counts {
				t.Fatalf("counts = %+v, want %+v", counts, tc.counts)
			}
		})
	}
}

func TestDeriveSearchIsCaseSensitive(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Title: "Review PR", Status: model.StatusNotStarted, CreatedAt: t1},
	}
	f := DefaultFilters()
	f.SearchText = "review"

	visible, _ := Derive(tasks, f)
	if len(visible) != 0 {
		t.Fatalf("lower-case needle matched upper-case title: %v", titles(visible))
	}
}

func TestDeriveSearchMatchesDescription(t *testing.T) {
	tasks := fixtureTasks()
	tasks[1].Description = "گزارش ماهانه برای مدیر"

	f := DefaultFilters()
	f.SearchText = "ماهانه"

	visible, _ := Derive(tasks, f)
	if got := titles(visible); !reflect.DeepEqual(got, []string{"نوشتن گزارش"}) {
		t.Fatalf("visible = %v", got)
	}
}

func TestDerivePredicatesAreANDCombined(t *testing.T) {
	f := DefaultFilters()
	f.Status = string(model.StatusDone)
	f.Priority = string(model.PriorityLow)

	visible, counts := Derive(fixtureTasks(), f)
	if len(visible) != 0 {
		t.Fatalf("no task is both done and low priority, got %v", titles(visible))
	}
	if counts.Total != 0 {
		t.Fatalf("counts.Total = %d, want 0", counts.Total)
	}
}

func TestDeriveUnknownSortKeepsOrder(t *testing.T) {
	f := DefaultFilters()
	f.Sort = "whatever"

	visible, _ := Derive(fixtureTasks(), f)
	// Pass-through: original collection order, not an error.
	want := []string{"خرید شیر", "نوشتن گزارش"}
	if got := titles(visible); !reflect.DeepEqual(got, want) {
		t.Fatalf("visible = %v, want %v", got, want)
	}
}

func TestDeriveStableOnEqualCreatedAt(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Title: "اول", CreatedAt: t1},
		{ID: "b", Title: "دوم", CreatedAt: t1},
		{ID: "c", Title: "سوم", CreatedAt: t1},
	}
	f := DefaultFilters()

	visible, _ := Derive(tasks, f)
	want := []string{"اول", "دوم", "سوم"}
	if got := titles(visible); !reflect.DeepEqual(got, want) {
		t.Fatalf("ties reordered: %v", got)
	}
}

func TestDeriveIsPureAndIdempotent(t *testing.T) {
	tasks := fixtureTasks()
	f := DefaultFilters()
	f.Sort = SortOldest

	first, firstCounts := Derive(tasks, f)
	second, secondCounts := Derive(tasks, f)

	if !reflect.DeepEqual(first, second) || firstCounts != secondCounts {
		t.Fatalf("derive is not idempotent: %v vs %v", titles(first), titles(second))
	}
	// The input slice keeps its original order.
	if tasks[0].ID != "task-1" || tasks[1].ID != "task-2" {
		t.Fatalf("input slice mutated: %v", titles(tasks))
	}
}

func TestDeriveSortedDescendingForLatest(t *testing.T) {
	tasks := append(fixtureTasks(), model.Task{
		ID:        "task-3",
		Title:     "تماس با بانک",
		Status:    model.StatusInProgress,
		Priority:  model.PriorityMedium,
		Category:  "کارهای شخصی",
		CreatedAt: t1.Add(6 * time.Hour),
	})

	visible, counts := Derive(tasks, DefaultFilters())
	for i := 1; i < len(visible); i++ {
		if visible[i-1].CreatedAt.Before(visible[i].CreatedAt) {
			t.Fatalf("not descending at %d: %v before %v", i, visible[i-1].CreatedAt, visible[i].CreatedAt)
		}
	}
	if got := counts.NotStarted + counts.InProgress + counts.Done; got != counts.Total {
		t.Fatalf("status counts sum %d != total %d", got, counts.Total)
	}
	if counts.Total != len(visible) {
		t.Fatalf("counts.Total = %d, len(visible) = %d", counts.Total, len(visible))
	}
}
