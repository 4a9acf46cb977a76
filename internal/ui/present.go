package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	ptime "github.com/yaa110/go-persian-calendar"

	"daftar/internal/model"
	"daftar/internal/tasklist"
)

// Chip is the (label, color) pair a priority or status renders as. Unknown
// values map to the zero Chip and render as nothing.
type Chip struct {
	Label string
	Color lipgloss.Color
}

var priorityChips = map[model.Priority]Chip{
	model.PriorityLow:    {Label: "کم", Color: lipgloss.Color("2")},
	model.PriorityMedium: {Label: "متوسط", Color: lipgloss.Color("3")},
	model.PriorityHigh:   {Label: "زیاد", Color: lipgloss.Color("1")},
}

var statusChips = map[model.Status]Chip{
	model.StatusNotStarted: {Label: "در انتظار", Color: lipgloss.Color("3")},
	model.StatusInProgress: {Label: "در حال انجام", Color: lipgloss.Color("4")},
	model.StatusDone:       {Label: "تکمیل شده", Color: lipgloss.Color("2")},
}

func PriorityChip(p model.Priority) Chip {
	return priorityChips[p]
}

func StatusChip(s model.Status) Chip {
	return statusChips[s]
}

func renderChip(c Chip) string {
	if c.Label == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(c.Color).Render("‹" + c.Label + "›")
}

// PersianDate renders a date in the Jalali calendar, e.g. 1404/06/10.
func PersianDate(t time.Time) string {
	return ptime.New(t).Format("yyyy/MM/dd")
}

// PersianDateTime adds the clock time, e.g. 1404/06/10 14:05.
func PersianDateTime(t time.Time) string {
	return ptime.New(t).Format("yyyy/MM/dd HH:mm")
}

func renderCounts(c tasklist.Counts) string {
	return fmt.Sprintf("نمای کلی — مجموع: %d • در انتظار: %d • در حال انجام: %d • تکمیل شده: %d",
		c.Total, c.NotStarted, c.InProgress, c.Done)
}

func filterLabel(v string) string {
	if v == tasklist.FilterAll {
		return "همه"
	}
	if c, ok := priorityChips[model.Priority(v)]; ok {
		return c.Label
	}
	if c, ok := statusChips[model.Status(v)]; ok {
		return c.Label
	}
	return v
}

func sortLabel(v string) string {
	switch v {
	case tasklist.SortLatest:
		return "جدیدترین"
	case tasklist.SortOldest:
		return "قدیمی‌ترین"
	}
	return v
}
