package model

import "time"

// UncategorizedLabel is shown when a task's category cannot be resolved.
const UncategorizedLabel = "بدون دسته‌بندی"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusNotStarted Status = "notStarted"
	StatusInProgress Status = "inProgress"
	StatusDone       Status = "done"
)

// Task is one user-owned to-do item as held in the local collection.
// ID and CreatedAt never change after the row is created upstream.
// DueDate is always populated: rows without one get CreatedAt instead.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     time.Time
	CreatedAt   time.Time
	Priority    Priority
	Status      Status
	Category    string
}

type Category struct {
	ID   string
	Name string
}

type User struct {
	ID    string
	Email string
}
