package model

import (
	"strings"
	"testing"
)

func validInput() TaskInput {
	return TaskInput{
		Title:    "خرید شیر",
		Priority: PriorityLow,
		Status:   StatusNotStarted,
	}
}

func TestTaskInputValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*TaskInput)
		wantErr bool
	}{
		{"valid minimal", func(in *TaskInput) {}, false},
		{"title missing", func(in *TaskInput) { in.Title = "" }, true},
		{"title too short", func(in *TaskInput) { in.Title = "اب" }, true},
		{"title exactly three runes", func(in *TaskInput) { in.Title = "کار" }, false},
		{"description at limit", func(in *TaskInput) { in.Description = strings.Repeat("ن", 500) }, false},
		{"description over limit", func(in *TaskInput) { in.Description = strings.Repeat("ن", 501) }, true},
		{"bad priority", func(in *TaskInput) { in.Priority = "urgent" }, true},
		{"bad status", func(in *TaskInput) { in.Status = "paused" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			err := in.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
