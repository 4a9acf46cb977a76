package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// TaskInput carries the form fields for both create and edit. The edit
// surface submits the full field set, so one struct serves both calls.
type TaskInput struct {
	Title       string   `validate:"required,min=3"`
	Description string   `validate:"omitempty,max=500"`
	DueDate     time.Time
	Priority    Priority `validate:"required,oneof=low medium high"`
	Status      Status   `validate:"required,oneof=notStarted inProgress done"`
	CategoryID  string
}

// Validate enforces the creation-boundary rules. The store itself never
// validates; anything that reaches it is assumed well formed.
func (in TaskInput) Validate() error {
	return validate.Struct(in)
}
