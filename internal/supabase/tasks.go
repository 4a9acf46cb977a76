package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"daftar/internal/model"
)

const taskSelect = "*,categories(id,name)"

type categoryRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type taskRow struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	DueDate     *string      `json:"due_date"`
	Priority    string       `json:"priority"`
	Status      string       `json:"status"`
	CategoryID  *string      `json:"category_id"`
	UserID      string       `json:"user_id"`
	CreatedAt   string       `json:"created_at"`
	Categories  *categoryRow `json:"categories"`
}

type taskWrite struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	CategoryID  *string `json:"category_id"`
	UserID      string  `json:"user_id,omitempty"`
}

// FetchUserTasks loads the whole collection for the signed-in user, newest
// first, with the category name resolved by an embedded select.
func (c *Client) FetchUserTasks(ctx context.Context) ([]model.Task, error) {
	user, ok := c.CurrentUser()
	if !ok {
		return nil, model.ErrAuthRequired
	}

	q := url.Values{}
	q.Set("select", taskSelect)
	q.Set("user_id", "eq."+user.ID)
	q.Set("order", "created_at.desc")

	var rows []taskRow
	if err := c.doJSON(ctx, http.MethodGet, "/rest/v1/tasks?"+q.Encode(), nil, nil, &rows); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toTask())
	}
	return tasks, nil
}

// FetchTaskByID looks one task up by id. A missing row is ErrNotFound, which
// callers treat as "redirect away", not a fault.
func (c *Client) FetchTaskByID(ctx context.Context, id string) (model.Task, error) {
	user, ok := c.CurrentUser()
	if !ok {
		return model.Task{}, model.ErrAuthRequired
	}

	q := url.Values{}
	q.Set("select", taskSelect)
	q.Set("id", "eq."+id)
	q.Set("user_id", "eq."+user.ID)

	var rows []taskRow
	if err := c.doJSON(ctx, http.MethodGet, "/rest/v1/tasks?"+q.Encode(), nil, nil, &rows); err != nil {
		return model.Task{}, err
	}
	if len(rows) == 0 {
		return model.Task{}, model.ErrNotFound
	}
	return rows[0].toTask(), nil
}

// CreateTask inserts a row for the signed-in user and returns the canonical
// row the backend stored.
func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	user, ok := c.CurrentUser()
	if !ok {
		return model.Task{}, model.ErrAuthRequired
	}

	q := url.Values{}
	q.Set("select", taskSelect)

	write := writeFromInput(in)
	write.UserID = user.ID

	headers := map[string]string{
		"Prefer": "return=representation",
		"Accept": "application/vnd.pgrst.object+json",
	}
	var row taskRow
	if err := c.doJSON(ctx, http.MethodPost, "/rest/v1/tasks?"+q.Encode(), headers, write, &row); err != nil {
		return model.Task{}, err
	}
	return row.toTask(), nil
}

// UpdateTask patches the row scoped by id and user.
func (c *Client) UpdateTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error) {
	user, ok := c.CurrentUser()
	if !ok {
		return model.Task{}, model.ErrAuthRequired
	}

	q := url.Values{}
	q.Set("select", taskSelect)
	q.Set("id", "eq."+id)
	q.Set("user_id", "eq."+user.ID)

	headers := map[string]string{
		"Prefer": "return=representation",
		"Accept": "application/vnd.pgrst.object+json",
	}
	var row taskRow
	if err := c.doJSON(ctx, http.MethodPatch, "/rest/v1/tasks?"+q.Encode(), headers, writeFromInput(in), &row); err != nil {
		return model.Task{}, err
	}
	return row.toTask(), nil
}

// DeleteTask removes the row scoped by id and user. The bool mirrors whether
// the call went through; the backend deleting zero rows is not an error.
func (c *Client) DeleteTask(ctx context.Context, id string) (bool, error) {
	user, ok := c.CurrentUser()
	if !ok {
		return false, model.ErrAuthRequired
	}

	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("user_id", "eq."+user.ID)

	if err := c.doJSON(ctx, http.MethodDelete, "/rest/v1/tasks?"+q.Encode(), nil, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

// FetchAllCategories loads the global category lookup table ordered by name.
func (c *Client) FetchAllCategories(ctx context.Context) ([]model.Category, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "name")

	var rows []categoryRow
	if err := c.doJSON(ctx, http.MethodGet, "/rest/v1/categories?"+q.Encode(), nil, nil, &rows); err != nil {
		return nil, err
	}
	categories := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, model.Category{ID: row.ID, Name: row.Name})
	}
	return categories, nil
}

func (r taskRow) toTask() model.Task {
	created := parseRowTime(r.CreatedAt)

	t := model.Task{
		ID:        r.ID,
		Title:     r.Title,
		CreatedAt: created,
		DueDate:   created,
		Priority:  model.Priority(r.Priority),
		Status:    model.Status(r.Status),
		Category:  model.UncategorizedLabel,
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.DueDate != nil {
		if due := parseRowTime(*r.DueDate); !due.IsZero() {
			t.DueDate = due
		}
	}
	if r.Categories != nil && r.Categories.Name != "" {
		t.Category = r.Categories.Name
	}
	return t
}

func writeFromInput(in model.TaskInput) taskWrite {
	w := taskWrite{
		Title:    in.Title,
		Priority: string(in.Priority),
		Status:   string(in.Status),
	}
	if in.Description != "" {
		desc := in.Description
		w.Description = &desc
	}
	if !in.DueDate.IsZero() {
		due := in.DueDate.UTC().Format(time.RFC3339)
		w.DueDate = &due
	}
	if in.CategoryID != "" {
		cat := in.CategoryID
		w.CategoryID = &cat
	}
	return w
}

// parseRowTime accepts the timestamp shapes PostgREST emits: RFC 3339 with or
// without fractional seconds, and bare dates for date columns.
func parseRowTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
