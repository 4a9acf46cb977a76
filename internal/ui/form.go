package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"daftar/internal/model"
)

// formState backs the add/edit surface: one shared text input walks the
// fields in order.
type formState struct {
	taskID      string // empty means create
	title       string
	description string
	due         string
	priority    string
	status      string
	category    string
	index       int
}

func formFields() []string {
	return []string{
		"عنوان",
		"توضیحات",
		"تاریخ سررسید (YYYY-MM-DD)",
		"اولویت (low/medium/high)",
		"وضعیت (notStarted/inProgress/done)",
		"دسته‌بندی",
	}
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) currentValue() string {
	switch fs.index {
	case 0:
		return fs.title
	case 1:
		return fs.description
	case 2:
		return fs.due
	case 3:
		return fs.priority
	case 4:
		return fs.status
	case 5:
		return fs.category
	default:
		return ""
	}
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case 0:
		fs.title = v
	case 1:
		fs.description = v
	case 2:
		fs.due = v
	case 3:
		fs.priority = v
	case 4:
		fs.status = v
	case 5:
		fs.category = v
	}
}

// openForm starts the form for a new task, or prefilled for an existing one.
// A stale id (task vanished under us) sends the user back to the list rather
// than raising an error.
func (m Model) openForm(taskID string) (tea.Model, tea.Cmd) {
	fs := &formState{
		taskID:   taskID,
		due:      time.Now().Format("2006-01-02"),
		priority: string(model.PriorityLow),
		status:   string(model.StatusNotStarted),
	}
	if taskID != "" {
		t, ok := m.store.GetByID(taskID)
		if !ok {
			m.status = "وظیفه پیدا نشد"
			return m, nil
		}
		fs.title = t.Title
		fs.description = t.Description
		fs.due = t.DueDate.Format("2006-01-02")
		fs.priority = string(t.Priority)
		fs.status = string(t.Status)
		if t.Category != model.UncategorizedLabel {
			fs.category = t.Category
		}
	}

	m.form = fs
	m.mode = modeForm
	m.detailOpen = false
	m.input.SetValue(fs.currentValue())
	m.input.Placeholder = fs.currentLabel()
	m.input.Focus()
	if taskID == "" {
		m.status = "افزودن وظیفه: Enter برای فیلد بعدی، Esc برای انصراف"
	} else {
		m.status = "ویرایش وظیفه: Enter برای فیلد بعدی، Esc برای انصراف"
	}
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.status = "ویرایش لغو شد"
		return m, nil
	case "tab", "down":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index+1, len(formFields()))
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		return m, nil
	case "shift+tab", "up":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index-1, len(formFields()))
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formFields())-1 {
			return m.saveForm()
		}
		m.form.index++
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	fs := m.form

	due, err := parseFormDate(fs.due)
	if err != nil {
		m.status = "تاریخ سررسید نامعتبر است (YYYY-MM-DD)"
		return m, nil
	}

	in := model.TaskInput{
		Title:       strings.TrimSpace(fs.title),
		Description: strings.TrimSpace(fs.description),
		DueDate:     due,
		Priority:    model.Priority(strings.TrimSpace(fs.priority)),
		Status:      model.Status(strings.TrimSpace(fs.status)),
		CategoryID:  m.categoryIDByName(strings.TrimSpace(fs.category)),
	}
	if err := in.Validate(); err != nil {
		m.status = "ورودی نامعتبر: عنوان دست‌کم ۳ حرف، توضیحات حداکثر ۵۰۰ حرف، اولویت و وضعیت از مقادیر مجاز"
		return m, nil
	}

	taskID := fs.taskID
	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.status = "در حال ذخیره…"
	if taskID == "" {
		return m, m.createCmd(in)
	}
	return m, m.updateCmd(taskID, in)
}

func (m Model) renderForm() string {
	var b strings.Builder
	if m.form.taskID == "" {
		b.WriteString("افزودن وظیفه جدید")
	} else {
		b.WriteString("ویرایش وظیفه")
	}
	b.WriteString("\n\n")

	fields := formFields()
	values := []string{
		m.form.title,
		m.form.description,
		m.form.due,
		m.form.priority,
		m.form.status,
		m.form.category,
	}
	for i, name := range fields {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := values[i]
		if i == m.form.index {
			val = m.input.View()
		} else if strings.TrimSpace(val) == "" {
			val = "—"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", prefix, name, val))
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	return b.String()
}

func (m Model) categoryIDByName(name string) string {
	for _, c := range m.categories {
		if c.Name == name {
			return c.ID
		}
	}
	return ""
}

func parseFormDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", v)
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
