package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"daftar/internal/config"
	"daftar/internal/model"
	"daftar/internal/store"
	"daftar/internal/supabase"
	"daftar/internal/tasklist"
)

type mode int

const (
	modeLogin mode = iota
	modeRegister
	modeList
	modeSearch
	modeForm
)

type Model struct {
	store  *store.Store
	client *supabase.Client
	cfg    config.Config
	log    *logrus.Logger

	mode    mode
	filters tasklist.Filters
	visible []model.Task
	counts  tasklist.Counts
	cursor  int

	categories []model.Category

	input  textinput.Model
	status string

	confirmDel bool
	pendingDel *model.Task
	detailOpen bool

	form *formState
	auth *authState
}

// Messages produced by tea.Cmd goroutines. Every remote call completes as one
// of these on the update loop; the loop itself never blocks.
type (
	tasksLoadedMsg      struct{ err error }
	categoriesLoadedMsg struct {
		cats []model.Category
		err  error
	}
	mutationMsg struct {
		op  string
		id  string
		err error
	}
	authMsg      struct{ err error }
	signedOutMsg struct{ err error }
)

func Run(st *store.Store, client *supabase.Client, cfg config.Config, log *logrus.Logger) error {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 40

	filters := tasklist.DefaultFilters()
	if cfg.DefaultSort != "" {
		filters.Sort = cfg.DefaultSort
	}

	m := Model{
		store:   st,
		client:  client,
		cfg:     cfg,
		log:     log,
		filters: filters,
		input:   ti,
	}

	if _, ok := client.CurrentUser(); ok {
		m.mode = modeList
		m.status = "در حال بارگذاری وظایف…"
	} else {
		m.mode = modeLogin
		m.auth = newAuthState(false)
		m.input.Placeholder = authFieldLabel(0)
		m.input.Focus()
		m.status = "برای ورود ایمیل و گذرواژه را وارد کنید"
	}

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if m.mode == modeList {
		return tea.Batch(m.loadTasksCmd(), m.loadCategoriesCmd())
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		return m.onTasksLoaded(msg)
	case categoriesLoadedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("category load failed")
			return m, nil
		}
		m.categories = msg.cats
		return m, nil
	case mutationMsg:
		return m.onMutationDone(msg)
	case authMsg:
		return m.onAuthDone(msg)
	case signedOutMsg:
		m.mode = modeLogin
		m.auth = newAuthState(false)
		m.visible = nil
		m.counts = tasklist.Counts{}
		m.filters.Reset()
		m.input.SetValue("")
		m.input.EchoMode = textinput.EchoNormal
		m.input.Placeholder = authFieldLabel(0)
		m.input.Focus()
		m.status = "از حساب خارج شدید"
		return m, nil
	case tea.KeyMsg:
		if m.auth != nil {
			return m.updateAuthMode(msg.String(), msg)
		}
		if m.form != nil {
			return m.updateFormMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeSearch {
			return m.updateSearchMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) onTasksLoaded(msg tasksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "بارگذاری وظایف ناموفق بود — برای تلاش دوباره R را بزنید"
		return m, nil
	}
	m = m.rederive()
	m.status = "وظایف بارگذاری شد"
	return m, nil
}

func (m Model) onMutationDone(msg mutationMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		switch msg.op {
		case "delete":
			m.status = "حذف وظیفه ناموفق بود"
		default:
			m.status = "ذخیره وظیفه ناموفق بود"
		}
		return m, nil
	}
	m = m.rederive()
	switch msg.op {
	case "create":
		m.status = "وظیفه افزوده شد"
	case "update":
		m.status = "وظیفه ویرایش شد"
	case "delete":
		m.status = "وظیفه حذف شد"
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.visible) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.visible))
		}
	case m.cfg.Keys.Add:
		return m.openForm("")
	case m.cfg.Keys.Edit:
		if len(m.visible) == 0 {
			m.status = "وظیفه‌ای برای ویرایش نیست"
			return m, nil
		}
		return m.openForm(m.visible[m.cursor].ID)
	case m.cfg.Keys.Detail:
		if len(m.visible) == 0 {
			m.status = "وظیفه‌ای نیست"
			return m, nil
		}
		m.detailOpen = !m.detailOpen
	case m.cfg.Keys.Delete:
		if len(m.visible) == 0 {
			return m, nil
		}
		t := m.visible[m.cursor]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("وظیفه «%s» حذف شود؟ این عمل قابل بازگشت نیست. y/n", t.Title)
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.input.SetValue(m.filters.SearchText)
		m.input.Placeholder = "جستجو در عنوان و توضیحات"
		m.input.Focus()
		m.status = "جستجو: Enter برای تایید، Esc برای پاک کردن"
	case m.cfg.Keys.CycleCategory:
		m.filters.Category = cycleValue(m.filters.Category, m.categoryOptions())
		m = m.rederive()
		m.status = m.filterSummary()
	case m.cfg.Keys.CyclePriority:
		m.filters.Priority = cycleValue(m.filters.Priority, []string{
			tasklist.FilterAll,
			string(model.PriorityLow),
			string(model.PriorityMedium),
			string(model.PriorityHigh),
		})
		m = m.rederive()
		m.status = m.filterSummary()
	case m.cfg.Keys.CycleStatus:
		m.filters.Status = cycleValue(m.filters.Status, []string{
			tasklist.FilterAll,
			string(model.StatusNotStarted),
			string(model.StatusInProgress),
			string(model.StatusDone),
		})
		m = m.rederive()
		m.status = m.filterSummary()
	case m.cfg.Keys.CycleSort:
		m.filters.Sort = cycleValue(m.filters.Sort, []string{tasklist.SortLatest, tasklist.SortOldest})
		m = m.rederive()
		m.status = m.filterSummary()
	case m.cfg.Keys.ResetFilters:
		m.filters.Reset()
		m = m.rederive()
		m.status = "فیلترها بازنشانی شد"
	case m.cfg.Keys.Reload:
		m.status = "در حال بارگذاری وظایف…"
		return m, tea.Batch(m.loadTasksCmd(), m.loadCategoriesCmd())
	case m.cfg.Keys.SignOut:
		m.status = "در حال خروج…"
		return m, m.signOutCmd()
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "حذف لغو شد"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.confirmDel = false
			return m, nil
		}
		id := m.pendingDel.ID
		m.confirmDel = false
		m.pendingDel = nil
		m.status = "در حال حذف…"
		return m, m.removeCmd(id)
	default:
		return m, nil
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.filters.SearchText = ""
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m = m.rederive()
		m.status = "جستجو پاک شد"
		return m, nil
	case "enter":
		m.input.Blur()
		m.mode = modeList
		m.status = m.filterSummary()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		// Live filtering: every keystroke narrows the list right away.
		m.filters.SearchText = m.input.Value()
		m = m.rederive()
		return m, cmd
	}
}

func (m Model) onAuthDone(msg authMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.mode == modeRegister {
			m.status = "ثبت‌نام ناموفق بود"
		} else {
			m.status = "ورود ناموفق بود — ایمیل یا گذرواژه را بررسی کنید"
		}
		if errors.Is(msg.err, model.ErrAuthRequired) {
			m.status = "نشست منقضی شده — دوباره وارد شوید"
		}
		return m, nil
	}
	m.auth = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.EchoMode = textinput.EchoNormal
	m.input.Blur()
	m.status = "در حال بارگذاری وظایف…"
	return m, tea.Batch(m.loadTasksCmd(), m.loadCategoriesCmd())
}

// rederive recomputes the visible list and counts from the current collection
// and filter state. Called after every store or filter transition.
func (m Model) rederive() Model {
	m.visible, m.counts = tasklist.Derive(m.store.Tasks(), m.filters)
	m.cursor = clampCursor(m.cursor, len(m.visible))
	return m
}

func (m Model) categoryOptions() []string {
	opts := []string{tasklist.FilterAll}
	for _, c := range m.categories {
		opts = append(opts, c.Name)
	}
	return opts
}

func (m Model) filterSummary() string {
	return fmt.Sprintf("دسته‌بندی: %s • اولویت: %s • وضعیت: %s • مرتب‌سازی: %s",
		filterLabel(m.filters.Category),
		filterLabel(m.filters.Priority),
		filterLabel(m.filters.Status),
		sortLabel(m.filters.Sort))
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("دفتر — مدیریت وظایف")
	b.WriteString("\n\n")

	if m.auth != nil {
		b.WriteString(m.renderAuth())
		return b.String()
	}
	if m.form != nil {
		b.WriteString(m.renderForm())
		return b.String()
	}

	b.WriteString(renderCounts(m.counts))
	b.WriteString("\n")
	b.WriteString(m.filterSummary())
	b.WriteString("\n\n")

	if m.store.Loading() {
		b.WriteString("در حال بارگذاری…\n")
	}
	if m.store.Err() != nil {
		b.WriteString("خطا در ارتباط با سرور — برای تلاش دوباره R را بزنید\n")
	}

	if len(m.visible) == 0 {
		b.WriteString("وظیفه‌ای یافت نشد")
	} else {
		b.WriteString(m.renderTaskList())
	}

	if m.mode == modeSearch {
		b.WriteString("\nجستجو: ")
		b.WriteString(m.input.View())
	}

	if m.detailOpen {
		b.WriteString("\n---\n")
		b.WriteString(m.renderDetail())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))

	return b.String()
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.visible {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		line := fmt.Sprintf("%s %s %s %s", cursor, t.Title,
			renderChip(PriorityChip(t.Priority)), renderChip(StatusChip(t.Status)))
		line += fmt.Sprintf("  [%s | سررسید: %s]", t.Category, PersianDate(t.DueDate))

		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDetail() string {
	if len(m.visible) == 0 {
		return "وظیفه‌ای انتخاب نشده"
	}
	t := m.visible[clampCursor(m.cursor, len(m.visible))]
	var b strings.Builder
	b.WriteString("جزئیات وظیفه\n")
	b.WriteString(fmt.Sprintf("عنوان      : %s\n", t.Title))
	b.WriteString(fmt.Sprintf("توضیحات    : %s\n", emptyPlaceholder(t.Description)))
	b.WriteString(fmt.Sprintf("اولویت     : %s\n", PriorityChip(t.Priority).Label))
	b.WriteString(fmt.Sprintf("وضعیت      : %s\n", StatusChip(t.Status).Label))
	b.WriteString(fmt.Sprintf("دسته‌بندی   : %s\n", t.Category))
	b.WriteString(fmt.Sprintf("سررسید     : %s\n", PersianDate(t.DueDate)))
	b.WriteString(fmt.Sprintf("تاریخ ایجاد: %s\n", PersianDateTime(t.CreatedAt)))
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s حرکت • %s افزودن • %s ویرایش • %s حذف • %s جزئیات • %s جستجو • %s/%s/%s/%s فیلترها • %s بازنشانی • %s بارگذاری • %s خروج از حساب • %s خروج",
		k.Up, k.Down, k.Add, k.Edit, k.Delete, k.Detail, k.Search,
		k.CycleCategory, k.CyclePriority, k.CycleStatus, k.CycleSort,
		k.ResetFilters, k.Reload, k.SignOut, k.Quit)
}

func (m Model) loadTasksCmd() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return tasksLoadedMsg{err: st.Load(context.Background())}
	}
}

func (m Model) loadCategoriesCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		cats, err := client.FetchAllCategories(context.Background())
		return categoriesLoadedMsg{cats: cats, err: err}
	}
}

func (m Model) removeCmd(id string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return mutationMsg{op: "delete", id: id, err: st.Remove(context.Background(), id)}
	}
}

func (m Model) createCmd(in model.TaskInput) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return mutationMsg{op: "create", err: st.Create(context.Background(), in)}
	}
}

func (m Model) updateCmd(id string, in model.TaskInput) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return mutationMsg{op: "update", id: id, err: st.Update(context.Background(), id, in)}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return signedOutMsg{err: client.SignOut(context.Background())}
	}
}

func cycleValue(current string, options []string) string {
	for i, opt := range options {
		if opt == current {
			return options[(i+1)%len(options)]
		}
	}
	if len(options) == 0 {
		return current
	}
	return options[0]
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "—"
	}
	return v
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
