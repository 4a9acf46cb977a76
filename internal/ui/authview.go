package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// authState backs the login/register surface: email then password, with one
// key toggling between the two flows.
type authState struct {
	email    string
	password string
	index    int
	register bool
}

func newAuthState(register bool) *authState {
	return &authState{register: register}
}

func authFieldLabel(index int) string {
	if index == 0 {
		return "ایمیل"
	}
	return "گذرواژه"
}

func (m Model) updateAuthMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+r":
		m.auth.register = !m.auth.register
		if m.auth.register {
			m.mode = modeRegister
			m.status = "ثبت‌نام: ایمیل و گذرواژه را وارد کنید"
		} else {
			m.mode = modeLogin
			m.status = "ورود: ایمیل و گذرواژه را وارد کنید"
		}
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.saveAuthField()
		m.auth.index = 1 - m.auth.index
		return m.focusAuthField(), nil
	case "enter":
		m.saveAuthField()
		if m.auth.index == 0 {
			m.auth.index = 1
			return m.focusAuthField(), nil
		}
		return m.submitAuth()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) saveAuthField() {
	if m.auth.index == 0 {
		m.auth.email = m.input.Value()
	} else {
		m.auth.password = m.input.Value()
	}
}

func (m Model) focusAuthField() Model {
	if m.auth.index == 0 {
		m.input.EchoMode = textinput.EchoNormal
		m.input.SetValue(m.auth.email)
	} else {
		m.input.EchoMode = textinput.EchoPassword
		m.input.SetValue(m.auth.password)
	}
	m.input.Placeholder = authFieldLabel(m.auth.index)
	m.input.Focus()
	return m
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.auth.email)
	password := m.auth.password
	if email == "" || password == "" {
		m.status = "ایمیل و گذرواژه الزامی است"
		return m, nil
	}

	client := m.client
	register := m.auth.register
	if register {
		m.status = "در حال ثبت‌نام…"
	} else {
		m.status = "در حال ورود…"
	}
	return m, func() tea.Msg {
		var err error
		if register {
			_, err = client.SignUp(context.Background(), email, password)
		} else {
			_, err = client.SignIn(context.Background(), email, password)
		}
		return authMsg{err: err}
	}
}

func (m Model) renderAuth() string {
	var b strings.Builder
	if m.auth.register {
		b.WriteString("ثبت‌نام")
	} else {
		b.WriteString("ورود به حساب")
	}
	b.WriteString("\n\n")

	values := []string{m.auth.email, strings.Repeat("•", len(m.auth.password))}
	for i := 0; i < 2; i++ {
		prefix := " "
		val := values[i]
		if i == m.auth.index {
			prefix = ">"
			val = m.input.View()
		} else if val == "" {
			val = "—"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", prefix, authFieldLabel(i), val))
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString("Enter تایید • Tab جابجایی • Ctrl+R ورود/ثبت‌نام • Ctrl+C خروج")
	return b.String()
}
