package tui

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/errors"
	"github.com/julianstephens/neurogrowth/internal/logger"
	"github.com/julianstephens/neurogrowth/internal/validation"
)

const (
	defaultCareerGoal = "Software Engineer"
	defaultTargetGPA  = "3.5"
)

type AuthFormModel struct {
	Name       string
	Email      string
	Password   string
	CareerGoal string
	TargetGPA  string
}

// authResultMsg is deliberately not a failure: a 401 here means bad
// credentials, not an expired session.
type authResultMsg struct {
	resp api.LoginResponse
	err  error
}

type authModel struct {
	register bool
	fields   *AuthFormModel
	form     *huh.Form
	pending  bool
	err      string
	spinner  spinner.Model
	width    int
}

func newAuth(register bool) authModel {
	a := authModel{
		register: register,
		fields:   &AuthFormModel{CareerGoal: defaultCareerGoal, TargetGPA: defaultTargetGPA},
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	a.form = newAuthForm(a.fields, register)
	return a
}

func parseGPA(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	gpa, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("target GPA must be a number")
	}
	if err := validation.TargetGPA(&gpa).Err(); err != nil {
		return nil, err
	}
	return &gpa, nil
}

func newAuthForm(f *AuthFormModel, register bool) *huh.Form {
	var fields []huh.Field
	if register {
		fields = append(fields,
			huh.NewInput().
				Title("Name").
				Value(&f.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
		)
	}
	fields = append(fields,
		huh.NewInput().
			Title("Email").
			Value(&f.Email).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("email is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&f.Password).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("password is required")
				}
				return nil
			}),
	)
	if register {
		fields = append(fields,
			huh.NewInput().
				Title("Career Goal").
				Value(&f.CareerGoal),
			huh.NewInput().
				Title("Target GPA").
				Value(&f.TargetGPA).
				Validate(func(s string) error {
					_, err := parseGPA(s)
					return err
				}),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huh.ThemeDracula()).
		WithShowHelp(false)
}

func (a authModel) init() tea.Cmd {
	return a.form.Init()
}

func (a *authModel) setWidth(width int) {
	a.width = width
	if width > 0 {
		a.form = a.form.WithWidth(min(width-4, 60))
	}
}

// retry rebuilds the form after a failed attempt, keeping what was typed
func (a *authModel) retry() {
	a.pending = false
	a.fields.Password = ""
	a.form = newAuthForm(a.fields, a.register)
	a.setWidth(a.width)
}

// authenticate registers when needed and then logs in
func (m Model) authenticate() tea.Cmd {
	f := *m.auth.fields
	register := m.auth.register
	auth := m.deps.Client.Auth
	return func() tea.Msg {
		ctx := context.Background()
		email := strings.TrimSpace(f.Email)
		if register {
			gpa, err := parseGPA(f.TargetGPA)
			if err != nil {
				return authResultMsg{err: err}
			}
			req := api.RegisterRequest{
				Name:       strings.TrimSpace(f.Name),
				Email:      email,
				Password:   f.Password,
				CareerGoal: strings.TrimSpace(f.CareerGoal),
				TargetGPA:  gpa,
			}
			if _, err := auth.Register(ctx, req); err != nil {
				return authResultMsg{err: err}
			}
		}
		resp, err := auth.Login(ctx, email, f.Password)
		return authResultMsg{resp: resp, err: err}
	}
}

func authErrorMessage(err error) string {
	var apiErr *api.Error
	if stderrors.As(err, &apiErr) && apiErr.Kind() == api.KindUnauthorized {
		if msgs := apiErr.Messages(); len(msgs) > 0 {
			return msgs[0]
		}
		return "Invalid email or password."
	}
	return errors.Describe(err)
}

func (m Model) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		if msg.err != nil {
			logger.Debug("Authentication failed", "error", msg.err)
			m.auth.err = authErrorMessage(msg.err)
			m.auth.retry()
			return m, m.auth.init()
		}
		if msg.resp.AccessToken == "" {
			m.auth.err = "The server did not return a session token."
			m.auth.retry()
			return m, m.auth.init()
		}
		if err := m.deps.Session.SetSession(msg.resp.AccessToken, msg.resp.User); err != nil {
			m.auth.err = err.Error()
			m.auth.retry()
			return m, m.auth.init()
		}
		m.banner = ""
		m.auth.pending = false
		m.mountUser(msg.resp.User)
		return m, m.initComponents()

	case spinner.TickMsg:
		if !m.auth.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.auth.spinner, cmd = m.auth.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.auth.pending {
			return m, nil
		}
		if key.Matches(msg, m.keys.Toggle) {
			m.auth = newAuth(!m.auth.register)
			m.auth.setWidth(m.width)
			return m, m.auth.init()
		}
	}

	if m.auth.pending {
		return m, nil
	}

	form, cmd := m.auth.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.auth.form = f
	}

	switch m.auth.form.State {
	case huh.StateCompleted:
		if m.auth.register {
			f := m.auth.fields
			if r := validation.Registration(strings.TrimSpace(f.Name), strings.TrimSpace(f.Email), f.Password); r.HasIssues() {
				m.auth.err = r.Err().Error()
				m.auth.retry()
				return m, m.auth.init()
			}
		}
		m.auth.pending = true
		m.auth.err = ""
		return m, tea.Batch(m.authenticate(), m.auth.spinner.Tick)
	case huh.StateAborted:
		m.auth = newAuth(m.auth.register)
		m.auth.setWidth(m.width)
		return m, m.auth.init()
	}
	return m, cmd
}

func (m Model) viewAuth() string {
	title := "Log in"
	toggle := "ctrl+r to create an account"
	if m.auth.register {
		title = "Create an account"
		toggle = "ctrl+r to log in instead"
	}

	parts := []string{brandStyle.Render("NeuroGrowth AI"), title, ""}
	if m.banner != "" {
		parts = append(parts, bannerStyle.Render(m.banner), "")
	}
	if m.auth.pending {
		parts = append(parts, m.auth.spinner.View()+" Signing in...")
	} else {
		parts = append(parts, m.auth.form.View())
	}
	if m.auth.err != "" {
		parts = append(parts, "", dangerStyle.Render(m.auth.err))
	}
	parts = append(parts, "", userStyle.Render(toggle))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
