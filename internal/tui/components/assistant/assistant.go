package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neurogrowth/internal/errors"
	"github.com/julianstephens/neurogrowth/internal/logger"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/render"
	"github.com/julianstephens/neurogrowth/internal/screen"
)

const (
	Greeting     = "Hi! I'm your AI learning assistant. Ask me about study strategies, your performance, career guidance, or anything academic!"
	ErrorReply   = "Sorry, I had trouble processing that. Please try again."
	HistoryLimit = 100
)

// QuickActions are canned prompts offered when the input is empty
var QuickActions = []string{
	"Study tips",
	"My performance",
	"Burnout advice",
	"Study schedule",
	"Career guidance",
	"Improve weak areas",
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("#5c7cfa")).
			Padding(0, 1)

	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// Chatter sends a message to the assistant
type Chatter interface {
	Chat(ctx context.Context, studentID int, message string) (string, error)
}

// History persists the conversation locally
type History interface {
	AppendChatMessage(msg models.ChatMessage) (models.ChatMessage, error)
	GetChatHistory(studentID, limit int) ([]models.ChatMessage, error)
	ClearChatHistory(studentID int) error
}

// LoadedMsg carries the stored conversation
type LoadedMsg struct {
	ticket   screen.Ticket
	messages []models.ChatMessage
	err      error
}

func (m LoadedMsg) Failure() error { return m.err }

// RepliedMsg carries the conversation after an exchange
type RepliedMsg struct {
	ticket   screen.Ticket
	messages []models.ChatMessage
	prompt   string
	err      error
}

func (m RepliedMsg) Failure() error { return m.err }

type KeyMap struct {
	Send  key.Binding
	Quick key.Binding
	Clear key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Quick: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "quick prompt"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear history"),
		),
	}
}

type Model struct {
	chatter   Chatter
	history   History
	studentID int
	ctrl      *screen.Controller[[]models.ChatMessage]
	keys      KeyMap
	input     textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	pending   string
	clearErr  error
	quick     int
	width     int
	height    int
}

func New(chatter Chatter, history History, studentID int) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask me anything about your studies..."
	ti.CharLimit = 1000
	ti.Focus()

	return Model{
		chatter:   chatter,
		history:   history,
		studentID: studentID,
		ctrl:      screen.New[[]models.ChatMessage](),
		keys:      DefaultKeyMap(),
		input:     ti,
		viewport:  viewport.New(0, 0),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Load())
}

func (m Model) Keys() []key.Binding {
	return []key.Binding{m.keys.Send, m.keys.Quick, m.keys.Clear}
}

// Load reads the stored conversation
func (m Model) Load() tea.Cmd {
	t, ok := m.ctrl.BeginLoad()
	if !ok {
		return nil
	}
	history, id := m.history, m.studentID
	return func() tea.Msg {
		msgs, err := history.GetChatHistory(id, HistoryLimit)
		return LoadedMsg{ticket: t, messages: msgs, err: err}
	}
}

// Send asks the assistant. Both sides of the exchange are stored once the
// reply arrives.
func (m Model) Send(text string) (Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" {
		return m, nil
	}
	t, ok := m.ctrl.BeginSubmit()
	if !ok {
		return m, nil
	}
	m.pending = text
	m.clearErr = nil
	m.input.Reset()
	m.Render()

	current, _ := m.ctrl.Data()
	chatter, history, id := m.chatter, m.history, m.studentID
	return m, func() tea.Msg {
		reply, err := chatter.Chat(context.Background(), id, text)
		if err != nil {
			return RepliedMsg{ticket: t, prompt: text, err: err}
		}

		msgs := append([]models.ChatMessage(nil), current...)
		now := time.Now().UTC().Format(time.RFC3339)
		for _, cm := range []models.ChatMessage{
			{StudentID: id, Role: models.ChatRoleUser, Content: text, CreatedAt: now},
			{StudentID: id, Role: models.ChatRoleAssistant, Content: reply, CreatedAt: now},
		} {
			stored, err := history.AppendChatMessage(cm)
			if err != nil {
				logger.Warn("Failed to store chat message", "error", err)
				stored = cm
			}
			msgs = append(msgs, stored)
		}
		return RepliedMsg{ticket: t, messages: msgs, prompt: text}
	}
}

// Clear deletes the stored conversation
func (m Model) Clear() (Model, tea.Cmd) {
	if m.ctrl.State() != screen.Ready {
		return m, nil
	}
	if err := m.history.ClearChatHistory(m.studentID); err != nil {
		logger.Error("Failed to clear chat history", "error", err)
		m.clearErr = err
		m.Render()
		return m, nil
	}
	m.clearErr = nil
	m.ctrl.Reset(nil)
	m.Render()
	return m, nil
}

// ClearErr returns the error of the last failed history clear, if any
func (m Model) ClearErr() error {
	return m.clearErr
}

func (m Model) Messages() []models.ChatMessage {
	msgs, _ := m.ctrl.Data()
	return msgs
}

func (m Model) Submitting() bool {
	return m.ctrl.State() == screen.Submitting
}

func (m Model) Unmount() {
	m.ctrl.Unmount()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if m.ctrl.ResolveLoad(msg.ticket, msg.messages, msg.err) {
			m.Render()
		}
		return m, nil

	case RepliedMsg:
		var data *[]models.ChatMessage
		if msg.err == nil {
			data = &msg.messages
		}
		if !m.ctrl.SettleSubmit(msg.ticket, data, msg.err) {
			return m, nil
		}
		m.pending = ""
		if msg.err != nil {
			// keep the prompt so it can be resent
			m.input.SetValue(msg.prompt)
		}
		m.Render()
		return m, nil

	case spinner.TickMsg:
		if !m.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.ctrl.State() == screen.Loading || m.ctrl.State() == screen.Error {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Send):
			if m.Submitting() {
				return m, nil
			}
			m.ctrl.DismissNotice()
			var cmd tea.Cmd
			m, cmd = m.Send(m.input.Value())
			if cmd == nil {
				return m, nil
			}
			return m, tea.Batch(cmd, m.spinner.Tick)
		case key.Matches(msg, m.keys.Quick):
			m.input.SetValue(QuickActions[m.quick%len(QuickActions)])
			m.input.CursorEnd()
			m.quick++
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			return m.Clear()
		case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-4, 10)
	m.viewport.Width = width
	m.viewport.Height = max(height-3, 3)
	m.Render()
}

func (m *Model) Render() {
	width := max(m.width*3/4, 20)
	var lines []string
	lines = append(lines, botStyle.MaxWidth(width).Render(wrap(Greeting, width-4)))

	for _, cm := range m.Messages() {
		lines = append(lines, bubble(cm.Role, cm.Content, m.width, width))
	}
	if m.pending != "" {
		lines = append(lines, bubble(models.ChatRoleUser, m.pending, m.width, width))
	}
	if n := m.ctrl.Notice(); n != nil {
		lines = append(lines, botStyle.Render(errorStyle.Render(ErrorReply)))
	}
	if m.clearErr != nil {
		lines = append(lines, errorStyle.Render("Could not clear history: "+errors.Describe(m.clearErr)))
	}

	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

func bubble(role, content string, total, width int) string {
	if role == models.ChatRoleUser {
		b := userStyle.Render(wrap(content, width-2))
		return lipgloss.PlaceHorizontal(max(total, lipgloss.Width(b)), lipgloss.Right, b)
	}
	return botStyle.Render(wrap(content, width-4))
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 10)).Render(s)
}

func (m Model) View() string {
	switch m.ctrl.State() {
	case screen.Loading:
		return m.spinner.View() + " Loading conversation..."
	case screen.Error:
		return errorStyle.Render(errors.Describe(m.ctrl.Err()))
	}

	footer := m.input.View()
	if m.Submitting() {
		footer = m.spinner.View() + " Thinking..."
	} else if m.input.Value() == "" {
		footer += "\n" + render.Muted("ctrl+p for a quick prompt: "+strings.Join(QuickActions, ", "))
	}
	return m.viewport.View() + "\n" + footer
}
