package dailylog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/errors"
	"github.com/julianstephens/neurogrowth/internal/models"
	"github.com/julianstephens/neurogrowth/internal/screen"
	"github.com/julianstephens/neurogrowth/internal/validation"
)

const SavedMessage = "Log saved! Your prediction has been updated."

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// Creator posts a daily log for a student
type Creator interface {
	Create(ctx context.Context, studentID int, log models.DailyLog) (models.DailyLog, error)
}

// SavedMsg carries the outcome of a log submission
type SavedMsg struct {
	ticket screen.Ticket
	log    models.DailyLog
	err    error
}

func (m SavedMsg) Failure() error { return m.err }

// LoggedMsg is emitted after a log was stored so dependent views can refresh
type LoggedMsg struct {
	Log models.DailyLog
}

// Fields backs the huh form. Numeric inputs are kept as text while editing.
type Fields struct {
	Date       string
	StudyHours string
	Topics     string
	Problems   string
	MockScore  string
	Confidence int
	Mood       int
	Revision   bool
	Skill      string
}

// DefaultFields returns the form values a new log starts with
func DefaultFields() *Fields {
	d := models.DefaultDailyLog()
	return &Fields{
		StudyHours: strconv.FormatFloat(d.StudyHours, 'f', -1, 64),
		Topics:     strconv.Itoa(d.TopicsCompleted),
		Problems:   strconv.Itoa(d.ProblemsSolved),
		MockScore:  strconv.FormatFloat(d.MockScoreOr(0), 'f', -1, 64),
		Confidence: d.Confidence,
		Mood:       d.Mood,
		Revision:   d.RevisionDone,
		Skill:      d.SkillPracticed,
	}
}

// Log converts the form values into a daily log
func (f Fields) Log() (models.DailyLog, error) {
	hours, err := strconv.ParseFloat(strings.TrimSpace(f.StudyHours), 64)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("study hours must be a number")
	}
	topics, err := strconv.Atoi(strings.TrimSpace(f.Topics))
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("topics completed must be a whole number")
	}
	problems, err := strconv.Atoi(strings.TrimSpace(f.Problems))
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("problems solved must be a whole number")
	}

	l := models.DailyLog{
		Date:            strings.TrimSpace(f.Date),
		StudyHours:      hours,
		TopicsCompleted: topics,
		ProblemsSolved:  problems,
		Confidence:      f.Confidence,
		Mood:            f.Mood,
		RevisionDone:    f.Revision,
		SkillPracticed:  f.Skill,
	}
	if s := strings.TrimSpace(f.MockScore); s != "" {
		score, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.DailyLog{}, fmt.Errorf("mock score must be a number")
		}
		l.MockScore = &score
	}

	if err := validation.DailyLog(l).Err(); err != nil {
		return models.DailyLog{}, err
	}
	return l, nil
}

type Model struct {
	creator   Creator
	studentID int
	ctrl      *screen.Controller[models.DailyLog]
	fields    *Fields
	form      *huh.Form
	spinner   spinner.Model
	status    string
	formErr   string
	width     int
}

func New(creator Creator, studentID int) Model {
	m := Model{
		creator:   creator,
		studentID: studentID,
		ctrl:      screen.NewReady(models.DailyLog{}),
		fields:    DefaultFields(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.form = newForm(m.fields)
	return m
}

func numberValidator(field string, integer bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		var err error
		if integer {
			_, err = strconv.Atoi(s)
		} else {
			_, err = strconv.ParseFloat(s, 64)
		}
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		return nil
	}
}

func ratingOptions(low, high string) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, 5)
	for i := 1; i <= 5; i++ {
		label := strconv.Itoa(i)
		switch i {
		case 1:
			label += " " + low
		case 5:
			label += " " + high
		}
		opts = append(opts, huh.NewOption(label, i))
	}
	return opts
}

func newForm(f *Fields) *huh.Form {
	skills := make([]huh.Option[string], 0, len(constants.Skills))
	for _, s := range constants.Skills {
		skills = append(skills, huh.NewOption(s, s))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Description("Leave empty for today").
				Value(&f.Date),
			huh.NewInput().
				Title("Study hours").
				Value(&f.StudyHours).
				Validate(numberValidator("study hours", false)),
			huh.NewInput().
				Title("Topics completed").
				Value(&f.Topics).
				Validate(numberValidator("topics completed", true)),
			huh.NewInput().
				Title("Problems solved").
				Value(&f.Problems).
				Validate(numberValidator("problems solved", true)),
			huh.NewInput().
				Title("Mock score (0-100)").
				Description("Leave empty if you took no mock test").
				Value(&f.MockScore).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return numberValidator("mock score", false)(s)
				}),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Confidence").
				Options(ratingOptions("Low", "High")...).
				Value(&f.Confidence),
			huh.NewSelect[int]().
				Title("Mood").
				Options(ratingOptions("Stressed", "Great")...).
				Value(&f.Mood),
			huh.NewSelect[string]().
				Title("Skill practiced").
				Options(skills...).
				Value(&f.Skill),
			huh.NewConfirm().
				Title("Revision done?").
				Value(&f.Revision),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Submitting reports whether a submission is in flight
func (m Model) Submitting() bool {
	return m.ctrl.State() == screen.Submitting
}

// Unmount discards any submission still in flight
func (m Model) Unmount() {
	m.ctrl.Unmount()
}

// Submit posts the current form values. It does nothing while a previous
// submission is in flight.
func (m Model) Submit() (Model, tea.Cmd) {
	l, err := m.fields.Log()
	if err != nil {
		m.formErr = err.Error()
		return m.resetForm(), nil
	}

	t, ok := m.ctrl.BeginSubmit()
	if !ok {
		return m, nil
	}
	m.formErr = ""
	m.status = ""

	creator, id := m.creator, m.studentID
	return m, func() tea.Msg {
		saved, err := creator.Create(context.Background(), id, l)
		return SavedMsg{ticket: t, log: saved, err: err}
	}
}

func (m Model) resetForm() Model {
	m.form = newForm(m.fields)
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SavedMsg:
		var data *models.DailyLog
		if msg.err == nil {
			data = &msg.log
		}
		if !m.ctrl.SettleSubmit(msg.ticket, data, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m = m.resetForm()
			return m, m.form.Init()
		}
		m.status = SavedMessage
		m.fields = DefaultFields()
		m = m.resetForm()
		saved := msg.log
		return m, tea.Batch(m.form.Init(), func() tea.Msg { return LoggedMsg{Log: saved} })
	case spinner.TickMsg:
		if !m.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// The form is disabled until the pending submission settles
	if m.Submitting() {
		return m, nil
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		m.status = ""
		m.ctrl.DismissNotice()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var submit tea.Cmd
		m, submit = m.Submit()
		if submit == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, submit, m.spinner.Tick)
	case huh.StateAborted:
		m.fields = DefaultFields()
		m = m.resetForm()
		return m, m.form.Init()
	}
	return m, cmd
}

func (m *Model) SetSize(width, _ int) {
	m.width = width
	m.form = m.form.WithWidth(min(width, 80))
}

func (m Model) View() string {
	if m.Submitting() {
		return m.spinner.View() + " Saving..."
	}

	var b strings.Builder
	b.WriteString(m.form.View())
	if m.status != "" {
		b.WriteString("\n" + successStyle.Render(m.status))
	}
	if m.formErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.formErr))
	}
	if n := m.ctrl.Notice(); n != nil {
		b.WriteString("\n" + errorStyle.Render(errors.Describe(n)))
	}
	return b.String()
}
