// Package tui provides the Bubble Tea game interface.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathsprint/internal/items"
	"github.com/verte-zerg/mathsprint/internal/model"
	"github.com/verte-zerg/mathsprint/internal/session"
	"github.com/verte-zerg/mathsprint/internal/sound"
)

type phase int

const (
	phaseCountdown phase = iota
	phasePlaying
	phaseOver
	phaseInvalid
)

const (
	countdownSeconds = 3
	maxQuickSlots    = 4
)

type countdownTickMsg struct{}

type gameTickMsg struct{}

var (
	problemStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	hudStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	overdriveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	goodStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6FBF73"))
	badStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E9BD1"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	countdownStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
)

// Model implements the Bubble Tea game UI. It is also the session's
// Presenter: the session pushes state here and View renders the cache.
type Model struct {
	sess   *session.Session
	mode   model.Mode
	sounds sound.Player
	inv    session.Inventory

	slots     []string
	itemNames map[string]string

	input  textinput.Model
	width  int
	height int

	phase     phase
	countdown int

	problem      string
	timer        int
	lives        int
	score        int
	streak       int
	mistakes     int
	overdrive    bool
	feedback     string
	feedbackTone session.Tone
	summary      *session.Summary
	invalid      string
}

// NewModel constructs the game TUI. Quick slots bind the first owned
// items to F1 through F4. The session is attached afterwards with
// SetSession, since it needs this model as its Presenter.
func NewModel(mode model.Mode, sounds sound.Player, inv session.Inventory) *Model {
	input := textinput.New()
	input.Placeholder = "answer"
	input.CharLimit = 6
	input.Width = 10

	names := make(map[string]string, len(items.Catalog))
	var slots []string
	for _, it := range items.Catalog {
		names[it.ID] = it.Name
		if len(slots) < maxQuickSlots && inv.Count(it.ID) > 0 && it.UsableIn(mode) {
			slots = append(slots, it.ID)
		}
	}

	return &Model{
		mode:      mode,
		sounds:    sounds,
		inv:       inv,
		slots:     slots,
		itemNames: names,
		input:     input,
	}
}

// SetSession wires the session this model presents.
func (m *Model) SetSession(sess *session.Session) {
	m.sess = sess
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if err := m.sess.Start(m.mode); err != nil {
		return tea.Quit
	}
	m.input.Focus()
	return tea.Batch(textinput.Blink, m.beginCmd())
}

// beginCmd kicks off either the countdown or, when the countdown is
// disabled, the game clock directly.
func (m *Model) beginCmd() tea.Cmd {
	if m.sess.State() == session.StateActive {
		m.phase = phasePlaying
		return m.tickCmd()
	}
	m.phase = phaseCountdown
	m.countdown = countdownSeconds
	m.sounds.Play(sound.CueCountdown)
	return countdownCmd()
}

func countdownCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownTickMsg{}
	})
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return gameTickMsg{}
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case countdownTickMsg:
		if m.phase != phaseCountdown {
			return m, nil
		}
		m.countdown--
		if m.countdown > 0 {
			m.sounds.Play(sound.CueCountdown)
			return m, countdownCmd()
		}
		m.sounds.Play(sound.CueGo)
		m.sess.BeginRound()
		m.phase = phasePlaying
		return m, m.tickCmd()
	case gameTickMsg:
		if m.phase != phasePlaying {
			return m, nil
		}
		m.sess.Tick()
		if m.phase == phasePlaying {
			return m, m.tickCmd()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.phase {
	case phaseInvalid:
		return m, tea.Quit
	case phaseOver:
		switch msg.String() {
		case "enter", "r":
			return m, m.restart()
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	case phasePlaying:
		switch msg.Type {
		case tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.submit()
			return m, nil
		case tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4:
			m.useSlot(int(msg.Type - tea.KeyF1))
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	default:
		if msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		return m, nil
	}
}

func (m *Model) restart() tea.Cmd {
	m.summary = nil
	m.feedback = ""
	m.problem = ""
	m.input.Reset()
	if err := m.sess.Start(m.mode); err != nil {
		return tea.Quit
	}
	return m.beginCmd()
}

func (m *Model) submit() {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return
	}
	answer, err := strconv.Atoi(raw)
	if err != nil {
		m.input.Reset()
		return
	}
	m.input.Reset()
	// A violation surfaces through ShowInvalidated.
	_ = m.sess.Submit(answer)
}

func (m *Model) useSlot(i int) {
	if i < 0 || i >= len(m.slots) {
		return
	}
	res := m.sess.UseItem(m.slots[i])
	if !res.Success {
		m.feedback = res.Message
		m.feedbackTone = session.ToneWarn
	}
}

// Presenter implementation. The session drives these synchronously
// from within Update, so View always sees a consistent snapshot.

func (m *Model) RenderProblem(text string) { m.problem = text }

func (m *Model) RenderTimer(seconds int) { m.timer = seconds }

func (m *Model) RenderLives(lives int) { m.lives = lives }

func (m *Model) RenderScore(score int) { m.score = score }

func (m *Model) RenderStreak(streak int) { m.streak = streak }

func (m *Model) RenderMistakes(count int) { m.mistakes = count }

func (m *Model) RenderFeedback(text string, tone session.Tone) {
	m.feedback = text
	m.feedbackTone = tone
}

func (m *Model) SetOverdrive(active bool) { m.overdrive = active }

func (m *Model) ShowGameOver(sum session.Summary) {
	m.summary = &sum
	m.phase = phaseOver
}

func (m *Model) ShowInvalidated(reason string) {
	m.invalid = reason
	m.phase = phaseInvalid
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.phase {
	case phaseCountdown:
		content = m.viewCountdown()
	case phasePlaying:
		content = m.viewPlaying()
	case phaseOver:
		content = m.viewOver()
	case phaseInvalid:
		content = m.viewInvalid()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewCountdown() string {
	return countdownStyle.Render(fmt.Sprintf("%d", m.countdown)) + "\n\n" +
		hudStyle.Render(session.DescribeMode(m.mode))
}

func (m *Model) viewPlaying() string {
	width := m.width
	if width <= 0 {
		width = 60
	}
	hudWidth := width * 70 / 100
	if hudWidth < 30 {
		hudWidth = 30
	}

	hudLine := renderHUD(hudWidth, hudState{
		mode:      m.mode,
		score:     m.score,
		streak:    m.streak,
		timer:     m.timer,
		lives:     m.lives,
		mistakes:  m.mistakes,
		overdrive: m.overdrive,
	})
	if m.overdrive {
		hudLine = overdriveStyle.Render(hudLine)
	} else {
		hudLine = hudStyle.Render(hudLine)
	}

	var b strings.Builder
	b.WriteString(hudLine)
	b.WriteString("\n\n")
	b.WriteString(problemStyle.Render(m.problem))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.styledFeedback())

	counts := make(map[string]int, len(m.slots))
	for _, id := range m.slots {
		counts[id] = m.inv.Count(id)
	}
	if hints := quickSlotHints(m.slots, counts, m.itemNames); hints != "" {
		b.WriteString("\n\n")
		b.WriteString(footerStyle.Render(hints))
	}
	if active := m.sess.ActiveEffectIDs(); len(active) > 0 {
		names := make([]string, 0, len(active))
		for _, id := range active {
			names = append(names, m.itemNames[id])
		}
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("Active: " + strings.Join(names, ", ")))
	}
	return b.String()
}

func (m *Model) styledFeedback() string {
	if m.feedback == "" {
		return ""
	}
	switch m.feedbackTone {
	case session.ToneGood:
		return goodStyle.Render(m.feedback)
	case session.ToneBad:
		return badStyle.Render(m.feedback)
	case session.ToneWarn:
		return warnStyle.Render(m.feedback)
	case session.ToneSpecial:
		return overdriveStyle.Render(m.feedback)
	default:
		return infoStyle.Render(m.feedback)
	}
}

func (m *Model) viewOver() string {
	sum := m.summary
	if sum == nil {
		return ""
	}
	var b strings.Builder
	if sum.NewHighScore {
		b.WriteString(overdriveStyle.Render("NEW HIGH SCORE!"))
	} else {
		b.WriteString(titleStyle.Render("Game Over"))
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s\n", sum.Mode.Title())
	fmt.Fprintf(&b, "Score: %d (best %d)\n", sum.Score, sum.HighScore)
	fmt.Fprintf(&b, "Problems: %d/%d (%.0f%%)\n", sum.Correct, sum.Problems, sum.Accuracy*100)
	fmt.Fprintf(&b, "Best Streak: %d\n", sum.BestStreak)
	fmt.Fprintf(&b, "Sparks Earned: %d\n", sum.Sparks)
	if sum.Daily != nil {
		fmt.Fprintf(&b, "Daily Streak: %d days\n", sum.Daily.Streak)
		if sum.Daily.NewPersonalBest {
			b.WriteString("New personal best for today!\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("enter play again · q quit"))
	return b.String()
}

func (m *Model) viewInvalid() string {
	var b strings.Builder
	b.WriteString(badStyle.Render("SESSION INVALIDATED"))
	b.WriteString("\n\n")
	b.WriteString(m.invalid)
	b.WriteString("\n")
	b.WriteString("This run will not be recorded.\n\n")
	b.WriteString(footerStyle.Render("press any key to exit"))
	return b.String()
}
