// Package statsui provides the Bubble Tea stats and achievements interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathsprint/internal/achieve"
	"github.com/verte-zerg/mathsprint/internal/model"
	"github.com/verte-zerg/mathsprint/internal/stats"
	"github.com/verte-zerg/mathsprint/internal/store"
)

const (
	tabOverview = iota
	tabHistory
	tabAchievements
)

const historyLimit = 200

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	unlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6FBF73"))
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store

	tabs      []string
	activeTab int
	viewports []viewport.Model
	history   table.Model

	modeFilter model.Mode // empty Mode means all modes
	errMsg     string

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store) *Model {
	m := &Model{
		store: st,
		tabs:  []string{"Overview", "History", "Achievements"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.history = buildHistoryTable(nil, 0, 1)
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabHistory {
			m.history.Focus()
		} else {
			m.history.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "m":
			m.cycleModeFilter()
			return m, nil
		case "g", "home":
			if m.activeTab == tabHistory {
				m.history.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.history.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabHistory {
				var cmd tea.Cmd
				m.history, cmd = m.history.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	if m.activeTab == tabHistory {
		b.WriteString(m.history.View())
	} else {
		b.WriteString(m.viewports[m.activeTab].View())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
}

func (m *Model) cycleModeFilter() {
	if m.modeFilter == "" {
		m.modeFilter = model.Modes[0]
	} else {
		for i, mode := range model.Modes {
			if mode == m.modeFilter {
				if i == len(model.Modes)-1 {
					m.modeFilter = ""
				} else {
					m.modeFilter = model.Modes[i+1]
				}
				break
			}
		}
	}
	m.refresh()
	m.updateLayout()
}

func (m *Model) refresh() {
	m.errMsg = ""
	ctx := context.Background()

	recs, err := m.store.ListPlays(ctx, m.modeFilter, historyLimit)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load plays: %v", err)
		return
	}

	m.renderOverview(ctx, recs)
	m.history = buildHistoryTable(recs, m.bodyWidth(), m.bodyHeight())
	m.renderAchievements(ctx)
}

func (m *Model) renderOverview(ctx context.Context, recs []model.PlayRecord) {
	var buf bytes.Buffer
	modes := model.Modes
	if m.modeFilter != "" {
		modes = []model.Mode{m.modeFilter}
	}
	for _, mode := range modes {
		var modeRecs []model.PlayRecord
		for _, r := range recs {
			if r.Mode == mode {
				modeRecs = append(modeRecs, r)
			}
		}
		high, err := m.store.HighScore(ctx, mode)
		if err != nil {
			m.errMsg = fmt.Sprintf("failed to load high score: %v", err)
			return
		}
		sum := stats.Summarize(modeRecs)
		if err := stats.RenderSummary(&buf, mode, sum, high); err != nil {
			m.errMsg = fmt.Sprintf("failed to render summary: %v", err)
			return
		}
		if len(modeRecs) > 1 {
			scores := make([]float64, len(modeRecs))
			for i, r := range modeRecs {
				scores[i] = float64(r.Score)
			}
			fmt.Fprintf(&buf, "Scores: %s\n\n", stats.Sparkline(scores))
		}
	}
	sparks, err := m.store.Sparks(ctx)
	if err == nil {
		fmt.Fprintf(&buf, "Spark Balance: %d\n", sparks)
	}
	m.viewports[tabOverview].SetContent(buf.String())
}

func (m *Model) renderAchievements(ctx context.Context) {
	unlocked, err := m.store.Achievements(ctx)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load achievements: %v", err)
		return
	}
	var b strings.Builder
	count := 0
	for _, a := range achieve.Catalog {
		if at, ok := unlocked[a.ID]; ok {
			count++
			b.WriteString(unlockedStyle.Render(fmt.Sprintf("✓ %s", a.Title)))
			b.WriteString(headerStyle.Render(fmt.Sprintf("  %s", at.Local().Format("2006-01-02"))))
		} else {
			b.WriteString(lockedStyle.Render(fmt.Sprintf("  %s", a.Title)))
		}
		b.WriteString("\n")
		b.WriteString(lockedStyle.Render("    " + a.Description))
		b.WriteString("\n")
	}
	header := titleStyle.Render(fmt.Sprintf("Achievements %d/%d", count, len(achieve.Catalog))) + "\n\n"
	m.viewports[tabAchievements].SetContent(header + b.String())
}

func buildHistoryTable(recs []model.PlayRecord, width, height int) table.Model {
	columns := []table.Column{
		{Title: "When", Width: 16},
		{Title: "Mode", Width: 15},
		{Title: "Score", Width: 7},
		{Title: "Probs", Width: 6},
		{Title: "Acc", Width: 5},
		{Title: "Streak", Width: 6},
		{Title: "Sparks", Width: 6},
	}
	rows := make([]table.Row, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i]
		rows = append(rows, table.Row{
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Mode.Title(),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Problems),
			fmt.Sprintf("%.0f%%", r.Accuracy()*100),
			fmt.Sprintf("%d", r.BestStreak),
			fmt.Sprintf("%d", r.Sparks),
		})
	}
	if height < 1 {
		height = 1
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
	)
	if width > 0 {
		t.SetWidth(width)
	}
	return t
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m *Model) renderFooter() string {
	filter := "all modes"
	if m.modeFilter != "" {
		filter = m.modeFilter.Title()
	}
	return headerStyle.Render(fmt.Sprintf("←/→ tabs · m mode (%s) · g/G top/bottom · q quit", filter))
}

func (m *Model) bodyWidth() int {
	if m.width == 0 {
		return 80
	}
	return m.width
}

func (m *Model) bodyHeight() int {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	body := m.height - tabsHeight - 2
	if body < 1 {
		body = 1
	}
	return body
}

func (m *Model) updateLayout() {
	w, h := m.bodyWidth(), m.bodyHeight()
	for i := range m.viewports {
		m.viewports[i].Width = w
		m.viewports[i].Height = h
	}
	m.history.SetWidth(w)
	m.history.SetHeight(h)
}
