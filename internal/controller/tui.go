package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// pagerChrome is the number of lines taken by the pager header and footer.
const pagerChrome = 4

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	footerStyle = lipgloss.NewStyle().Faint(true)
	summaryBox  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// TUI implements UI for terminals. Long listings open in a scrollable pager;
// everything else is printed like SimpleUI.
type TUI struct {
	*SimpleUI
	input io.Reader
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd), input: cmd.InOrStdin()}
}

// DisplaySignatures prints the listing, paging it when it does not fit.
func (p *TUI) DisplaySignatures(ctx context.Context, units []m.Unit, cfg m.GenerationConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := p.cmd.OutOrStdout()
	content := renderSignatureTable(units, cfg)

	model := newPagerModel(fmt.Sprintf("fuzzgen: %d source(s)", len(units)), content)

	if width, height, ok := terminalSize(out); ok {
		model = model.resize(width, height)
	}

	if !model.needsPagination() {
		_, err := fmt.Fprintf(out, "\n%s", content)
		return err
	}

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.input),
		tea.WithOutput(out),
		tea.WithAltScreen())

	_, err := program.Run()

	return err
}

// DisplaySummary prints the run counts inside a box.
func (p *TUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body := strings.TrimSpace(renderSummary(summary))
	_, err := fmt.Fprintln(p.cmd.ErrOrStderr(), summaryBox.Render(body))

	return err
}

// pagerModel is a Bubble Tea model scrolling a fixed block of text.
type pagerModel struct {
	title    string
	lines    int
	height   int
	viewport viewport.Model
}

func newPagerModel(title, content string) pagerModel {
	vp := viewport.New(0, 0)
	vp.SetContent(content)

	return pagerModel{
		title:    title,
		lines:    strings.Count(content, "\n"),
		viewport: vp,
	}
}

func (pm pagerModel) resize(width, height int) pagerModel {
	pm.height = height
	pm.viewport.Width = width
	pm.viewport.Height = max(1, height-pagerChrome)

	return pm
}

// needsPagination returns true if the content is taller than the screen.
func (pm pagerModel) needsPagination() bool {
	return pm.height > 0 && pm.lines > pm.height-pagerChrome
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return pm.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return pm, tea.Quit
		case "g", "home":
			pm.viewport.GotoTop()
			return pm, nil
		case "G", "end":
			pm.viewport.GotoBottom()
			return pm, nil
		}
	}

	var cmd tea.Cmd

	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(pm.title))
	b.WriteString("\n\n")
	b.WriteString(pm.viewport.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("%3.f%% | ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit",
		pm.viewport.ScrollPercent()*100)))

	return b.String()
}
