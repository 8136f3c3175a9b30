package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostbridge/modcompat/rewrite"
)

// browseReport opens a scrollable TUI over the report phrases.
func browseReport(name string, report *rewrite.Report) error {
	m := reportModel{
		name:   name,
		report: report,
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type reportModel struct {
	name   string
	report *rewrite.Report
	vp     viewport.Model
	ready  bool
}

func (m reportModel) Init() tea.Cmd {
	return nil
}

func (m reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 1
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.vp.SetContent(m.renderBody())
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - headerHeight - footerHeight
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m reportModel) View() string {
	if !m.ready {
		return "loading..."
	}
	header := headerStyle.Render("rewrite report: "+m.name) + "\n"
	footer := dimStyle.Render(fmt.Sprintf("%3.f%% · ↑/↓ scroll · q quit", m.vp.ScrollPercent()*100))
	return header + "\n" + m.vp.View() + "\n" + footer
}

func (m reportModel) renderBody() string {
	var b strings.Builder

	if m.report.Empty() {
		b.WriteString(dimStyle.Render("fully compatible, nothing to do"))
		b.WriteByte('\n')
		return b.String()
	}

	for _, phrase := range m.report.Phrases {
		b.WriteString(phraseStyle.Render(phrase))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for _, o := range m.report.Results.List() {
		if o.Fatal() {
			b.WriteString(fatalStyle.Render(o.String()))
		} else {
			b.WriteString(warnStyle.Render(o.String()))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	switch m.report.Disposition() {
	case rewrite.DispositionReject:
		b.WriteString(fatalStyle.Render("disposition: reject"))
	case rewrite.DispositionWarn:
		b.WriteString(warnStyle.Render("disposition: warn"))
	default:
		b.WriteString(dimStyle.Render("disposition: accept"))
	}
	b.WriteByte('\n')
	return b.String()
}
