package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"texgraph/internal/core/ports"
	"texgraph/internal/engine/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	failed      bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	result     ports.ProjectResult
	lastUpdate time.Time
}

type updateMsg struct {
	result ports.ProjectResult
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.result = msg.result
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, e := range m.result.GlobalErrors {
			items = append(items, item{title: "Project Error", desc: e, failed: true})
		}
		for _, f := range m.result.Files {
			it := item{title: f.Path, desc: "ok"}
			if f.Err != nil {
				it.desc = f.Err.Error()
				it.failed = true
			}
			items = append(items, it)
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d commands | %d environments",
		m.lastUpdate.Format("15:04:05"),
		len(m.result.Files),
		len(m.result.Commands),
		len(m.result.Environments)))

	failed := m.result.FileErrorCount() + len(m.result.GlobalErrors)
	var summary string
	if failed == 0 {
		summary = successStyle.Render(fmt.Sprintf("✅ Resolved | %d document-defined | %d inferred",
			len(m.result.CommandCategories[store.CategoryDocument]),
			len(m.result.CommandCategories[store.CategoryInferred])))
	} else {
		summary = errorStyle.Render(fmt.Sprintf("⚠️  %d problems", failed))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Project Resolution Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Project Files"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
