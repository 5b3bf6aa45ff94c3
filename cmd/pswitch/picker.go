package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruminaider/pswitch/internal/profile"
)

// profilePicker is a single-select TUI over the configured profiles.
type profilePicker struct {
	items  []pickerItem
	cursor int
	chosen string
}

type pickerItem struct {
	id     string
	name   string
	active bool
}

func newProfilePicker(profiles []*profile.Profile, activeID string) profilePicker {
	items := make([]pickerItem, len(profiles))
	for i, p := range profiles {
		items[i] = pickerItem{id: p.ID, name: p.Name, active: p.ID == activeID}
	}
	return profilePicker{items: items}
}

func (p profilePicker) Init() tea.Cmd { return nil }

func (p profilePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			p.chosen = ""
			return p, tea.Quit
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.items)-1 {
				p.cursor++
			}
		case "enter":
			p.chosen = p.items[p.cursor].id
			return p, tea.Quit
		}
	}
	return p, nil
}

func (p profilePicker) View() string {
	var b strings.Builder

	b.WriteString("  Switch to profile:\n\n")
	for i, item := range p.items {
		cursor := "  "
		if p.cursor == i {
			cursor = "> "
		}
		marker := " "
		if item.active {
			marker = "*"
		}
		b.WriteString(fmt.Sprintf("  %s%s %s\n", cursor, marker, item.name))
	}
	b.WriteString("\n  enter: switch · q: cancel\n")

	return b.String()
}

// pickProfile runs the picker and returns the chosen profile id, or "" if
// cancelled.
func pickProfile(a *app) (string, error) {
	profiles, err := a.store.List()
	if err != nil {
		return "", err
	}
	if len(profiles) == 0 {
		return "", fmt.Errorf("no profiles configured; create one with 'pswitch profile create'")
	}

	activeID, err := a.store.ActiveID()
	if err != nil {
		return "", err
	}

	model, err := tea.NewProgram(newProfilePicker(profiles, activeID)).Run()
	if err != nil {
		return "", err
	}
	return model.(profilePicker).chosen, nil
}
