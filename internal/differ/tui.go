// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zdrctl/zdrctl/internal/zfs"
)

// SelectSnapshots lets the operator pick exactly two snapshots out of the
// catalog. Returns nil if the picker was quit without a selection.
func SelectSnapshots(items []zfs.Snapshot) []zfs.Snapshot {
	p := tea.NewProgram(model{items: items})
	m, _ := p.Run()
	return m.(model).selected
}

type model struct {
	items    []zfs.Snapshot
	cursor   int
	selected []zfs.Snapshot
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "w":
			return m, tea.WindowSize()
		case "q", "esc":
			m.selected = nil
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ":
			if contains(m.selected, m.items[m.cursor]) {
				// Remove item from selected
				for i, v := range m.selected {
					if v.Name() == m.items[m.cursor].Name() {
						m.selected = append(m.selected[:i], m.selected[i+1:]...)
						break
					}
				}
			} else if len(m.selected) < 2 {
				m.selected = append(m.selected, m.items[m.cursor])
			}
		case "enter":
			if len(m.selected) == 2 {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	s := "Select two snapshots:\n\n"
	for i, snap := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if contains(m.selected, snap) {
			mark = "x"
		}

		s += fmt.Sprintf("%s [%s] %s %4d %s\n", cursor, mark, snap.Name(), snap.Ordinal, snap.Created.Format("2006-01-02T15:04:05Z"))
	}
	return s + "\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n"
}

func contains(snapshots []zfs.Snapshot, snapshot zfs.Snapshot) bool {
	for _, s := range snapshots {
		if s.Name() == snapshot.Name() {
			return true
		}
	}
	return false
}
