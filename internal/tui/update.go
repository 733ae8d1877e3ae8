package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/labelschema/internal/schema"
	"github.com/thenoetrevino/labelschema/internal/services/editor"
	"github.com/thenoetrevino/labelschema/internal/transport"
	"github.com/thenoetrevino/labelschema/internal/tui/state"
	"github.com/thenoetrevino/labelschema/internal/updater"
)

// notificationTTL is how long a banner stays up
const notificationTTL = 5 * time.Second

type resultMsg struct{ result updater.Result }

type pushDoneMsg struct{ err error }

type notificationExpiredMsg struct{ id int }

// waitForResult blocks until the updater reports a result
func waitForResult(results <-chan updater.Result) tea.Cmd {
	if results == nil {
		return nil
	}
	return func() tea.Msg {
		return resultMsg{result: <-results}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.uiState.SetSize(msg.Width, msg.Height)
		m.notificationState.SetWindowSize(msg.Width, msg.Height)
		return m, nil

	case resultMsg:
		return m, tea.Batch(m.handleResult(msg.result), waitForResult(m.results))

	case pushDoneMsg:
		return m, m.handlePushDone(msg.err)

	case notificationExpiredMsg:
		m.notificationState.Remove(msg.id)
		return m, nil
	}

	switch m.uiState.Mode() {
	case state.FormMode:
		return m.updateForm(msg)
	case state.HelpMode:
		if msg, ok := msg.(tea.KeyPressMsg); ok {
			return m.handleHelpMode(msg)
		}
	default:
		if msg, ok := msg.(tea.KeyPressMsg); ok {
			return m.handleNormalMode(msg)
		}
	}
	return m, nil
}

// ============================================================================
// NORMAL MODE HANDLERS
// ============================================================================

func (m Model) handleNormalMode(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Up):
		m.uiState.MoveCursor(-1, len(rows))
	case key.Matches(msg, m.keys.Down):
		m.uiState.MoveCursor(1, len(rows))
	case key.Matches(msg, m.keys.NextScheme):
		m.uiState.CycleScheme(1, len(m.displaySchemes()))
	case key.Matches(msg, m.keys.PrevScheme):
		m.uiState.CycleScheme(-1, len(m.displaySchemes()))

	case key.Matches(msg, m.keys.AddScheme):
		return m, m.openSchemeForm()
	case key.Matches(msg, m.keys.AddGroup):
		return m, m.openGroupForm()
	case key.Matches(msg, m.keys.AddClass):
		return m, m.openClassForm()
	case key.Matches(msg, m.keys.SetColour):
		return m, m.openColourForm()
	case key.Matches(msg, m.keys.Rename):
		return m, m.openRenameForm()
	case key.Matches(msg, m.keys.ToggleActive):
		return m, m.toggleActive()

	case key.Matches(msg, m.keys.Push):
		return m, m.push()
	case key.Matches(msg, m.keys.ToggleSync):
		return m, m.toggleSync()

	case key.Matches(msg, m.keys.ShowHelp):
		m.uiState.SetMode(state.HelpMode)
	}
	return m, nil
}

func (m Model) handleHelpMode(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
		return m, m.quit()
	case key.Matches(msg, m.keys.ShowHelp, m.keys.Quit),
		msg.String() == "esc", msg.String() == "enter":
		m.uiState.SetMode(state.NormalMode)
	}
	return m, nil
}

// toggleActive flips the active flag of the selected row
func (m Model) toggleActive() tea.Cmd {
	row, ok := m.currentRow()
	if !ok {
		return nil
	}

	var err error
	switch row.Kind {
	case state.SchemeRow:
		s := m.scheme(row.Scheme)
		if s == nil {
			return nil
		}
		active := !s.Active
		err = m.editor.UpdateColourScheme(editor.UpdateColourSchemeRequest{Index: row.Scheme, Active: &active})
	case state.GroupRow:
		g := m.group(row.Group)
		if g == nil {
			return nil
		}
		active := !g.Active
		err = m.editor.UpdateGroup(editor.UpdateGroupRequest{Index: row.Group, Active: &active})
	case state.ClassRow:
		ref := schema.ClassRef{Group: row.Group, Class: row.Class}
		c := m.class(ref)
		if c == nil {
			return nil
		}
		active := !c.Active
		err = m.editor.UpdateLabelClass(editor.UpdateLabelClassRequest{Class: ref, Active: &active})
	}
	return m.afterEdit(err)
}

// afterEdit reports a failed edit or marks the document as unsaved
func (m Model) afterEdit(err error) tea.Cmd {
	if err != nil {
		slog.Warn("edit rejected", "error", err)
		return m.notify(state.LevelError, err.Error())
	}
	if m.syncer.Pending() {
		m.syncState.SetStatus(state.Pending)
	}
	return nil
}

// notify shows a banner and schedules its removal
func (m Model) notify(level state.NotificationLevel, message string) tea.Cmd {
	id := m.notificationState.Add(level, message)
	return tea.Tick(notificationTTL, func(time.Time) tea.Msg {
		return notificationExpiredMsg{id: id}
	})
}

// ============================================================================
// SYNC
// ============================================================================

// push sends both subtrees now
func (m Model) push() tea.Cmd {
	m.syncState.SetStatus(state.Syncing)
	ctx := m.ctx
	syncer := m.syncer
	return func() tea.Msg {
		return pushDoneMsg{err: syncer.Push(ctx)}
	}
}

func (m Model) handlePushDone(err error) tea.Cmd {
	if err != nil {
		m.syncState.SetStatus(state.Failed)
		return m.notify(state.LevelError, "Save failed: "+err.Error())
	}
	m.syncState.SetStatus(state.Synced)
	return m.notify(state.LevelInfo, "Saved")
}

// toggleSync switches automatic updates on or off
func (m Model) toggleSync() tea.Cmd {
	if m.syncState.Paused() {
		m.syncer.Enable()
		m.syncState.SetPaused(false)
		return m.notify(state.LevelInfo, "Autosave on")
	}
	m.syncer.Disable()
	m.syncState.SetPaused(true)
	return m.notify(state.LevelWarning, fmt.Sprintf("Autosave off. Press %s to save", m.keys.Push.Help().Key))
}

// handleResult reflects an automatic update in the status bar
func (m Model) handleResult(r updater.Result) tea.Cmd {
	if !r.Succeeded() {
		m.syncState.SetStatus(state.Failed)
		if r.Err.Code == transport.ErrCancelled {
			return nil
		}
		return m.notify(state.LevelError, fmt.Sprintf("Saving %s failed: %v", r.Subtree(), r.Err))
	}

	if m.syncer.Pending() {
		m.syncState.SetStatus(state.Pending)
	} else {
		m.syncState.SetStatus(state.Synced)
	}
	return nil
}

// quit sends pending edits and waits for updates already in flight
// before exiting
func (m Model) quit() tea.Cmd {
	if m.syncer.Pending() {
		m.syncState.SetStatus(state.Syncing)
	}
	syncer := m.syncer
	return func() tea.Msg {
		syncer.Flush()
		return tea.QuitMsg{}
	}
}

// errNoGroup is shown when a class is added with no group selected
var errNoGroup = errors.New("select a group or label class first")
