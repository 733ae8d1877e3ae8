// Package tui is the interactive schema editor.
//
// The model edits a schema.Document through the editor service. The updater
// subscribed to the same document sends the edits; its results come back
// to the model as messages.
package tui

import (
	"context"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	"charm.land/huh/v2"

	"github.com/thenoetrevino/labelschema/internal/config"
	"github.com/thenoetrevino/labelschema/internal/models"
	"github.com/thenoetrevino/labelschema/internal/schema"
	"github.com/thenoetrevino/labelschema/internal/services/editor"
	"github.com/thenoetrevino/labelschema/internal/tui/huhforms"
	"github.com/thenoetrevino/labelschema/internal/tui/state"
	"github.com/thenoetrevino/labelschema/internal/tui/theme"
	"github.com/thenoetrevino/labelschema/internal/updater"
)

// Syncer is the part of *updater.Updater the editor drives.
type Syncer interface {
	Enable()
	Disable()
	Pending() bool
	Flush()
	Push(ctx context.Context) error
}

// Model is the bubbletea model for the editor.
type Model struct {
	ctx     context.Context
	cfg     *config.Config
	doc     *schema.Document
	editor  editor.Service
	syncer  Syncer
	results <-chan updater.Result
	title   string

	keys      KeyMap
	help      help.Model
	formTheme huh.Theme

	uiState           *state.UIState
	formState         *state.FormState
	syncState         *state.SyncState
	notificationState *state.NotificationState
}

// New creates the editor model. results may be nil when syncer does not
// report results.
func New(
	ctx context.Context,
	cfg *config.Config,
	doc *schema.Document,
	syncer Syncer,
	results <-chan updater.Result,
	title string,
) Model {
	theme.Init(cfg.Colors)

	return Model{
		ctx:               ctx,
		cfg:               cfg,
		doc:               doc,
		editor:            editor.NewService(doc),
		syncer:            syncer,
		results:           results,
		title:             title,
		keys:              NewKeyMap(cfg.KeyMappings),
		help:              help.New(),
		formTheme:         huhforms.CreateTheme(cfg.Colors),
		uiState:           state.NewUIState(),
		formState:         state.NewFormState(),
		syncState:         state.NewSyncState(),
		notificationState: state.NewNotificationState(),
	}
}

// Init starts listening for update results
func (m Model) Init() tea.Cmd {
	return waitForResult(m.results)
}

// ============================================================================
// Snapshot helpers
// ============================================================================

// rows flattens the document into the selectable editor list: colour
// schemes first, then each group followed by its classes.
func (m Model) rows() []state.Row {
	schemes := m.doc.ColourSchemes()
	groups := m.doc.Groups()

	rows := make([]state.Row, 0, len(schemes)+len(groups))
	for i := range schemes {
		rows = append(rows, state.Row{Kind: state.SchemeRow, Scheme: i})
	}
	for gi, g := range groups {
		rows = append(rows, state.Row{Kind: state.GroupRow, Group: gi})
		for ci := range g.GroupClasses {
			rows = append(rows, state.Row{Kind: state.ClassRow, Group: gi, Class: ci})
		}
	}
	return rows
}

// currentRow returns the row under the cursor
func (m Model) currentRow() (state.Row, bool) {
	rows := m.rows()
	cursor := m.uiState.Cursor()
	if cursor < 0 || cursor >= len(rows) {
		return state.Row{}, false
	}
	return rows[cursor], true
}

// selectRow moves the cursor onto target if it exists
func (m Model) selectRow(target state.Row) {
	rows := m.rows()
	for i, r := range rows {
		if r == target {
			m.uiState.SetCursor(i, len(rows))
			return
		}
	}
}

// displaySchemes lists the colour columns the user can cycle through:
// the built-in default followed by every scheme.
func (m Model) displaySchemes() []string {
	return append([]string{models.DefaultSchemeName}, m.doc.SchemeNames()...)
}

// displaySchemeName returns the scheme whose colours are shown
func (m Model) displaySchemeName() string {
	names := m.displaySchemes()
	m.uiState.ClampScheme(len(names))
	return names[m.uiState.DisplayScheme()]
}

func (m Model) scheme(index int) *models.ColourScheme {
	schemes := m.doc.ColourSchemes()
	if index < 0 || index >= len(schemes) {
		return nil
	}
	return schemes[index]
}

func (m Model) group(index int) *models.LabelClassGroup {
	groups := m.doc.Groups()
	if index < 0 || index >= len(groups) {
		return nil
	}
	return groups[index]
}

func (m Model) class(ref schema.ClassRef) *models.LabelClass {
	g := m.group(ref.Group)
	if g == nil || ref.Class < 0 || ref.Class >= len(g.GroupClasses) {
		return nil
	}
	return g.GroupClasses[ref.Class]
}
