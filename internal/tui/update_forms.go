package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/huh/v2"

	"github.com/thenoetrevino/labelschema/internal/schema"
	"github.com/thenoetrevino/labelschema/internal/services/editor"
	"github.com/thenoetrevino/labelschema/internal/tui/huhforms"
	"github.com/thenoetrevino/labelschema/internal/tui/state"
)

// ============================================================================
// OPENING FORMS
// ============================================================================

// showForm attaches form to the form state and switches to FormMode
func (m Model) showForm(form *huh.Form) tea.Cmd {
	m.formState.Form = form.WithTheme(m.formTheme)
	m.uiState.SetMode(state.FormMode)
	return m.formState.Form.Init()
}

func (m Model) openSchemeForm() tea.Cmd {
	fs := m.formState
	fs.Open(state.SchemeForm, state.Row{})
	return m.showForm(huhforms.CreateColourSchemeForm(&fs.Name, &fs.HumanName))
}

func (m Model) openGroupForm() tea.Cmd {
	fs := m.formState
	fs.Open(state.GroupForm, state.Row{})
	return m.showForm(huhforms.CreateGroupForm(&fs.GroupName))
}

func (m Model) openClassForm() tea.Cmd {
	row, ok := m.currentRow()
	if !ok || row.Kind == state.SchemeRow {
		return m.notify(state.LevelWarning, errNoGroup.Error())
	}
	g := m.group(row.Group)
	if g == nil {
		return nil
	}

	fs := m.formState
	fs.Open(state.ClassForm, state.Row{Kind: state.GroupRow, Group: row.Group})
	return m.showForm(huhforms.CreateLabelClassForm(g.GroupName, &fs.Name, &fs.HumanName))
}

func (m Model) openColourForm() tea.Cmd {
	row, ok := m.currentRow()
	if !ok || row.Kind != state.ClassRow {
		return nil
	}
	c := m.class(schema.ClassRef{Group: row.Group, Class: row.Class})
	if c == nil {
		return nil
	}

	scheme := m.displaySchemeName()
	fs := m.formState
	fs.Open(state.ColourForm, row)
	if fs.Colour == "" || fs.Scheme != scheme {
		fs.Colour = c.Colour(scheme)
	}
	fs.Scheme = scheme
	return m.showForm(huhforms.CreateColourForm(c.Name, scheme, &fs.Colour))
}

func (m Model) openRenameForm() tea.Cmd {
	row, ok := m.currentRow()
	if !ok {
		return nil
	}

	fs := m.formState
	fs.Open(state.RenameForm, row)

	switch row.Kind {
	case state.SchemeRow:
		s := m.scheme(row.Scheme)
		if s == nil {
			return nil
		}
		fs.HumanName = s.HumanName
		return m.showForm(huhforms.CreateRenameForm("Display name of "+s.Name, &fs.HumanName, false))
	case state.GroupRow:
		g := m.group(row.Group)
		if g == nil {
			return nil
		}
		fs.GroupName = g.GroupName
		return m.showForm(huhforms.CreateRenameForm("Group name", &fs.GroupName, true))
	default:
		c := m.class(schema.ClassRef{Group: row.Group, Class: row.Class})
		if c == nil {
			return nil
		}
		fs.HumanName = c.HumanName
		return m.showForm(huhforms.CreateRenameForm("Display name of "+c.Name, &fs.HumanName, false))
	}
}

// ============================================================================
// FORM MODE
// ============================================================================

// updateForm forwards msg to the open form and submits it on completion.
// esc is intercepted so that the values typed so far are kept.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.formState.Form == nil {
		m.uiState.SetMode(state.NormalMode)
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyPressMsg); ok && keyMsg.String() == "esc" {
		m.closeForm()
		return m, nil
	}

	model, cmd := m.formState.Form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		m.formState.Form = form
	}

	switch m.formState.Form.State {
	case huh.StateCompleted:
		return m, m.submitForm()
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m Model) closeForm() {
	m.formState.Hide()
	m.uiState.SetMode(state.NormalMode)
}

// submitForm applies the form values. The form is hidden either way; its
// values are cleared only when the edit succeeded.
func (m Model) submitForm() tea.Cmd {
	fs := m.formState
	m.closeForm()

	var (
		err    error
		target state.Row
		moved  bool
	)

	switch fs.Kind {
	case state.SchemeForm:
		_, err = m.editor.CreateColourScheme(editor.CreateColourSchemeRequest{
			Name:      fs.Name,
			HumanName: fs.HumanName,
		})
		target = state.Row{Kind: state.SchemeRow, Scheme: len(m.doc.SchemeNames()) - 1}
		moved = true

	case state.GroupForm:
		_, err = m.editor.CreateGroup(editor.CreateGroupRequest{GroupName: fs.GroupName})
		target = state.Row{Kind: state.GroupRow, Group: len(m.doc.Groups()) - 1}
		moved = true

	case state.ClassForm:
		gi := fs.Target.Group
		_, err = m.editor.CreateLabelClass(editor.CreateLabelClassRequest{
			GroupIndex: gi,
			Name:       fs.Name,
			HumanName:  fs.HumanName,
		})
		if g := m.group(gi); g != nil {
			target = state.Row{Kind: state.ClassRow, Group: gi, Class: len(g.GroupClasses) - 1}
			moved = true
		}

	case state.ColourForm:
		err = m.editor.SetColour(editor.SetColourRequest{
			Class:  schema.ClassRef{Group: fs.Target.Group, Class: fs.Target.Class},
			Scheme: fs.Scheme,
			Colour: fs.Colour,
		})

	case state.RenameForm:
		err = m.applyRename(fs.Target, fs)
	}

	if err != nil {
		return m.afterEdit(err)
	}

	fs.Clear()
	if moved {
		m.selectRow(target)
	}
	return m.afterEdit(nil)
}

func (m Model) applyRename(row state.Row, fs *state.FormState) error {
	switch row.Kind {
	case state.SchemeRow:
		name := fs.HumanName
		return m.editor.UpdateColourScheme(editor.UpdateColourSchemeRequest{Index: row.Scheme, HumanName: &name})
	case state.GroupRow:
		name := fs.GroupName
		return m.editor.UpdateGroup(editor.UpdateGroupRequest{Index: row.Group, GroupName: &name})
	default:
		name := fs.HumanName
		return m.editor.UpdateLabelClass(editor.UpdateLabelClassRequest{
			Class:     schema.ClassRef{Group: row.Group, Class: row.Class},
			HumanName: &name,
		})
	}
}
