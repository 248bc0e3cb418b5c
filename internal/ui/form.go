package ui

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kmadmin/internal/db"
	"kmadmin/internal/model"
	"kmadmin/internal/util"
)

// EditSurface is opened with the record a Modify action resolved to.
type EditSurface interface {
	Load(rec model.Record) error
}

type formField struct {
	label    string
	input    textinput.Model
	required bool
	locked   bool
}

// FormModel adds or edits one user, config entry or file version.
type FormModel struct {
	ctx      context.Context
	db       *sql.DB
	kind     model.Kind
	operator string
	now      func() int64
	keys     FormKeyMap

	editing bool
	before  model.Record

	fields       []formField
	focusedField int
	error        string
}

// NewFormModel returns an empty add form for kind.
func NewFormModel(ctx context.Context, database *sql.DB, kind model.Kind, operator string) (*FormModel, error) {
	m := &FormModel{
		ctx:      ctx,
		db:       database,
		kind:     kind,
		operator: operator,
		now:      util.NowMillis,
		keys:     DefaultFormKeyMap(),
	}
	switch kind {
	case model.KindUser:
		m.fields = []formField{
			newFormField("Username", "alice", 64, true),
			newFormField("Role", "normal, operator, admin (or 0-2)", 16, true),
		}
	case model.KindConfig:
		m.fields = []formField{
			newFormField("Key", "config key", 128, true),
			newFormField("Value", "plain text or JSON", 4096, false),
			newFormField("Description", "what this key controls", 256, false),
		}
	case model.KindFile:
		m.fields = []formField{
			newFormField("File Name", "server.properties", 256, true),
			newFormField("MD5", "32 hex digits", 32, true),
			newFormField("Description", "what changed", 256, false),
		}
	default:
		return nil, fmt.Errorf("%s cannot be edited", kind)
	}
	m.fields[0].input.Focus()
	return m, nil
}

func newFormField(label, placeholder string, limit int, required bool) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	return formField{label: label, input: in, required: required}
}

// Load fills the form from rec and switches it to edit mode. The key
// field is locked while editing.
func (m *FormModel) Load(rec model.Record) error {
	switch r := rec.(type) {
	case model.User:
		if m.kind != model.KindUser {
			return fmt.Errorf("cannot load %T into %s form", rec, m.kind)
		}
		m.fields[0].input.SetValue(r.Username)
		m.fields[1].input.SetValue(r.RoleName())
	case model.ConfigEntry:
		if m.kind != model.KindConfig {
			return fmt.Errorf("cannot load %T into %s form", rec, m.kind)
		}
		m.fields[0].input.SetValue(r.ConfigKey)
		m.fields[1].input.SetValue(r.ConfigValue)
		m.fields[2].input.SetValue(r.ConfigDescription)
	case model.UploadedFile:
		if m.kind != model.KindFile {
			return fmt.Errorf("cannot load %T into %s form", rec, m.kind)
		}
		m.fields[0].input.SetValue(r.FileName)
		m.fields[1].input.SetValue(r.FileMD5)
		m.fields[2].input.SetValue(r.Description)
	default:
		return fmt.Errorf("cannot edit %T", rec)
	}

	m.editing = true
	m.before = rec
	if m.kind != model.KindFile {
		m.fields[0].locked = true
		m.fields[0].input.Blur()
		m.focusedField = 1
		m.fields[1].input.Focus()
	}
	return nil
}

// Title names the form in the breadcrumb.
func (m *FormModel) Title() string {
	verb := "Add"
	if m.editing {
		verb = "Edit"
	}
	return verb + " " + singular(m.kind)
}

// Kind returns the record kind the form edits.
func (m *FormModel) Kind() model.Kind {
	return m.kind
}

func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			return m, func() tea.Msg {
				return model.FormCancelledMsg{}
			}
		case key.Matches(keyMsg, m.keys.Save):
			return m, m.save()
		case key.Matches(keyMsg, m.keys.NextField):
			m.nextField()
			return m, nil
		case key.Matches(keyMsg, m.keys.PrevField):
			m.prevField()
			return m, nil
		}
	}

	if m.fields[m.focusedField].locked {
		return m, nil
	}
	var cmd tea.Cmd
	m.fields[m.focusedField].input, cmd = m.fields[m.focusedField].input.Update(msg)
	return m, cmd
}

// View renders the form.
func (m *FormModel) View(width, height int) string {
	var fields []string
	for i, f := range m.fields {
		label := f.label
		if f.required {
			label += " *"
		}
		if f.locked {
			label += " (locked)"
		}
		fields = append(fields, renderFormField(label, f.input, i == m.focusedField))
	}

	if m.error != "" {
		fields = append(fields, "")
		fields = append(fields, ErrorStyle.Render(m.error))
	}

	return PanelStyle.
		Width(width - 4).
		Height(max(0, height-4)).
		Render(strings.Join(fields, "\n"))
}

func (m *FormModel) nextField() {
	m.fields[m.focusedField].input.Blur()
	for i := 0; i < len(m.fields); i++ {
		m.focusedField = (m.focusedField + 1) % len(m.fields)
		if !m.fields[m.focusedField].locked {
			break
		}
	}
	m.fields[m.focusedField].input.Focus()
}

func (m *FormModel) prevField() {
	m.fields[m.focusedField].input.Blur()
	for i := 0; i < len(m.fields); i++ {
		m.focusedField--
		if m.focusedField < 0 {
			m.focusedField = len(m.fields) - 1
		}
		if !m.fields[m.focusedField].locked {
			break
		}
	}
	m.fields[m.focusedField].input.Focus()
}

func (m *FormModel) value(i int) string {
	return strings.TrimSpace(m.fields[i].input.Value())
}

// record builds the record the form currently describes.
func (m *FormModel) record() (model.Record, error) {
	for _, f := range m.fields {
		if f.required && strings.TrimSpace(f.input.Value()) == "" {
			return nil, fmt.Errorf("%s is required", strings.ToLower(f.label))
		}
	}

	switch m.kind {
	case model.KindUser:
		role, err := parseRole(m.value(1))
		if err != nil {
			return nil, err
		}
		return model.User{Username: m.value(0), Role: role}, nil
	case model.KindConfig:
		return model.ConfigEntry{
			ConfigKey:         m.value(0),
			ConfigValue:       m.value(1),
			ConfigDescription: m.value(2),
			GmtModify:         m.now(),
		}, nil
	default:
		before, ok := m.before.(model.UploadedFile)
		if !ok {
			return nil, errors.New("files can only be edited")
		}
		md5 := strings.ToLower(m.value(1))
		if len(md5) != 32 {
			return nil, fmt.Errorf("md5 must be 32 hex digits, got %d", len(md5))
		}
		if _, err := strconv.ParseUint(md5[:16], 16, 64); err != nil {
			return nil, fmt.Errorf("md5 must be hex: %w", err)
		}
		if _, err := strconv.ParseUint(md5[16:], 16, 64); err != nil {
			return nil, fmt.Errorf("md5 must be hex: %w", err)
		}
		operator := m.operator
		if operator == "" {
			operator = before.Operator
		}
		return model.UploadedFile{
			ID:          before.ID,
			FileName:    m.value(0),
			FileMD5:     md5,
			GmtModify:   m.now(),
			Operator:    operator,
			Description: m.value(2),
		}, nil
	}
}

func (m *FormModel) save() tea.Cmd {
	rec, err := m.record()
	if err != nil {
		m.error = err.Error()
		return func() tea.Msg { return model.ErrorMsg{Err: err} }
	}
	ctx, database, kind, editing, before := m.ctx, m.db, m.kind, m.editing, m.before
	return func() tea.Msg {
		op := "update"
		if !editing {
			op = "insert"
			_, err := db.GetRecord(ctx, database, kind, rec.RecordID())
			switch {
			case err == nil:
				return model.ErrorMsg{Err: fmt.Errorf("%s %q already exists", singular(kind), rec.RecordID())}
			case !errors.Is(err, db.ErrNotFound):
				return model.ErrorMsg{Err: err}
			}
		}
		if err := db.PutRecord(ctx, database, rec); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to save %s: %w", singular(kind), err)}
		}
		return model.SavedMsg{Kind: kind, Operation: op, Before: before, After: rec}
	}
}

func parseRole(s string) (int, error) {
	switch strings.ToLower(s) {
	case "normal", "0":
		return model.RoleNormal, nil
	case "operator", "1":
		return model.RoleOperator, nil
	case "admin", "2":
		return model.RoleAdmin, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		input.View(),
	)

	return style.Render(field)
}
