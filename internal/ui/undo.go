package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"kmadmin/internal/action"
	"kmadmin/internal/db"
	"kmadmin/internal/model"
)

// errStepDeclined is returned by an undo or redo step whose delete was
// declined at the confirmation prompt.
var errStepDeclined = errors.New("delete declined")

type undoAction struct {
	label string
	kind  model.Kind
	undo  func(ctx context.Context) error
	redo  func(ctx context.Context) error
}

type undoAppliedMsg struct {
	err       error
	action    undoAction
	direction string // undo, redo
}

func (m *Model) pushUndoAction(action undoAction) {
	m.undoStack = append(m.undoStack, action)
	m.redoStack = nil
}

func (m *Model) undoCmd() tea.Cmd {
	if len(m.undoStack) == 0 {
		return nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	ctx := m.ctx
	return func() tea.Msg {
		err := action.undo(ctx)
		return undoAppliedMsg{err: err, action: action, direction: "undo"}
	}
}

func (m *Model) redoCmd() tea.Cmd {
	if len(m.redoStack) == 0 {
		return nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	ctx := m.ctx
	return func() tea.Msg {
		err := action.redo(ctx)
		return undoAppliedMsg{err: err, action: action, direction: "redo"}
	}
}

func (m *Model) buildSaveAction(msg model.SavedMsg) *undoAction {
	database := m.db
	after := msg.After
	switch msg.Operation {
	case "insert":
		return &undoAction{
			label: fmt.Sprintf("%s %q added", singular(msg.Kind), after.RecordID()),
			kind:  msg.Kind,
			undo:  m.confirmedDelete(msg.Kind, after.RecordID()),
			redo: func(ctx context.Context) error {
				return db.PutRecord(ctx, database, after)
			},
		}
	case "update":
		if msg.Before == nil {
			return nil
		}
		before := msg.Before
		return &undoAction{
			label: fmt.Sprintf("%s %q updated", singular(msg.Kind), after.RecordID()),
			kind:  msg.Kind,
			undo: func(ctx context.Context) error {
				return db.PutRecord(ctx, database, before)
			},
			redo: func(ctx context.Context) error {
				return db.PutRecord(ctx, database, after)
			},
		}
	default:
		return nil
	}
}

func (m *Model) buildDeleteAction(msg model.DeletedMsg) undoAction {
	database := m.db
	deleted := msg.Deleted
	return undoAction{
		label: fmt.Sprintf("%s %q deleted", singular(msg.Kind), msg.ID),
		kind:  msg.Kind,
		undo: func(ctx context.Context) error {
			return db.PutRecord(ctx, database, deleted)
		},
		redo: m.confirmedDelete(msg.Kind, msg.ID),
	}
}

// confirmedDelete returns a step that deletes one record after the same
// confirmation a row delete asks for.
func (m *Model) confirmedDelete(kind model.Kind, id string) func(ctx context.Context) error {
	database := m.db
	var c action.Confirmer
	if m.confirmer != nil {
		c = m.confirmer
	}
	act := action.Action{Verb: action.Delete, Kind: kind, ID: id}
	return func(ctx context.Context) error {
		outcome, err := action.ConfirmDelete(ctx, c, deletePrompt(act), id, func(ctx context.Context, id string) error {
			return db.DeleteRecord(ctx, database, kind, id)
		})
		if err != nil {
			return err
		}
		if outcome == action.OutcomeDeclined {
			return errStepDeclined
		}
		return nil
	}
}

func (m *Model) applyUndoResult(msg undoAppliedMsg) tea.Cmd {
	if errors.Is(msg.err, errStepDeclined) {
		if msg.direction == "undo" {
			m.undoStack = append(m.undoStack, msg.action)
			m.info = "Undo cancelled"
		} else {
			m.redoStack = append(m.redoStack, msg.action)
			m.info = "Redo cancelled"
		}
		return nil
	}
	if msg.err != nil {
		m.error = fmt.Sprintf("%s failed: %v", msg.direction, msg.err)
		m.log.Error(msg.err, "undo stack operation failed", "direction", msg.direction, "action", msg.action.label)
		return nil
	}

	if msg.direction == "undo" {
		m.redoStack = append(m.redoStack, msg.action)
		m.info = "Undid: " + msg.action.label
	} else {
		m.undoStack = append(m.undoStack, msg.action)
		m.info = "Redid: " + msg.action.label
	}
	m.error = ""
	return loadKindCmd(m.ctx, m.db, msg.action.kind)
}
