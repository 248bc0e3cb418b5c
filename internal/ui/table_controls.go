package ui

import (
	"kmadmin/internal/action"
	"kmadmin/internal/grid"
)

type tableController interface {
	NextColumn()
	PrevColumn()
	JumpToColumn(number int) bool
	SortActiveColumn(reverse bool) bool
	HideActiveColumn() bool
	ShowAllColumns()
	FilterBySelectedValue() bool
	ClearFilter() bool
	TableMeta() string
	ActiveColumnTitle() string

	MoveDown()
	MoveUp()
	JumpToTop()
	JumpToBottom()
	HalfPageDown(pageSize int)
	HalfPageUp(pageSize int)

	SelectedCell() (grid.Cell, bool)
	LinkCell() (grid.Cell, bool)
	RowActions() []action.Action
	Prefs() TablePrefs
}
