// Package grid is the column model shared by every admin table: an ordered
// list of column descriptors that extract, sort, and render one field of a
// record. It performs no I/O.
package grid

import (
	"fmt"
	"slices"

	"kmadmin/internal/action"
	"kmadmin/internal/util"
)

// Tone is a semantic color hint for a rendered cell.
type Tone int

const (
	ToneNone Tone = iota
	ToneSuccess
	ToneFail
	ToneMuted
	ToneWarn
)

// LinkState describes a drill-down link. Href is empty when disabled.
type LinkState struct {
	Enabled bool
	Href    string
}

// Cell is the display value of one column for one record.
type Cell struct {
	Text    string
	Tooltip string
	Link    *LinkState
	Tags    []string
	Tone    Tone
	Actions []action.Action
}

// CellStyle is a static overflow policy applied to every cell of a column.
type CellStyle struct {
	// MaxWidth caps the cell in terminal cells. 0 = no cap.
	MaxWidth int
	Ellipsis bool
	NoWrap   bool
	// Pointer marks cells whose full value is available on focus.
	Pointer bool
}

// Apply truncates s according to the style.
func (s *CellStyle) Apply(text string) string {
	if s == nil || s.MaxWidth <= 0 {
		return text
	}
	if s.Ellipsis {
		return util.TruncateString(text, s.MaxWidth)
	}
	return util.ClipString(text, s.MaxWidth)
}

// Column describes how one table column extracts, sorts, and renders a
// field of T.
type Column[T any] struct {
	Title string
	Key   string
	Value func(T) any
	// Width is a layout hint such as "35%". The core does not interpret it.
	Width   string
	Compare Comparator[T]
	Render  func(raw any, rec T) Cell
	Style   *CellStyle
}

// Sortable reports whether the column has a comparator.
func (c Column[T]) Sortable() bool {
	return c.Compare != nil
}

// Raw returns the extracted value of rec, or nil without an accessor.
func (c Column[T]) Raw(rec T) any {
	if c.Value == nil {
		return nil
	}
	return c.Value(rec)
}

// Cell renders rec for this column.
func (c Column[T]) Cell(rec T) Cell {
	raw := c.Raw(rec)
	if c.Render != nil {
		return c.Render(raw, rec)
	}
	return Cell{Text: Text(raw)}
}

// Text is the default string form of a raw value.
func Text(raw any) string {
	if raw == nil {
		return ""
	}
	return fmt.Sprint(raw)
}

// Header is the type-erased description of a column.
type Header struct {
	Title    string `json:"title" yaml:"title"`
	Key      string `json:"key" yaml:"key"`
	Width    string `json:"width,omitempty" yaml:"width,omitempty"`
	Sortable bool   `json:"sortable" yaml:"sortable"`
	MaxWidth int    `json:"maxWidth,omitempty" yaml:"max_width,omitempty"`
}

// Headers describes cols without their record type.
func Headers[T any](cols []Column[T]) []Header {
	out := make([]Header, 0, len(cols))
	for _, c := range cols {
		h := Header{Title: c.Title, Key: c.Key, Width: c.Width, Sortable: c.Sortable()}
		if c.Style != nil {
			h.MaxWidth = c.Style.MaxWidth
		}
		out = append(out, h)
	}
	return out
}

// Validate checks that every column has a key and that keys are unique.
func Validate[T any](cols []Column[T]) error {
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if c.Key == "" {
			return fmt.Errorf("column %d (%q) has no key", i, c.Title)
		}
		if seen[c.Key] {
			return fmt.Errorf("duplicate column key %q", c.Key)
		}
		seen[c.Key] = true
	}
	return nil
}

func mustColumns[T any](cols []Column[T]) []Column[T] {
	if err := Validate(cols); err != nil {
		panic("grid: " + err.Error())
	}
	return cols
}

// Lookup finds the column with the given key.
func Lookup[T any](cols []Column[T], key string) (Column[T], bool) {
	i := IndexOf(cols, key)
	if i < 0 {
		return Column[T]{}, false
	}
	return cols[i], true
}

// IndexOf returns the position of key in cols, or -1.
func IndexOf[T any](cols []Column[T], key string) int {
	return slices.IndexFunc(cols, func(c Column[T]) bool { return c.Key == key })
}

// RowCells renders every column of rec.
func RowCells[T any](cols []Column[T], rec T) []Cell {
	cells := make([]Cell, len(cols))
	for i, c := range cols {
		cells[i] = c.Cell(rec)
	}
	return cells
}

// Sort stably sorts rows by the column with the given key. It reports
// false and leaves rows untouched when the key is unknown or the column
// has no comparator. reverse flips the column's declared direction.
func Sort[T any](rows []T, cols []Column[T], key string, reverse bool) bool {
	col, ok := Lookup(cols, key)
	if !ok || col.Compare == nil {
		return false
	}
	slices.SortStableFunc(rows, func(a, b T) int {
		r := col.Compare(a, b)
		if reverse {
			return -r
		}
		return r
	})
	return true
}
