package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kmadmin/internal/action"
	"kmadmin/internal/grid"
	"kmadmin/internal/util"
)

const (
	maxAutoColumnWidth = 40
	widthSampleRows    = 200
)

// tableModel is one sortable, filterable table screen over records of T.
// Columns come from the grid column model; the table owns only view
// state (cursor, active column, sort, hidden columns, filter).
type tableModel[T any] struct {
	noun      string
	emptyHint string

	allRows []T
	rows    []T
	cursor  int
	offset  int

	viewportHeight int

	columns      []grid.Column[T]
	hidden       []bool
	activeColumn int
	sortKey      string
	sortReverse  bool
	filterKey    string
	filterValue  string
}

func newTableModel[T any](noun, emptyHint string, columns []grid.Column[T], rows []T) *tableModel[T] {
	m := &tableModel[T]{
		noun:      noun,
		emptyHint: emptyHint,
		columns:   columns,
		hidden:    make([]bool, len(columns)),
	}
	m.SetRows(rows)
	return m
}

// SetRows replaces the data, keeping sort, filter and cursor.
func (m *tableModel[T]) SetRows(rows []T) {
	m.allRows = append([]T(nil), rows...)
	m.rebuild()
}

func (m *tableModel[T]) ApplyPrefs(prefs TablePrefs) {
	if prefs.SortKey != "" {
		if col, ok := grid.Lookup(m.columns, prefs.SortKey); ok && col.Sortable() {
			m.sortKey = prefs.SortKey
			m.sortReverse = prefs.SortReverse
		}
	}
	hidden := make(map[string]bool, len(prefs.HiddenColumns))
	for _, c := range prefs.HiddenColumns {
		hidden[c] = true
	}
	for i := range m.columns {
		m.hidden[i] = hidden[m.columns[i].Key]
	}
	if prefs.ActiveColumn != "" {
		if i := grid.IndexOf(m.columns, prefs.ActiveColumn); i >= 0 {
			m.activeColumn = i
		}
	}
	m.ensureVisibleActiveColumn()
	m.rebuild()
}

func (m *tableModel[T]) Prefs() TablePrefs {
	var hidden []string
	for i, c := range m.columns {
		if m.hidden[i] {
			hidden = append(hidden, c.Key)
		}
	}
	return TablePrefs{
		SortKey:       m.sortKey,
		SortReverse:   m.sortReverse,
		HiddenColumns: hidden,
		ActiveColumn:  m.columns[m.activeColumn].Key,
	}
}

func (m *tableModel[T]) rebuild() {
	rows := append([]T(nil), m.allRows...)

	if m.filterKey != "" && m.filterValue != "" {
		if col, ok := grid.Lookup(m.columns, m.filterKey); ok {
			filtered := make([]T, 0, len(rows))
			target := strings.TrimSpace(m.filterValue)
			for _, r := range rows {
				if strings.EqualFold(strings.TrimSpace(col.Cell(r).Text), target) {
					filtered = append(filtered, r)
				}
			}
			rows = filtered
		}
	}

	if m.sortKey != "" {
		grid.Sort(rows, m.columns, m.sortKey, m.sortReverse)
	}

	m.rows = rows
	m.clampCursor()
}

func (m *tableModel[T]) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

// Selected returns the record under the cursor.
func (m *tableModel[T]) Selected() (T, bool) {
	var zero T
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return zero, false
	}
	return m.rows[m.cursor], true
}

// SelectedCell renders the active column of the selected record.
func (m *tableModel[T]) SelectedCell() (grid.Cell, bool) {
	row, ok := m.Selected()
	if !ok {
		return grid.Cell{}, false
	}
	return m.columns[m.activeColumn].Cell(row), true
}

// LinkCell returns the selected cell when it carries a link, otherwise the
// first linked cell of the selected record.
func (m *tableModel[T]) LinkCell() (grid.Cell, bool) {
	row, ok := m.Selected()
	if !ok {
		return grid.Cell{}, false
	}
	if cell := m.columns[m.activeColumn].Cell(row); cell.Link != nil {
		return cell, true
	}
	for i, c := range m.columns {
		if m.hidden[i] {
			continue
		}
		if cell := c.Cell(row); cell.Link != nil {
			return cell, true
		}
	}
	return grid.Cell{}, false
}

// RowActions returns the actions carried by the selected record's cells.
func (m *tableModel[T]) RowActions() []action.Action {
	row, ok := m.Selected()
	if !ok {
		return nil
	}
	for _, c := range m.columns {
		if c.Render == nil {
			continue
		}
		if acts := c.Cell(row).Actions; len(acts) > 0 {
			return acts
		}
	}
	return nil
}

func (m *tableModel[T]) visibleColumnIndexes() []int {
	var idxs []int
	for i := range m.columns {
		if !m.hidden[i] {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (m *tableModel[T]) ensureVisibleActiveColumn() {
	if !m.hidden[m.activeColumn] {
		return
	}
	for i := range m.columns {
		if !m.hidden[i] {
			m.activeColumn = i
			return
		}
	}
	m.hidden[0] = false
	m.activeColumn = 0
}

func (m *tableModel[T]) NextColumn() {
	start := m.activeColumn
	for {
		m.activeColumn = (m.activeColumn + 1) % len(m.columns)
		if !m.hidden[m.activeColumn] || m.activeColumn == start {
			return
		}
	}
}

func (m *tableModel[T]) PrevColumn() {
	start := m.activeColumn
	for {
		m.activeColumn--
		if m.activeColumn < 0 {
			m.activeColumn = len(m.columns) - 1
		}
		if !m.hidden[m.activeColumn] || m.activeColumn == start {
			return
		}
	}
}

func (m *tableModel[T]) JumpToColumn(number int) bool {
	if number < 1 || number > len(m.columns) {
		return false
	}
	idx := number - 1
	if m.hidden[idx] {
		return false
	}
	m.activeColumn = idx
	return true
}

// SortActiveColumn sorts by the active column's comparator, reversed when
// asked. It reports false for columns without a comparator.
func (m *tableModel[T]) SortActiveColumn(reverse bool) bool {
	col := m.columns[m.activeColumn]
	if !col.Sortable() {
		return false
	}
	m.sortKey = col.Key
	m.sortReverse = reverse
	m.rebuild()
	return true
}

func (m *tableModel[T]) HideActiveColumn() bool {
	if len(m.visibleColumnIndexes()) <= 1 {
		return false
	}
	m.hidden[m.activeColumn] = true
	m.ensureVisibleActiveColumn()
	return true
}

func (m *tableModel[T]) ShowAllColumns() {
	for i := range m.hidden {
		m.hidden[i] = false
	}
}

func (m *tableModel[T]) FilterBySelectedValue() bool {
	cell, ok := m.SelectedCell()
	if !ok {
		return false
	}
	value := strings.TrimSpace(cell.Text)
	if value == "" {
		return false
	}
	m.filterKey = m.columns[m.activeColumn].Key
	m.filterValue = value
	m.rebuild()
	return true
}

func (m *tableModel[T]) ClearFilter() bool {
	if m.filterKey == "" {
		return false
	}
	m.filterKey = ""
	m.filterValue = ""
	m.rebuild()
	return true
}

func (m *tableModel[T]) ActiveColumnTitle() string {
	return m.columns[m.activeColumn].Title
}

func (m *tableModel[T]) TableMeta() string {
	parts := []string{fmt.Sprintf("col %s", formatHeaderLabel(m.ActiveColumnTitle()))}
	if col, ok := grid.Lookup(m.columns, m.sortKey); ok {
		order := "default"
		if m.sortReverse {
			order = "reversed"
		}
		parts = append(parts, fmt.Sprintf("sort %s %s", formatHeaderLabel(col.Title), order))
	}
	if col, ok := grid.Lookup(m.columns, m.filterKey); ok {
		parts = append(parts, fmt.Sprintf("filter %s=%q", formatHeaderLabel(col.Title), m.filterValue))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders the table.
func (m *tableModel[T]) View(width, height int) string {
	if len(m.rows) == 0 {
		emptyMsg := fmt.Sprintf("    No %s yet.", m.noun)
		if m.filterKey != "" {
			emptyMsg = fmt.Sprintf("    No %s match the filter. Press  N  to clear it.", m.noun)
		} else if m.emptyHint != "" {
			emptyMsg += "\n    " + m.emptyHint
		}
		return EmptyStateStyle.
			Width(width).
			Height(height).
			Render(emptyMsg)
	}

	visible := m.visibleColumnIndexes()
	if len(visible) == 0 {
		return EmptyStateStyle.Width(width).Height(height).Render("No visible columns. Press C to show all columns.")
	}

	widths := m.columnWidths(visible, width)
	headers := make([]string, 0, len(visible))
	for _, idx := range visible {
		col := m.columns[idx]
		label := formatHeaderLabel(col.Title)
		if idx == m.activeColumn {
			label = renderActiveHeaderLabel(label)
		}
		if m.sortKey == col.Key {
			if m.sortReverse {
				label += " ↕"
			} else {
				label += " ↓"
			}
		}
		headers = append(headers, label)
	}

	header := renderTableRow(headers, widths, TableHeaderStyle.Bold(true))
	divider := renderTableDivider(widths)

	visibleHeight := height - 3
	m.viewportHeight = visibleHeight
	var rows []string

	for i := m.offset; i < len(m.rows) && i < m.offset+visibleHeight; i++ {
		row := m.rows[i]
		selected := i == m.cursor
		style := NormalRowStyle
		if selected {
			style = SelectedRowStyle
		}

		cells := make([]string, 0, len(visible))
		for j, idx := range visible {
			col := m.columns[idx]
			cells = append(cells, renderCell(col.Cell(row), col.Style, widths[j]-2, selected))
		}
		rows = append(rows, renderTableRow(cells, widths, style))
	}

	filterInfo := ""
	if m.filterKey != "" {
		filterInfo = fmt.Sprintf("  ·  filtered: %d/%d", len(m.rows), len(m.allRows))
	}
	meta := m.TableMeta()
	if meta != "" {
		meta = "  ·  " + meta
	}
	rowPos := fmt.Sprintf("  ·  row %d/%d", m.cursor+1, len(m.rows))
	status := StatusBarStyle.Render(fmt.Sprintf("%d %s%s%s%s", len(m.rows), m.noun, rowPos, filterInfo, meta))
	if cell, ok := m.SelectedCell(); ok && cell.Tooltip != "" && cell.Tooltip != cell.Text {
		status = lipgloss.JoinVertical(lipgloss.Left,
			status,
			StatusBarStyle.Render(util.TruncateString(flatten(cell.Tooltip), max(10, width-4))),
		)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		divider,
		strings.Join(rows, "\n"),
	)
	statusHeight := lipgloss.Height(status)
	contentHeight := lipgloss.Height(content)
	spacerHeight := max(0, height-contentHeight-statusHeight)
	spacer := lipgloss.NewStyle().Height(spacerHeight).Render("")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		spacer,
		status,
	)
}

// columnWidths turns percentage hints into shares of the terminal width
// and sizes the other columns by content.
func (m *tableModel[T]) columnWidths(visible []int, total int) []int {
	widths := make([]int, len(visible))
	used := 0
	for i, idx := range visible {
		col := m.columns[idx]
		w := 0
		if p, ok := percentWidth(col.Width); ok {
			w = total * p / 100
		} else {
			w = m.contentWidth(col) + 2
		}
		w = max(w, lipgloss.Width(formatHeaderLabel(col.Title))+4)
		widths[i] = w
		used += w
	}
	if len(widths) > 0 {
		sepTotal := (len(widths) - 1) * tableSeparatorWidth()
		if extra := total - used - sepTotal - 2; extra > 0 {
			widths[len(widths)-1] += extra
		}
	}
	return widths
}

func (m *tableModel[T]) contentWidth(col grid.Column[T]) int {
	w := 0
	for i, r := range m.rows {
		if i >= widthSampleRows {
			break
		}
		text := col.Style.Apply(flatten(col.Cell(r).Text))
		w = max(w, lipgloss.Width(text))
	}
	return min(w, maxAutoColumnWidth)
}

func percentWidth(hint string) (int, bool) {
	if !strings.HasSuffix(hint, "%") {
		return 0, false
	}
	p, err := strconv.Atoi(strings.TrimSuffix(hint, "%"))
	if err != nil || p <= 0 || p > 100 {
		return 0, false
	}
	return p, true
}

// renderCell applies the column's overflow policy and the cell's tone.
func renderCell(cell grid.Cell, style *grid.CellStyle, width int, selected bool) string {
	text := flatten(cell.Text)
	if len(cell.Tags) > 0 {
		text = strings.Join(cell.Tags, " ")
	}
	text = style.Apply(text)
	text = util.TruncateString(text, max(1, width))
	if selected {
		return text
	}

	s := ToneStyle(cell.Tone)
	switch {
	case cell.Link != nil && cell.Link.Enabled:
		s = LinkStyle
	case len(cell.Actions) > 0:
		s = ActionStyle
	}
	return s.Render(text)
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MoveDown moves the cursor down.
func (m *tableModel[T]) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
		vh := m.viewportHeight
		if vh == 0 {
			vh = 10
		}
		if m.cursor >= m.offset+vh {
			m.offset++
		}
	}
}

// MoveUp moves the cursor up.
func (m *tableModel[T]) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		if m.cursor < m.offset {
			m.offset--
		}
	}
}

// JumpToTop jumps to the first item.
func (m *tableModel[T]) JumpToTop() {
	m.cursor = 0
	m.offset = 0
}

// JumpToBottom jumps to the last item.
func (m *tableModel[T]) JumpToBottom() {
	if len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
		vh := m.viewportHeight
		if vh == 0 {
			vh = 10
		}
		if m.cursor >= vh {
			m.offset = m.cursor - vh + 1
		}
	}
}

// HalfPageDown moves down half a page.
func (m *tableModel[T]) HalfPageDown(pageSize int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor += pageSize / 2
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	vh := m.viewportHeight
	if vh == 0 {
		vh = 10
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

// HalfPageUp moves up half a page.
func (m *tableModel[T]) HalfPageUp(pageSize int) {
	m.cursor -= pageSize / 2
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).MaxWidth(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func renderTableDivider(widths []int) string {
	total := 0
	for _, w := range widths {
		total += w
	}
	total += max(0, len(widths)-1) * tableSeparatorWidth()
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("─", total))
}

func tableSeparatorWidth() int {
	return 0
}

func formatHeaderLabel(label string) string {
	return strings.ToUpper(label)
}

func renderActiveHeaderLabel(label string) string {
	return lipgloss.NewStyle().Underline(true).Render(label)
}
