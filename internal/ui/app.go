package ui

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"

	"kmadmin/internal/action"
	"kmadmin/internal/grid"
	"kmadmin/internal/logger"
	"kmadmin/internal/model"
)

// Options configures the console.
type Options struct {
	Grid      grid.Options
	Operator  string
	PrefsPath string
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	db   *sql.DB
	opts Options
	log  *logr.Logger

	screen model.Screen
	mode   model.Mode
	gState GState

	width  int
	height int

	error       string
	info        string
	showingHelp bool
	columnJump  bool

	// Screen models
	users         *tableModel[model.User]
	files         *tableModel[model.UploadedFile]
	configs       *tableModel[model.ConfigEntry]
	clusters      *tableModel[model.ClusterSummary]
	clusterDetail *ClusterDetailModel
	fileDetail    *FileDetailModel
	form          *FormModel
	formReturn    model.Screen

	confirmer      *promptConfirmer
	pendingConfirm *confirmRequest
	deleting       bool
	navigator      Navigator

	keys      KeyMap
	prefs     UIPreferences
	undoStack []undoAction
	redoStack []undoAction
}

var topLevelScreens = []struct {
	name   string
	screen model.Screen
	kind   model.Kind
}{
	{"Users", model.ScreenUsers, model.KindUser},
	{"Files", model.ScreenFiles, model.KindFile},
	{"Configs", model.ScreenConfigs, model.KindConfig},
	{"Clusters", model.ScreenClusters, model.KindCluster},
}

// New creates a new root model. ctx bounds every store call and releases
// pending confirmations when it is cancelled.
func New(ctx context.Context, database *sql.DB, opts Options) Model {
	return Model{
		ctx:       ctx,
		db:        database,
		opts:      opts,
		log:       logger.FromContext(ctx),
		screen:    model.ScreenUsers,
		mode:      model.ModeNav,
		gState:    GStateIdle,
		confirmer: newPromptConfirmer(),
		navigator: NewRouter(ctx, database, opts.Grid.BasePath),
		keys:      DefaultKeyMap(),
		prefs:     loadUIPreferences(opts.PrefsPath),
	}
}

// Init loads every top-level table and starts listening for confirm
// requests.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadUsersCmd(m.ctx, m.db),
		loadFilesCmd(m.ctx, m.db),
		loadConfigsCmd(m.ctx, m.db),
		loadClustersCmd(m.ctx, m.db),
		m.confirmer.waitForConfirmCmd(m.ctx),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case confirmRequestMsg:
		req := msg.req
		m.pendingConfirm = &req
		m.mode = model.ModeConfirm
		m.showingHelp = false
		return m, m.confirmer.waitForConfirmCmd(m.ctx)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.pendingConfirm != nil {
				m.pendingConfirm.answer(false)
				m.pendingConfirm = nil
			}
			return m, tea.Quit
		}

		if m.mode == model.ModeConfirm {
			return m.handleConfirmMode(msg)
		}

		if m.mode == model.ModeNav && m.columnJump {
			if key.Matches(msg, m.keys.Back) {
				m.columnJump = false
				m.info = ""
				return m, nil
			}
			if n, err := strconv.Atoi(msg.String()); err == nil {
				table := m.currentTable()
				if table != nil && table.JumpToColumn(n) {
					m.columnJump = false
					m.info = fmt.Sprintf("Jumped to column %d", n)
					m.persistCurrentTablePrefs()
					return m, nil
				}
				m.info = fmt.Sprintf("Column %d unavailable", n)
				return m, nil
			}
		}

		if key.Matches(msg, m.keys.Help) && m.mode == model.ModeNav {
			m.showingHelp = !m.showingHelp
			return m, nil
		}

		if m.showingHelp {
			if msg.String() == "esc" || msg.String() == "?" {
				m.showingHelp = false
			}
			return m, nil
		}

		if m.mode == model.ModeNav {
			return m.handleNavMode(msg)
		}
		return m.handleInsertMode(msg)

	case model.ErrorMsg:
		m.error = msg.Err.Error()
		m.deleting = false
		m.log.Error(msg.Err, "console operation failed")
		return m, nil

	case model.InfoMsg:
		m.info = msg.Text
		return m, nil

	case model.UsersLoadedMsg:
		if m.users == nil {
			m.users = newTableModel("users", "Press  a  to add one.", grid.Users(m.opts.Grid), msg.Users)
			m.users.ApplyPrefs(m.prefs.Users)
		} else {
			m.users.SetRows(msg.Users)
		}
		return m, nil

	case model.FilesLoadedMsg:
		if m.files == nil {
			m.files = newTableModel("files", "Load some with  kmadmin seed <file>.", grid.Files(m.opts.Grid), msg.Files)
			m.files.ApplyPrefs(m.prefs.Files)
		} else {
			m.files.SetRows(msg.Files)
		}
		return m, nil

	case model.ConfigsLoadedMsg:
		if m.configs == nil {
			m.configs = newTableModel("configs", "Press  a  to add one.", grid.Configs(m.opts.Grid), msg.Configs)
			m.configs.ApplyPrefs(m.prefs.Configs)
		} else {
			m.configs.SetRows(msg.Configs)
		}
		return m, nil

	case model.ClustersLoadedMsg:
		if m.clusters == nil {
			m.clusters = newTableModel("clusters", "Load some with  kmadmin seed <file>.", grid.Clusters(m.opts.Grid), msg.Clusters)
			m.clusters.ApplyPrefs(m.prefs.Clusters)
		} else {
			m.clusters.SetRows(msg.Clusters)
		}
		return m, nil

	case model.ClusterDetailLoadedMsg:
		m.clusterDetail = NewClusterDetailModel(msg.Cluster, msg.Partitions, msg.Tab, m.opts.Grid)
		m.clusterDetail.partitions.ApplyPrefs(m.prefs.Partitions)
		m.screen = model.ScreenClusterDetail
		m.error = ""
		return m, nil

	case model.FileDetailLoadedMsg:
		m.fileDetail = NewFileDetailModel(msg.File, m.opts.Grid)
		m.screen = model.ScreenFileDetail
		m.error = ""
		return m, nil

	case model.EditRequestedMsg:
		if err := m.openEditSurface(msg.Record); err != nil {
			m.error = err.Error()
		}
		return m, nil

	case model.SavedMsg:
		if action := m.buildSaveAction(msg); action != nil {
			m.pushUndoAction(*action)
		}
		m.mode = model.ModeNav
		m.screen = m.formReturn
		m.form = nil
		m.error = ""
		m.info = strings.ToUpper(singular(msg.Kind)[:1]) + singular(msg.Kind)[1:] + " saved"
		if f, ok := msg.After.(model.UploadedFile); ok && m.screen == model.ScreenFileDetail {
			m.fileDetail = NewFileDetailModel(f, m.opts.Grid)
		}
		return m, loadKindCmd(m.ctx, m.db, msg.Kind)

	case model.FormCancelledMsg:
		m.mode = model.ModeNav
		m.screen = m.formReturn
		m.form = nil
		return m, nil

	case model.DeletedMsg:
		m.deleting = false
		m.pushUndoAction(m.buildDeleteAction(msg))
		if m.screen == model.ScreenFileDetail {
			m.screen = model.ScreenFiles
			m.fileDetail = nil
		}
		m.error = ""
		m.info = fmt.Sprintf("Deleted %s %q (u to undo)", singular(msg.Kind), msg.ID)
		return m, loadKindCmd(m.ctx, m.db, msg.Kind)

	case model.DeleteCancelledMsg:
		m.deleting = false
		m.info = "Delete cancelled"
		return m, nil

	case undoAppliedMsg:
		return m, m.applyUndoResult(msg)

	default:
		if m.mode == model.ModeInsert {
			return m.handleInsertMode(msg)
		}
	}

	return m, nil
}

func (m Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pendingConfirm == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.pendingConfirm.answer(true)
		m.info = "Deleting..."
	case key.Matches(msg, m.keys.Decline):
		m.pendingConfirm.answer(false)
	default:
		return m, nil
	}
	m.pendingConfirm = nil
	m.mode = model.ModeNav
	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	var content string
	var breadcrumbParts []string
	showTabs := m.isTopLevel()

	var banners []string
	if m.pendingConfirm != nil {
		banners = append(banners, renderConfirmBanner(m.pendingConfirm.prompt, "", m.width))
	}
	if m.error != "" {
		banners = append(banners, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		banners = append(banners, SuccessStyle.Width(m.width).Render(m.info))
	}

	contentHeight := m.height - 4
	if showTabs {
		contentHeight -= 2
	}
	for _, b := range banners {
		contentHeight -= lipgloss.Height(b)
	}
	contentHeight = max(3, contentHeight)

	switch m.screen {
	case model.ScreenUsers:
		breadcrumbParts = []string{"Users"}
		if m.users != nil {
			content = m.users.View(m.width, contentHeight)
		}
	case model.ScreenFiles:
		breadcrumbParts = []string{"Files"}
		if m.files != nil {
			content = m.files.View(m.width, contentHeight)
		}
	case model.ScreenConfigs:
		breadcrumbParts = []string{"Configs"}
		if m.configs != nil {
			content = m.configs.View(m.width, contentHeight)
		}
	case model.ScreenClusters:
		breadcrumbParts = []string{"Clusters"}
		if m.clusters != nil {
			content = m.clusters.View(m.width, contentHeight)
		}
	case model.ScreenClusterDetail:
		breadcrumbParts = []string{"Clusters", "Detail"}
		if m.clusterDetail != nil {
			breadcrumbParts = []string{"Clusters", m.clusterDetail.cluster.ClusterName}
			content = m.clusterDetail.View(m.width, contentHeight)
		}
	case model.ScreenFileDetail:
		breadcrumbParts = []string{"Files", "Detail"}
		if m.fileDetail != nil {
			breadcrumbParts = []string{"Files", m.fileDetail.file.FileName}
			content = m.fileDetail.View(m.width, contentHeight)
		}
	case model.ScreenForm:
		if m.form != nil {
			breadcrumbParts = []string{m.form.Title()}
			content = m.form.View(m.width, contentHeight)
		}
	}

	header := renderHeader(breadcrumbParts, m.width)
	footer := RenderHelp(m.screen, m.mode, m.width)

	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Render(content)

	parts := []string{header}
	if showTabs {
		parts = append(parts, renderTabs(m.screen, m.width))
	}
	parts = append(parts, banners...)
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) isTopLevel() bool {
	for _, t := range topLevelScreens {
		if t.screen == m.screen {
			return true
		}
	}
	return false
}

func renderTabs(screen model.Screen, width int) string {
	var tabStrings []string
	for _, tab := range topLevelScreens {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if screen == tab.screen {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		tabStrings = append(tabStrings, tabStyle.Render(tab.name))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, width int) string {
	title := HeaderStyle.Render("kmadmin")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	right := BreadcrumbStyle.Render(time.Now().Format("Mon 02 Jan 15:04")) + "  "

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if t := m.currentTable(); t != nil {
		switch {
		case key.Matches(msg, m.keys.NextColumn):
			t.NextColumn()
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.PrevColumn):
			t.PrevColumn()
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.ColumnJump):
			m.columnJump = true
			m.info = "Jump to column: press 1-9 (esc to cancel)"
			return m, nil
		case key.Matches(msg, m.keys.SortAsc), key.Matches(msg, m.keys.SortDesc):
			reverse := key.Matches(msg, m.keys.SortDesc)
			if !t.SortActiveColumn(reverse) {
				m.info = fmt.Sprintf("%s is not sortable", t.ActiveColumnTitle())
				return m, nil
			}
			m.info = "Sorted by " + t.ActiveColumnTitle()
			if reverse {
				m.info += " (reversed)"
			}
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.HideColumn):
			if t.HideActiveColumn() {
				m.info = "Column hidden"
				m.persistCurrentTablePrefs()
			} else {
				m.info = "Cannot hide last visible column"
			}
			return m, nil
		case key.Matches(msg, m.keys.ShowColumns):
			t.ShowAllColumns()
			m.info = "All columns shown"
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.FilterValue):
			if t.FilterBySelectedValue() {
				m.info = "Filter applied from selected value"
			} else {
				m.info = "No filterable value in selected cell"
			}
			return m, nil
		case key.Matches(msg, m.keys.ClearFilter):
			if t.ClearFilter() {
				m.info = "Filter cleared"
			}
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Undo):
		if len(m.undoStack) == 0 {
			m.info = "Nothing to undo"
			return m, nil
		}
		return m, m.undoCmd()
	case key.Matches(msg, m.keys.Redo):
		if len(m.redoStack) == 0 {
			m.info = "Nothing to redo"
			return m, nil
		}
		return m, m.redoCmd()
	}

	if key.Matches(msg, m.keys.Top) {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return m, nil
		}
		m.gState = GStateIdle
		if t := m.currentTable(); t != nil {
			t.JumpToTop()
		}
		return m, nil
	}
	m.gState = GStateIdle

	switch m.screen {
	case model.ScreenClusterDetail:
		return m.handleClusterDetailNav(msg)
	case model.ScreenFileDetail:
		return m.handleFileDetailNav(msg)
	default:
		return m.handleTableNav(msg)
	}
}

func (m *Model) currentTable() tableController {
	switch m.screen {
	case model.ScreenUsers:
		if m.users != nil {
			return m.users
		}
	case model.ScreenFiles:
		if m.files != nil {
			return m.files
		}
	case model.ScreenConfigs:
		if m.configs != nil {
			return m.configs
		}
	case model.ScreenClusters:
		if m.clusters != nil {
			return m.clusters
		}
	case model.ScreenClusterDetail:
		if m.clusterDetail != nil {
			return m.clusterDetail.partitions
		}
	}
	return nil
}

func (m *Model) persistCurrentTablePrefs() {
	t := m.currentTable()
	if t == nil {
		return
	}
	switch m.screen {
	case model.ScreenUsers:
		m.prefs.Users = t.Prefs()
	case model.ScreenFiles:
		m.prefs.Files = t.Prefs()
	case model.ScreenConfigs:
		m.prefs.Configs = t.Prefs()
	case model.ScreenClusters:
		m.prefs.Clusters = t.Prefs()
	case model.ScreenClusterDetail:
		m.prefs.Partitions = t.Prefs()
	}
	if err := saveUIPreferences(m.opts.PrefsPath, m.prefs); err != nil {
		m.log.Error(err, "failed to save table preferences", "path", m.opts.PrefsPath)
	}
}

func (m Model) currentKind() model.Kind {
	for _, t := range topLevelScreens {
		if t.screen == m.screen {
			return t.kind
		}
	}
	return model.KindCluster
}

func (m Model) switchScreen(step int) Model {
	idx := 0
	for i, t := range topLevelScreens {
		if t.screen == m.screen {
			idx = i
		}
	}
	idx = (idx + step + len(topLevelScreens)) % len(topLevelScreens)
	m.screen = topLevelScreens[idx].screen
	m.columnJump = false
	return m
}

// handleTableNav handles the four top-level table screens.
func (m Model) handleTableNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.currentTable()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		return m.switchScreen(-1), nil
	case key.Matches(msg, m.keys.Right):
		return m.switchScreen(1), nil
	case key.Matches(msg, m.keys.Reload):
		m.info = "Reloading"
		return m, loadKindCmd(m.ctx, m.db, m.currentKind())
	case key.Matches(msg, m.keys.Add):
		kind := m.currentKind()
		if kind != model.KindUser && kind != model.KindConfig {
			m.info = fmt.Sprintf("%s cannot be added here", strings.ToUpper(kind.String()[:1])+kind.String()[1:])
			return m, nil
		}
		form, err := NewFormModel(m.ctx, m.db, kind, m.opts.Operator)
		if err != nil {
			m.error = err.Error()
			return m, nil
		}
		m.openForm(form)
		return m, nil
	}

	if t == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Edit):
		return m.dispatch(t.RowActions(), action.Modify)
	case key.Matches(msg, m.keys.Delete):
		return m.dispatch(t.RowActions(), action.Delete)
	case key.Matches(msg, m.keys.Select):
		return m.followLink(t)
	}
	return m.moveCursor(t, msg)
}

func (m Model) moveCursor(t tableController, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		t.MoveDown()
	case key.Matches(msg, m.keys.Up):
		t.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		t.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		t.HalfPageDown(m.height / 2)
	case key.Matches(msg, m.keys.HalfPageUp):
		t.HalfPageUp(m.height / 2)
	}
	return m, nil
}

// dispatch runs the row action with the given verb.
func (m Model) dispatch(actions []action.Action, verb action.Verb) (tea.Model, tea.Cmd) {
	act, ok := action.Find(actions, verb)
	if !ok {
		m.info = fmt.Sprintf("Rows here have no %s action", verb)
		return m, nil
	}
	m.log.V(1).Info("row action dispatched", "action", act.String())

	if !act.Destructive() {
		return m, editCmd(m.ctx, m.db, act)
	}
	if m.deleting {
		m.info = "A delete is already in progress"
		return m, nil
	}
	m.deleting = true
	m.error = ""
	return m, deleteCmd(m.ctx, m.db, m.confirmer, act)
}

func (m Model) followLink(t tableController) (tea.Model, tea.Cmd) {
	cell, ok := t.LinkCell()
	if !ok {
		return m, nil
	}
	if !cell.Link.Enabled {
		m.info = "cluster is not monitored"
		return m, nil
	}
	return m, m.navigator.NavigateTo(cell.Link.Href)
}

func (m *Model) openForm(form *FormModel) {
	m.formReturn = m.screen
	m.form = form
	m.mode = model.ModeInsert
	m.screen = model.ScreenForm
	m.error = ""
}

// openEditSurface opens the edit form loaded with rec.
func (m *Model) openEditSurface(rec model.Record) error {
	kind, ok := recordKind(rec)
	if !ok {
		return fmt.Errorf("cannot edit %T", rec)
	}
	form, err := NewFormModel(m.ctx, m.db, kind, m.opts.Operator)
	if err != nil {
		return err
	}
	var surface EditSurface = form
	if err := surface.Load(rec); err != nil {
		return err
	}
	m.openForm(form)
	return nil
}

func recordKind(rec model.Record) (model.Kind, bool) {
	switch rec.(type) {
	case model.User:
		return model.KindUser, true
	case model.UploadedFile:
		return model.KindFile, true
	case model.ConfigEntry:
		return model.KindConfig, true
	case model.ClusterSummary:
		return model.KindCluster, true
	case model.PartitionSummary:
		return model.KindPartition, true
	default:
		return 0, false
	}
}

func (m Model) handleClusterDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.clusterDetail == nil {
		m.screen = model.ScreenClusters
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = model.ScreenClusters
		m.clusterDetail = nil
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.clusterDetail.NextTab()
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.clusterDetail.PrevTab()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		c := m.clusterDetail.cluster
		return m, loadClusterDetailCmd(m.ctx, m.db, c.ClusterID, m.clusterDetail.Tab())
	}
	return m.moveCursor(m.clusterDetail.partitions, msg)
}

func (m Model) handleFileDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.fileDetail == nil {
		m.screen = model.ScreenFiles
		return m, nil
	}
	actions := action.Row(model.KindFile, m.fileDetail.file.RecordID())
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = model.ScreenFiles
		m.fileDetail = nil
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		return m.dispatch(actions, action.Modify)
	case key.Matches(msg, m.keys.Delete):
		return m.dispatch(actions, action.Delete)
	}
	return m, nil
}

// handleInsertMode passes input to the open form.
func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	newForm, cmd := m.form.Update(msg)
	m.form = &newForm
	return m, cmd
}
