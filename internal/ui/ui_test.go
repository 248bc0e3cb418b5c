package ui

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmadmin/internal/action"
	"kmadmin/internal/db"
	"kmadmin/internal/grid"
	"kmadmin/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "ui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestPromptConfirmerAnswers(t *testing.T) {
	for _, answer := range []bool{true, false} {
		ctx := context.Background()
		c := newPromptConfirmer()

		result := make(chan bool, 1)
		go func() {
			ok, err := c.Confirm(ctx, "delete?")
			assert.NoError(t, err)
			result <- ok
		}()

		msg := c.waitForConfirmCmd(ctx)()
		req, ok := msg.(confirmRequestMsg)
		require.True(t, ok)
		assert.Equal(t, "delete?", req.req.prompt)

		req.req.answer(answer)
		assert.Equal(t, answer, <-result)
	}
}

func TestPromptConfirmerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := newPromptConfirmer().Confirm(ctx, "delete?")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Nil(t, newPromptConfirmer().waitForConfirmCmd(ctx)())
}

func TestRouterResolve(t *testing.T) {
	r := NewRouter(context.Background(), nil, "/kafka/")

	tests := []struct {
		name string
		href string
		want Route
	}{
		{"cluster tab", "/kafka/admin/cluster-detail?clusterId=7#3", Route{Screen: model.ScreenClusterDetail, ID: 7, Tab: grid.TabBrokers}},
		{"cluster default tab", "/kafka/admin/cluster-detail?clusterId=7", Route{Screen: model.ScreenClusterDetail, ID: 7, Tab: grid.TabOverview}},
		{"file", "/kafka/info?fileId=12", Route{Screen: model.ScreenFileDetail, ID: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.href)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// Every href the column model builds must resolve.
	got, err := r.Resolve(grid.ClusterHref("/kafka", 3, grid.TabController))
	require.NoError(t, err)
	assert.Equal(t, Route{Screen: model.ScreenClusterDetail, ID: 3, Tab: grid.TabController}, got)
}

func TestRouterRejects(t *testing.T) {
	r := NewRouter(context.Background(), nil, "/kafka")

	for _, href := range []string{
		"/other/info?fileId=1",
		"/kafkaesque/info?fileId=1",
		"/kafka/unknown",
	} {
		_, err := r.Resolve(href)
		assert.ErrorIs(t, err, ErrUnknownRoute, href)
	}

	_, err := r.Resolve("/kafka/info")
	assert.ErrorContains(t, err, "missing fileId")
	_, err = r.Resolve("/kafka/admin/cluster-detail?clusterId=x")
	assert.ErrorContains(t, err, "invalid clusterId")
	_, err = r.Resolve("/kafka/admin/cluster-detail?clusterId=1#topics")
	assert.ErrorContains(t, err, "invalid tab")
}

func TestRouterEmptyBasePath(t *testing.T) {
	got, err := NewRouter(context.Background(), nil, "").Resolve("/info?fileId=5")
	require.NoError(t, err)
	assert.Equal(t, Route{Screen: model.ScreenFileDetail, ID: 5}, got)
}

func TestUIPreferencesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", PrefsFileName)
	assert.Equal(t, UIPreferences{}, loadUIPreferences(path))

	prefs := UIPreferences{
		Clusters: TablePrefs{SortKey: "topicNum", SortReverse: true, ActiveColumn: "topicNum"},
		Users:    TablePrefs{HiddenColumns: []string{"operation"}},
	}
	require.NoError(t, saveUIPreferences(path, prefs))
	assert.Equal(t, prefs, loadUIPreferences(path))

	assert.NoError(t, saveUIPreferences("", prefs))
	assert.Equal(t, UIPreferences{}, loadUIPreferences(""))
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]int{
		"normal": model.RoleNormal, "0": model.RoleNormal,
		"Operator": model.RoleOperator, "1": model.RoleOperator,
		"ADMIN": model.RoleAdmin, "2": model.RoleAdmin,
	} {
		got, err := parseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseRole("root")
	assert.Error(t, err)
}

func TestFormRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("user requires fields", func(t *testing.T) {
		f, err := NewFormModel(ctx, nil, model.KindUser, "")
		require.NoError(t, err)
		_, err = f.record()
		assert.ErrorContains(t, err, "username is required")

		f.fields[0].input.SetValue("carol")
		f.fields[1].input.SetValue("admin")
		rec, err := f.record()
		require.NoError(t, err)
		assert.Equal(t, model.User{Username: "carol", Role: model.RoleAdmin}, rec)
	})

	t.Run("config stamps modify time", func(t *testing.T) {
		f, err := NewFormModel(ctx, nil, model.KindConfig, "")
		require.NoError(t, err)
		f.now = func() int64 { return 42 }
		f.fields[0].input.SetValue("retention.ms")
		f.fields[1].input.SetValue(`{"days":7}`)
		rec, err := f.record()
		require.NoError(t, err)
		assert.Equal(t, model.ConfigEntry{ConfigKey: "retention.ms", ConfigValue: `{"days":7}`, GmtModify: 42}, rec)
	})

	t.Run("file is edit only", func(t *testing.T) {
		f, err := NewFormModel(ctx, nil, model.KindFile, "ops")
		require.NoError(t, err)
		f.fields[0].input.SetValue("server.properties")
		f.fields[1].input.SetValue("d41d8cd98f00b204e9800998ecf8427e")
		_, err = f.record()
		assert.ErrorContains(t, err, "can only be edited")
	})

	t.Run("file md5 validated", func(t *testing.T) {
		f, err := NewFormModel(ctx, nil, model.KindFile, "")
		require.NoError(t, err)
		f.now = func() int64 { return 99 }
		require.NoError(t, f.Load(model.UploadedFile{ID: 3, FileName: "a.conf", FileMD5: "D41D8CD98F00B204E9800998ECF8427E", Operator: "bob"}))

		f.fields[1].input.SetValue("xyz")
		_, err = f.record()
		assert.ErrorContains(t, err, "32 hex digits")

		f.fields[1].input.SetValue("g41d8cd98f00b204e9800998ecf8427e")
		_, err = f.record()
		assert.ErrorContains(t, err, "must be hex")

		f.fields[1].input.SetValue("D41D8CD98F00B204E9800998ECF8427E")
		rec, err := f.record()
		require.NoError(t, err)
		assert.Equal(t, model.UploadedFile{
			ID: 3, FileName: "a.conf", FileMD5: "d41d8cd98f00b204e9800998ecf8427e", GmtModify: 99, Operator: "bob",
		}, rec)
	})

	_, err := NewFormModel(ctx, nil, model.KindCluster, "")
	assert.Error(t, err)
}

func TestFormLoadLocksKey(t *testing.T) {
	f, err := NewFormModel(context.Background(), nil, model.KindUser, "")
	require.NoError(t, err)
	require.NoError(t, f.Load(model.User{Username: "dave", Role: model.RoleOperator}))

	assert.Equal(t, "Edit user", f.Title())
	assert.True(t, f.fields[0].locked)
	assert.Equal(t, 1, f.focusedField)
	assert.Equal(t, "operator", f.value(1))

	f.nextField()
	assert.Equal(t, 1, f.focusedField, "locked key field is skipped")

	assert.Error(t, f.Load(model.ConfigEntry{ConfigKey: "k"}))
}

func TestDeleteCmdWaitsForConfirmation(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	require.NoError(t, db.UpsertUser(ctx, database, model.User{Username: "erin", Role: model.RoleAdmin}))

	act := action.Action{Verb: action.Delete, Kind: model.KindUser, ID: "erin"}

	run := func(answer bool) tea.Msg {
		c := newPromptConfirmer()
		done := make(chan tea.Msg, 1)
		go func() { done <- deleteCmd(ctx, database, c, act)() }()

		req := c.waitForConfirmCmd(ctx)().(confirmRequestMsg)
		assert.Contains(t, req.req.prompt, action.DefaultPrompt)
		assert.Contains(t, req.req.prompt, `"erin"`)

		_, err := db.GetUser(ctx, database, "erin")
		require.NoError(t, err, "nothing is deleted before the answer")

		req.req.answer(answer)
		return <-done
	}

	assert.Equal(t, model.DeleteCancelledMsg{}, run(false))
	_, err := db.GetUser(ctx, database, "erin")
	require.NoError(t, err)

	assert.Equal(t, model.DeletedMsg{
		Kind:    model.KindUser,
		ID:      "erin",
		Deleted: model.User{Username: "erin", Role: model.RoleAdmin},
	}, run(true))
	_, err = db.GetUser(ctx, database, "erin")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestDeleteCmdMissingRecord(t *testing.T) {
	database := openTestDB(t)
	act := action.Action{Verb: action.Delete, Kind: model.KindConfig, ID: "nope"}

	msg := deleteCmd(context.Background(), database, action.Always(true), act)()
	errMsg, ok := msg.(model.ErrorMsg)
	require.True(t, ok)
	assert.ErrorIs(t, errMsg.Err, db.ErrNotFound)
}

// answerNext answers the next confirmation posted to c.
func answerNext(ctx context.Context, c *promptConfirmer, ok bool) {
	go func() {
		if msg, isReq := c.waitForConfirmCmd(ctx)().(confirmRequestMsg); isReq {
			msg.req.answer(ok)
		}
	}()
}

func TestUndoDelete(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	entry := model.ConfigEntry{ConfigKey: "k", ConfigValue: "v", GmtModify: 1}
	require.NoError(t, db.UpsertConfig(ctx, database, entry))
	require.NoError(t, db.DeleteConfig(ctx, database, "k"))

	m := New(ctx, database, Options{Grid: grid.DefaultOptions()})
	undo := m.buildDeleteAction(model.DeletedMsg{Kind: model.KindConfig, ID: "k", Deleted: entry})

	require.NoError(t, undo.undo(ctx))
	got, err := db.GetConfig(ctx, database, "k")
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	answerNext(ctx, m.confirmer, false)
	assert.ErrorIs(t, undo.redo(ctx), errStepDeclined)
	_, err = db.GetConfig(ctx, database, "k")
	require.NoError(t, err, "declined redo keeps the record")

	answerNext(ctx, m.confirmer, true)
	require.NoError(t, undo.redo(ctx))
	_, err = db.GetConfig(ctx, database, "k")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestUndoSave(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	m := New(ctx, database, Options{Grid: grid.DefaultOptions()})

	before := model.User{Username: "fay", Role: model.RoleNormal}
	after := model.User{Username: "fay", Role: model.RoleAdmin}
	require.NoError(t, db.UpsertUser(ctx, database, after))

	update := m.buildSaveAction(model.SavedMsg{Kind: model.KindUser, Operation: "update", Before: before, After: after})
	require.NotNil(t, update)
	require.NoError(t, update.undo(ctx))
	got, err := db.GetUser(ctx, database, "fay")
	require.NoError(t, err)
	assert.Equal(t, before, got)

	insert := m.buildSaveAction(model.SavedMsg{Kind: model.KindUser, Operation: "insert", After: after})
	require.NotNil(t, insert)

	answerNext(ctx, m.confirmer, false)
	assert.ErrorIs(t, insert.undo(ctx), errStepDeclined)
	_, err = db.GetUser(ctx, database, "fay")
	require.NoError(t, err, "declined undo keeps the record")

	answerNext(ctx, m.confirmer, true)
	require.NoError(t, insert.undo(ctx))
	_, err = db.GetUser(ctx, database, "fay")
	assert.ErrorIs(t, err, db.ErrNotFound)

	assert.Nil(t, m.buildSaveAction(model.SavedMsg{Kind: model.KindUser, Operation: "update", After: after}))
}

func TestUndoStepWithoutConfirmerRefusesDelete(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	require.NoError(t, db.UpsertUser(ctx, database, model.User{Username: "ivy"}))

	m := &Model{ctx: ctx, db: database}
	step := m.buildDeleteAction(model.DeletedMsg{Kind: model.KindUser, ID: "ivy", Deleted: model.User{Username: "ivy"}})
	assert.ErrorIs(t, step.redo(ctx), action.ErrNoConfirmer)

	_, err := db.GetUser(ctx, database, "ivy")
	assert.NoError(t, err)
}

func TestConsoleRedoDeleteAsksFirst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	database := openTestDB(t)
	hal := model.User{Username: "hal", Role: model.RoleOperator}
	require.NoError(t, db.UpsertUser(ctx, database, hal))

	m := New(ctx, database, Options{Grid: grid.DefaultOptions()})
	m.redoStack = []undoAction{m.buildDeleteAction(model.DeletedMsg{Kind: model.KindUser, ID: "hal", Deleted: hal})}

	redo := func(answer rune) {
		updated, run := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
		m = updated.(Model)
		require.NotNil(t, run)

		result := make(chan tea.Msg, 1)
		go func() { result <- run() }()

		updated, _ = m.Update(m.confirmer.waitForConfirmCmd(ctx)())
		m = updated.(Model)
		require.Equal(t, model.ModeConfirm, m.mode)
		require.NotNil(t, m.pendingConfirm)
		assert.Contains(t, m.pendingConfirm.prompt, `"hal"`)

		updated, _ = m.Update(keyPress(answer))
		m = updated.(Model)
		updated, _ = m.Update(<-result)
		m = updated.(Model)
	}

	redo('n')
	assert.Equal(t, "Redo cancelled", m.info)
	assert.Len(t, m.redoStack, 1)
	assert.Empty(t, m.undoStack)
	_, err := db.GetUser(ctx, database, "hal")
	require.NoError(t, err)

	redo('y')
	assert.Contains(t, m.info, "Redid")
	assert.Empty(t, m.redoStack)
	assert.Len(t, m.undoStack, 1)
	_, err = db.GetUser(ctx, database, "hal")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestConsoleDeleteFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	database := openTestDB(t)
	require.NoError(t, db.UpsertUser(ctx, database, model.User{Username: "gus", Role: model.RoleNormal}))

	m := New(ctx, database, Options{Grid: grid.DefaultOptions()})
	users, err := db.ListUsers(ctx, database)
	require.NoError(t, err)
	updated, _ := m.Update(model.UsersLoadedMsg{Users: users})
	m = updated.(Model)

	updated, deleteRun := m.Update(keyPress('d'))
	m = updated.(Model)
	require.NotNil(t, deleteRun)
	assert.True(t, m.deleting)

	result := make(chan tea.Msg, 1)
	go func() { result <- deleteRun() }()

	updated, _ = m.Update(m.confirmer.waitForConfirmCmd(ctx)())
	m = updated.(Model)
	assert.Equal(t, model.ModeConfirm, m.mode)
	require.NotNil(t, m.pendingConfirm)

	updated, _ = m.Update(keyPress('x'))
	m = updated.(Model)
	assert.Equal(t, model.ModeConfirm, m.mode, "other keys leave the question open")

	updated, _ = m.Update(keyPress('y'))
	m = updated.(Model)
	assert.Equal(t, model.ModeNav, m.mode)
	assert.Nil(t, m.pendingConfirm)

	deleted := <-result
	require.IsType(t, model.DeletedMsg{}, deleted)
	updated, reload := m.Update(deleted)
	m = updated.(Model)
	assert.False(t, m.deleting)
	assert.Contains(t, m.info, `Deleted user "gus"`)
	assert.Len(t, m.undoStack, 1)
	assert.NotNil(t, reload)

	_, err = db.GetUser(ctx, database, "gus")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestConsoleDisabledLink(t *testing.T) {
	m := New(context.Background(), nil, Options{Grid: grid.DefaultOptions()})
	updated, _ := m.Update(model.ClustersLoadedMsg{Clusters: []model.ClusterSummary{{ClusterID: 9, ClusterName: "off"}}})
	m = updated.(Model)
	m.screen = model.ScreenClusters

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "cluster is not monitored", m.info)
}

func TestConsoleUnsortableColumn(t *testing.T) {
	m := New(context.Background(), nil, Options{Grid: grid.DefaultOptions()})
	updated, _ := m.Update(model.UsersLoadedMsg{Users: []model.User{{Username: "a"}}})
	m = updated.(Model)

	updated, _ = m.Update(keyPress('s'))
	m = updated.(Model)
	assert.Equal(t, "Username is not sortable", m.info)
}
