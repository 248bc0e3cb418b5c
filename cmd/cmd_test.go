package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"kmadmin/internal/action"
	"kmadmin/internal/config"
	"kmadmin/internal/db"
	"kmadmin/internal/grid"
	"kmadmin/internal/model"
)

const fixture = `
users:
  - username: bob
    role: 1
  - username: alice
    role: 2
files:
  - id: 3
    file_name: server.properties
    file_md5: d41d8cd98f00b204e9800998ecf8427e
    gmt_modify: 1700000000000
    operator: ops
    description: broker defaults
  - id: 9
    file_name: log4j.properties
    file_md5: 0cc175b9c0f1b6a831c399e269772661
    gmt_modify: 1700000100000
    operator: ops
clusters:
  - cluster_id: 1
    cluster_name: alpha
    topic_num: 4
    broker_num: 3
    controller_id: 2
    status: 1
  - cluster_id: 2
    cluster_name: beta
    topic_num: 12
    broker_num: 1
    controller_id: -1
    status: 0
partitions:
  - cluster_id: 1
    topic_name: orders
    leader_partition_list: [0, 1]
    follower_partition_id_list: [2]
    not_under_replicated_partition_id_list: [0, 1, 2]
`

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "cmd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	_, err = db.Seed(ctx, database, strings.NewReader(fixture))
	require.NoError(t, err)
	return database
}

func testOptions() grid.Options {
	return grid.DefaultOptions()
}

func testConfig() *config.Config {
	return &config.Config{
		BasePath:    config.DefaultBasePath,
		DatePattern: config.DefaultDatePattern,
	}
}

func TestCommandsAreRegistered(t *testing.T) {
	root := NewRootCmd("test")
	for _, name := range []string{"list", "columns", "delete", "seed", "setup"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
		assert.NotEmpty(t, sub.Short, name)
	}
	for _, flag := range []string{"config", "db", "date-pattern", "base-path", "timezone", "pretty-json", "operator", "log-level", "log-file"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestListCommandFlags(t *testing.T) {
	cmd := newListCommand()
	assert.Equal(t, "list <kind>", cmd.Use)
	for _, flag := range []string{"sort", "reverse", "output", "cluster"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.NotNil(t, newDeleteCommand().Flags().Lookup("yes"))
}

func TestListJSONUsesColumnKeys(t *testing.T) {
	q := seededDB(t)
	var buf bytes.Buffer

	err := runList(context.Background(), &buf, q, model.KindFile, testOptions(), listOptions{output: "json", sortKey: "id"})
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.EqualValues(t, 3, rows[0]["id"])
	assert.EqualValues(t, 9, rows[1]["id"])
	assert.Equal(t, "server.properties", rows[0]["fileName"])
	assert.NotContains(t, rows[0], "operation")
}

func TestListReverseSort(t *testing.T) {
	q := seededDB(t)
	var buf bytes.Buffer

	err := runList(context.Background(), &buf, q, model.KindCluster, testOptions(), listOptions{output: "yaml", sortKey: "topicNum", reverse: true})
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	// topicNum sorts descending by default, reversed is ascending.
	assert.Equal(t, "alpha", rows[0]["clusterName"])
	assert.Equal(t, "beta", rows[1]["clusterName"])
}

func TestListTable(t *testing.T) {
	q := seededDB(t)
	var buf bytes.Buffer

	err := runList(context.Background(), &buf, q, model.KindUser, testOptions(), listOptions{output: "table", sortKey: "username"})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "(2 rows)")
	assert.NotContains(t, out, "modify delete")
}

func TestListPartitions(t *testing.T) {
	q := seededDB(t)
	var buf bytes.Buffer

	err := runList(context.Background(), &buf, q, model.KindPartition, testOptions(), listOptions{output: "json", clusterID: 1})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"topicName": "orders"`)
}

func TestListRejectsUnsortableColumn(t *testing.T) {
	q := seededDB(t)
	var buf bytes.Buffer

	err := runList(context.Background(), &buf, q, model.KindPartition, testOptions(), listOptions{output: "table", clusterID: 1, sortKey: "topicName"})
	assert.Error(t, err)

	err = runList(context.Background(), &buf, q, model.KindUser, testOptions(), listOptions{output: "table", sortKey: "nope"})
	assert.Error(t, err)
}

func TestEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderRows(&buf, grid.Users(testOptions()), nil, "table"))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestCheckOutput(t *testing.T) {
	assert.NoError(t, checkOutput("table"))
	assert.NoError(t, checkOutput("yaml"))
	assert.Error(t, checkOutput("csv"))
}

func TestRenderHeaders(t *testing.T) {
	headers, err := grid.Describe(model.KindConfig, testOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderHeaders(&buf, headers, "json"))
	var got []grid.Header
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, headers, got)
}

func TestRunDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("declined keeps the record", func(t *testing.T) {
		q := seededDB(t)
		var buf bytes.Buffer
		require.NoError(t, runDelete(ctx, &buf, q, action.Always(false), model.KindUser, "alice"))
		assert.Equal(t, "Delete cancelled\n", buf.String())
		_, err := db.GetUser(ctx, q, "alice")
		assert.NoError(t, err)
	})

	t.Run("confirmed deletes", func(t *testing.T) {
		q := seededDB(t)
		var buf bytes.Buffer
		require.NoError(t, runDelete(ctx, &buf, q, action.Always(true), model.KindFile, "9"))
		assert.Contains(t, buf.String(), `Deleted files "9"`)
		_, err := db.GetFile(ctx, q, 9)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("missing record is reported before asking", func(t *testing.T) {
		q := seededDB(t)
		asked := false
		c := action.ConfirmFunc(func(context.Context, string) (bool, error) {
			asked = true
			return true, nil
		})
		err := runDelete(ctx, &bytes.Buffer{}, q, c, model.KindConfig, "missing")
		assert.ErrorIs(t, err, db.ErrNotFound)
		assert.False(t, asked)
	})

	t.Run("read-only kinds are refused before asking", func(t *testing.T) {
		q := seededDB(t)
		for _, kind := range []model.Kind{model.KindCluster, model.KindPartition} {
			asked := false
			c := action.ConfirmFunc(func(context.Context, string) (bool, error) {
				asked = true
				return true, nil
			})
			err := runDelete(ctx, &bytes.Buffer{}, q, c, kind, "1")
			assert.ErrorIs(t, err, db.ErrUnsupportedKind, kind.String())
			assert.False(t, asked, kind.String())
		}
		_, err := db.GetCluster(ctx, q, 1)
		assert.NoError(t, err)
	})
}

func TestPromptConfirmer(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tc := range cases {
		t.Run(strings.TrimSpace(tc.input), func(t *testing.T) {
			var out bytes.Buffer
			ok, err := promptConfirmer(strings.NewReader(tc.input), &out).Confirm(ctx, "Delete?")
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
			assert.Equal(t, "Delete? [y/N] ", out.String())
		})
	}
}

func TestPromptConfirmerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := promptConfirmer(strings.NewReader("y\n"), &bytes.Buffer{}).Confirm(ctx, "Delete?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetupModelValidatesAndCollects(t *testing.T) {
	m := newSetupModel(testConfig())
	m.fields[0].input.SetValue("ops")

	enter := func(m setupModel) setupModel {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return updated.(setupModel)
	}

	m = enter(m)
	assert.Equal(t, 1, m.step)

	m.fields[1].input.SetValue("kafka")
	m = enter(m)
	assert.Equal(t, 1, m.step)
	assert.NotEmpty(t, m.err)

	m.fields[1].input.SetValue("/console")
	m = enter(m)
	assert.Equal(t, 2, m.step)
	m = enter(m)
	m.fields[3].input.SetValue("Not/AZone")
	m = enter(m)
	assert.False(t, m.done)

	m.fields[3].input.SetValue("UTC")
	m = enter(m)
	assert.True(t, m.done)

	s := m.settings()
	assert.Equal(t, "ops", s.Operator)
	assert.Equal(t, "/console", s.BasePath)
	assert.Equal(t, "UTC", s.Timezone)
}
