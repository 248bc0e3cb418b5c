package action

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmadmin/internal/model"
)

func TestConfirmDelete(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		answer    bool
		delErr    error
		wantCalls int
		want      Outcome
		wantErr   error
	}{
		{name: "confirmed deletes once", answer: true, wantCalls: 1, want: OutcomeDeleted},
		{name: "declined never deletes", answer: false, wantCalls: 0, want: OutcomeDeclined},
		{name: "failure propagates", answer: true, delErr: errBoom, wantCalls: 1, want: OutcomeDeclined, wantErr: errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			var gotID string
			del := func(_ context.Context, id string) error {
				calls++
				gotID = id
				return tt.delErr
			}

			got, err := ConfirmDelete(context.Background(), Always(tt.answer), "", "alice", del)
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantCalls > 0 {
				assert.Equal(t, "alice", gotID)
			}
		})
	}
}

func TestConfirmDeletePassesPrompt(t *testing.T) {
	var seen string
	c := ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		seen = prompt
		return false, nil
	})

	_, err := ConfirmDelete(context.Background(), c, "", "k", func(context.Context, string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, DefaultPrompt, seen)

	_, err = ConfirmDelete(context.Background(), c, "drop it?", "k", func(context.Context, string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, "drop it?", seen)
}

func TestConfirmDeleteConfirmerError(t *testing.T) {
	called := false
	c := ConfirmFunc(func(context.Context, string) (bool, error) {
		return true, context.Canceled
	})

	got, err := ConfirmDelete(context.Background(), c, "", "k", func(context.Context, string) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeDeclined, got)
	assert.False(t, called)
}

func TestConfirmDeleteRequiresConfirmer(t *testing.T) {
	_, err := ConfirmDelete(context.Background(), nil, "", "k", func(context.Context, string) error { return nil })
	assert.ErrorIs(t, err, ErrNoConfirmer)
}

func TestRowActions(t *testing.T) {
	acts := Row(model.KindConfig, "kafka.retention")
	require.Len(t, acts, 2)

	mod, ok := Find(acts, Modify)
	require.True(t, ok)
	assert.False(t, mod.Destructive())
	assert.Equal(t, "kafka.retention", mod.ID)

	del, ok := Find(acts, Delete)
	require.True(t, ok)
	assert.True(t, del.Destructive())
	assert.Equal(t, model.KindConfig, del.Kind)
	assert.Equal(t, `delete configs "kafka.retention"`, del.String())
}

func TestHasRowActions(t *testing.T) {
	for kind, want := range map[model.Kind]bool{
		model.KindUser:      true,
		model.KindFile:      true,
		model.KindConfig:    true,
		model.KindCluster:   false,
		model.KindPartition: false,
	} {
		assert.Equal(t, want, HasRowActions(kind), kind.String())
	}
}
