// Package storetest holds the behaviour every crewflow.Store implementation
// must share, run against each adapter from its own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/crewflow"
)

// Run exercises store through the full save/restore contract. The store
// must start empty with its schema in place.
func Run(t *testing.T, store crewflow.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing flow", func(t *testing.T) {
		_, err := store.GetFlow(ctx, "nope")
		assert.ErrorIs(t, err, crewflow.ErrFlowNotFound)
		assert.ErrorIs(t, err, crewflow.ErrNotFound)
	})

	t.Run("round trip preserves order", func(t *testing.T) {
		want, err := crewflow.Preset("research-team")
		require.NoError(t, err)

		require.NoError(t, store.SaveFlow(ctx, "research", want))
		got, err := store.GetFlow(ctx, "research")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("empty flow", func(t *testing.T) {
		require.NoError(t, store.SaveFlow(ctx, "blank", &crewflow.Snapshot{}))
		got, err := store.GetFlow(ctx, "blank")
		require.NoError(t, err)
		assert.Empty(t, got.Nodes)
		assert.Empty(t, got.Edges)
	})

	t.Run("save replaces", func(t *testing.T) {
		first, err := crewflow.Preset("research-team")
		require.NoError(t, err)
		require.NoError(t, store.SaveFlow(ctx, "replace", first))

		second, err := crewflow.Preset("simple-task")
		require.NoError(t, err)
		require.NoError(t, store.SaveFlow(ctx, "replace", second))

		got, err := store.GetFlow(ctx, "replace")
		require.NoError(t, err)
		assert.Equal(t, second, got)
	})

	t.Run("rewired edges persist", func(t *testing.T) {
		e := crewflow.NewEditor(nil)
		_, err := e.LoadPreset("simple-task")
		require.NoError(t, err)
		v, err := e.RemoveBatch([]string{"agent-1"})
		require.NoError(t, err)

		require.NoError(t, store.SaveFlow(ctx, "rewired", v.Snapshot))
		got, err := store.GetFlow(ctx, "rewired")
		require.NoError(t, err)
		assert.Equal(t, []crewflow.Edge{{ID: "crew-1->task-1", Source: "crew-1", Target: "task-1"}}, got.Edges)
	})

	t.Run("invalid snapshot is refused", func(t *testing.T) {
		bad := &crewflow.Snapshot{Edges: []crewflow.Edge{{ID: "e", Source: "a", Target: "b"}}}
		err := store.SaveFlow(ctx, "bad", bad)
		assert.ErrorIs(t, err, crewflow.ErrMalformedSnapshot)
		_, err = store.GetFlow(ctx, "bad")
		assert.ErrorIs(t, err, crewflow.ErrFlowNotFound)
	})

	t.Run("list and delete", func(t *testing.T) {
		snap, err := crewflow.Preset("simple-task")
		require.NoError(t, err)
		require.NoError(t, store.SaveFlow(ctx, "listed", snap))

		flows, err := store.ListFlows(ctx)
		require.NoError(t, err)
		var found *crewflow.FlowSummary
		for i := range flows {
			if flows[i].ID == "listed" {
				found = &flows[i]
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, 3, found.Nodes)
		assert.Equal(t, 2, found.Edges)
		assert.False(t, found.UpdatedAt.IsZero())

		require.NoError(t, store.DeleteFlow(ctx, "listed"))
		_, err = store.GetFlow(ctx, "listed")
		assert.ErrorIs(t, err, crewflow.ErrFlowNotFound)
		require.NoError(t, store.DeleteFlow(ctx, "listed"))
	})
}
