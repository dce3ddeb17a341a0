package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/crewflow"
	"github.com/meikuraledutech/crewflow/internal/storetest"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.CreateSchema(context.Background()))
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, openTestStore(t, filepath.Join(t.TempDir(), "flows.db")))
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flows.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.CreateSchema(ctx))
	snap, err := crewflow.Preset("simple-task")
	require.NoError(t, err)
	require.NoError(t, first.SaveFlow(ctx, "crewAIFlow", snap))
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	got, err := second.GetFlow(ctx, "crewAIFlow")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestCreateSchemaIdempotent(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "flows.db"))
	assert.NoError(t, s.CreateSchema(context.Background()))
	assert.NoError(t, s.DropSchema(context.Background()))
	assert.NoError(t, s.DropSchema(context.Background()))
}
