package importer_test

import (
	"context"
	"strings"
	"testing"

	dbfs "github.com/garnizeh/keepalive/db"
	dbpkg "github.com/garnizeh/keepalive/internal/db"
	"github.com/garnizeh/keepalive/internal/importer"
	"github.com/garnizeh/keepalive/internal/repository/sqlite"
	"github.com/garnizeh/keepalive/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	d, err := dbpkg.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, dbpkg.Migrate(ctx, d, dbfs.Migrations))

	return sqlite.New(d, nil)
}

func TestRun_ImportsLegacyProjects(t *testing.T) {
	store := setupStore(t)

	legacy := `[
		{"name": "alpha", "url": "https://alpha.supabase.co", "key": "key-alpha"},
		{"name": "beta", "url": "https://beta.supabase.co", "key": "key-beta"}
	]`

	report, err := importer.Run(context.Background(), store, strings.NewReader(legacy), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)

	projects, err := store.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	// legacy records carry no method, imports default to rpc and enabled
	assert.Equal(t, models.MethodRPC, projects[0].Method)
	assert.True(t, projects[0].Enabled)
	assert.Equal(t, "key-alpha", projects[0].Credential)
}

func TestRun_SkipsDuplicates(t *testing.T) {
	store := setupStore(t)

	legacy := `[
		{"name": "alpha", "url": "https://alpha.supabase.co", "key": "key-alpha"},
		{"name": "alpha", "url": "https://other.supabase.co", "key": "key-other"}
	]`

	report, err := importer.Run(context.Background(), store, strings.NewReader(legacy), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Skipped)

	// the first record wins, the duplicate never overwrites it
	projects, err := store.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "https://alpha.supabase.co", projects[0].EndpointURL)
}

func TestRun_RejectsInvalidFile(t *testing.T) {
	store := setupStore(t)

	cases := []struct {
		name string
		data string
	}{
		{"not an array", `{"name": "alpha"}`},
		{"missing key field", `[{"name": "alpha", "url": "https://x"}]`},
		{"empty name", `[{"name": "", "url": "https://x", "key": "k"}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := importer.Run(context.Background(), store, strings.NewReader(tc.data), nil)
			require.Error(t, err)
		})
	}

	projects, err := store.List(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, projects, "an invalid file imports nothing")
}

func TestRun_Rerun(t *testing.T) {
	store := setupStore(t)

	legacy := `[
		{"name": "alpha", "url": "https://alpha.supabase.co", "key": "key-alpha"}
	]`
	report, err := importer.Run(context.Background(), store, strings.NewReader(legacy), nil)
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)

	// re-running the same file only skips, it never fails or duplicates
	report, err = importer.Run(context.Background(), store, strings.NewReader(legacy), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Failed)
}
