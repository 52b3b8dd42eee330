package keepalive_test

import (
	"testing"

	"github.com/garnizeh/keepalive/internal/keepalive"
	"github.com/garnizeh/keepalive/pkg/models"
	"github.com/garnizeh/keepalive/pkg/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_RPC(t *testing.T) {
	p := models.Project{
		ID:          1,
		Name:        "alpha",
		EndpointURL: "https://alpha.supabase.co",
		Credential:  "key",
		Method:      models.MethodRPC,
	}

	steps := keepalive.Plan(p)
	require.Len(t, steps, 2)

	assert.Equal(t, probe.KindRPC, steps[0].Request.Kind)
	assert.Equal(t, "https://alpha.supabase.co", steps[0].Request.Endpoint)
	assert.Equal(t, "key", steps[0].Request.Credential)
	assert.False(t, steps[0].Fallback)
	assert.Equal(t, models.OutcomeMethodRPC, steps[0].Method())

	assert.Equal(t, probe.KindHealth, steps[1].Request.Kind)
	assert.True(t, steps[1].Fallback, "connectivity probe is always the final fallback")
	assert.Equal(t, models.OutcomeMethodFallback, steps[1].Method())
}

func TestPlan_Table(t *testing.T) {
	p := models.Project{
		ID:          2,
		Name:        "beta",
		EndpointURL: "https://beta.supabase.co",
		Credential:  "key",
		Method:      models.MethodTable,
		TableName:   "users",
	}

	steps := keepalive.Plan(p)
	require.Len(t, steps, 2)

	assert.Equal(t, probe.KindTable, steps[0].Request.Kind)
	assert.Equal(t, "users", steps[0].Request.Table)
	assert.Equal(t, "table:users", steps[0].Method())

	assert.True(t, steps[1].Fallback)
}

func TestPlan_UnknownMethodDefaultsToRPC(t *testing.T) {
	p := models.Project{Method: "", EndpointURL: "https://x", Credential: "k"}

	steps := keepalive.Plan(p)
	require.Len(t, steps, 2)
	assert.Equal(t, probe.KindRPC, steps[0].Request.Kind)
}
