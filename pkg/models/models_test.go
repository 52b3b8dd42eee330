package models_test

import (
	"encoding/json"
	"testing"

	"github.com/garnizeh/keepalive/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMethod_Valid(t *testing.T) {
	assert.True(t, models.MethodRPC.Valid())
	assert.True(t, models.MethodTable.Valid())
	assert.False(t, models.CheckMethod("").Valid())
	assert.False(t, models.CheckMethod("poll").Valid())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, models.StatusUnknown, models.StatusOf(""))
	assert.Equal(t, models.StatusSuccess, models.StatusOf("success"))
	assert.Equal(t, models.StatusSuccess, models.StatusOf("success (fallback)"))
	assert.Equal(t, models.StatusFailed, models.StatusOf("failed: endpoint returned status 500"))
}

func TestMaskCredential(t *testing.T) {
	assert.Equal(t, "****", models.MaskCredential(""))
	assert.Equal(t, "****", models.MaskCredential("short"))
	assert.Equal(t, "****", models.MaskCredential("123456789012"), "twelve chars still fully masked")
	assert.Equal(t, "serv...7890", models.MaskCredential("service-role-key-1234567890"))
}

func TestProject_CredentialNeverMarshals(t *testing.T) {
	p := models.Project{ID: 1, Name: "alpha", Credential: "super-secret-service-key"}

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "super-secret-service-key")
	assert.Equal(t, "supe...-key", p.MaskedCredential())
}

func TestCheckOutcome_StatusLabel(t *testing.T) {
	ok := models.CheckOutcome{Method: models.OutcomeMethodRPC, Succeeded: true}
	assert.Equal(t, "success", ok.StatusLabel())

	degraded := models.CheckOutcome{Method: models.OutcomeMethodFallback, Succeeded: true}
	assert.Equal(t, "success (fallback)", degraded.StatusLabel())

	failed := models.CheckOutcome{Method: models.OutcomeMethodFallback, Succeeded: false, Detail: "connection refused"}
	assert.Equal(t, "failed: connection refused", failed.StatusLabel())
}

func TestRunReport_Add(t *testing.T) {
	r := models.NewRunReport()
	require.NotEmpty(t, r.RunID)
	require.False(t, r.StartedAt.IsZero())

	r.Add(models.CheckOutcome{ProjectID: 1, Succeeded: true})
	r.Add(models.CheckOutcome{ProjectID: 2, Succeeded: true, Method: models.OutcomeMethodFallback})
	r.Add(models.CheckOutcome{ProjectID: 3, Succeeded: false})

	assert.Equal(t, 2, r.Succeeded, "fallback successes count as succeeded")
	assert.Equal(t, 1, r.Failed)
	require.Len(t, r.Outcomes, 3)
	assert.Equal(t, int64(1), r.Outcomes[0].ProjectID)
	assert.Equal(t, int64(3), r.Outcomes[2].ProjectID)
}
