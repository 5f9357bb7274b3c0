package shared_test

import (
	"testing"

	"github.com/erp/client/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_IsSuccess(t *testing.T) {
	assert.True(t, shared.NewSuccessEnvelope("ok", nil).IsSuccess())
	assert.False(t, shared.NewErrorEnvelope(shared.CodeNotFound, "missing").IsSuccess())

	var nilEnvelope *shared.Envelope
	assert.False(t, nilEnvelope.IsSuccess())
}

func TestEnvelope_DecodeData(t *testing.T) {
	env := shared.NewSuccessEnvelope("ok", map[string]any{
		"token": "abc",
		"roles": []any{"ROLE_SALES"},
	})

	var out struct {
		Token string   `json:"token"`
		Roles []string `json:"roles"`
	}
	require.NoError(t, env.DecodeData(&out))
	assert.Equal(t, "abc", out.Token)
	assert.Equal(t, []string{"ROLE_SALES"}, out.Roles)
}

func TestEnvelope_DecodeData_NoData(t *testing.T) {
	env := shared.NewErrorEnvelope(shared.CodeBadRequest, "bad")

	var out map[string]any
	assert.Error(t, env.DecodeData(&out))
}

func TestEnvelope_MessageOr(t *testing.T) {
	assert.Equal(t, "fallback", shared.NewErrorEnvelope(500, "").MessageOr("fallback"))
	assert.Equal(t, "boom", shared.NewErrorEnvelope(500, "boom").MessageOr("fallback"))
}
