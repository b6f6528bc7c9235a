package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalIntDistinguishesAbsentAndNull(t *testing.T) {
	var absent StaffOrderUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"x"}`), &absent))
	assert.False(t, absent.OperatorID.Present)

	var cleared StaffOrderUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"operator_id":null}`), &cleared))
	assert.True(t, cleared.OperatorID.Present)
	assert.Nil(t, cleared.OperatorID.Value)

	var assigned StaffOrderUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"operator_id":7}`), &assigned))
	assert.True(t, assigned.OperatorID.Present)
	require.NotNil(t, assigned.OperatorID.Value)
	assert.Equal(t, 7, *assigned.OperatorID.Value)
}

func TestOptionalIntMarshal(t *testing.T) {
	seven := 7
	out, err := json.Marshal(OptionalInt{Present: true, Value: &seven})
	require.NoError(t, err)
	assert.Equal(t, "7", string(out))

	out, err = json.Marshal(OptionalInt{Present: true})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
