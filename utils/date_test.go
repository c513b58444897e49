package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomDateUnmarshal(t *testing.T) {
	var d CustomDate
	require.NoError(t, json.Unmarshal([]byte(`"2026-06-01"`), &d))
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), d.Time)

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"01.06.2026"`), &d))
}

func TestCustomDateMarshal(t *testing.T) {
	d := CustomDate{Time: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-06-01"`, string(out))

	out, err = json.Marshal(CustomDate{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
}
