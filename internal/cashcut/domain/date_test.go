package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-09-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-09-01", d.String())
	assert.False(t, d.IsZero())

	for _, raw := range []string{"", "01/09/2025", "2025-13-01", "2025-09-01T00:00:00Z"} {
		_, err := ParseDate(raw)
		assert.ErrorIs(t, err, ErrInvalidCutDate, raw)
	}
}

func TestDateOf_TruncatesTimeOfDay(t *testing.T) {
	d := DateOf(time.Date(2025, 9, 1, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, "2025-09-01", d.String())
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), d.Time())
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2025-09-01")
	require.NoError(t, err)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-09-01"`, string(raw))

	var decoded Date
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, d, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"09/01/2025"`), &decoded))
}

func TestDateScan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2025-09-01", d.String())

	require.NoError(t, d.Scan("2025-09-02"))
	assert.Equal(t, "2025-09-02", d.String())

	// sqlite hands back datetime text.
	require.NoError(t, d.Scan("2025-09-03 00:00:00+00:00"))
	assert.Equal(t, "2025-09-03", d.String())

	require.NoError(t, d.Scan([]byte("2025-09-04")))
	assert.Equal(t, "2025-09-04", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("not-a-date"))
}

func TestDateValue(t *testing.T) {
	d, err := ParseDate("2025-09-01")
	require.NoError(t, err)
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, d.Time(), v)

	_, err = Date{}.Value()
	assert.Error(t, err)
}
