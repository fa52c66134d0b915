package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "already canonical", input: "2024-05-01", want: "2024-05-01"},
		{name: "canonical with time", input: "2024-05-01 14:30:00", want: "2024-05-01"},
		{name: "UK slash format", input: "01/05/2024", want: "2024-05-01"},
		{name: "UK dash format", input: "01-05-2024", want: "2024-05-01"},
		{name: "dotted format", input: "01.05.2024", want: "2024-05-01"},
		{name: "long month name", input: "1 May 2024", want: "2024-05-01"},
		{name: "US long format", input: "May 1, 2024", want: "2024-05-01"},
		{name: "surrounding whitespace", input: "  2024-05-01  ", want: "2024-05-01"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "not a date", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_DayFirstWins(t *testing.T) {
	// 03/04/2024 is ambiguous; UK statements are day-first so it must
	// resolve to 3 April, not 4 March.
	got, err := Normalize("03/04/2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-03", got)
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("2024-04-06"))
	assert.False(t, IsCanonical("06/04/2024"))
	assert.False(t, IsCanonical("2024-13-01"))
	assert.False(t, IsCanonical(""))
}

func TestToISO(t *testing.T) {
	ts := time.Date(2024, time.April, 6, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-04-06", ToISO(ts))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-05-01", "2024-05-01", 0},
		{"2024-05-01", "2024-05-08", 7},
		{"2024-05-08", "2024-05-01", 7}, // absolute, order-independent
		{"2024-02-27", "2024-03-01", 3}, // leap year
		{"2024-12-31", "2025-01-01", 1},
	}
	for _, tt := range tests {
		got, err := DaysBetween(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s to %s", tt.a, tt.b)
	}
}

func TestDaysBetween_Malformed(t *testing.T) {
	_, err := DaysBetween("01/05/2024", "2024-05-01")
	assert.Error(t, err)

	_, err = DaysBetween("2024-05-01", "")
	assert.Error(t, err)
}
