package upload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(nil))
	assert.True(t, IsMissing(""))
	assert.True(t, IsMissing("   "))
	assert.False(t, IsMissing("x"))
	assert.False(t, IsMissing(0))
	assert.False(t, IsMissing(0.0))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "hello", CleanString("  hello  ", 0))
	assert.Equal(t, "12345", CleanString(12345.0, 0))
	assert.Equal(t, "he", CleanString("hello", 2))
	assert.Equal(t, "", CleanString(nil, 10))
}

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
		ok    bool
	}{
		{"iso", "2026-01-05", "2026-01-05", true},
		{"slashed", "2026/01/05", "2026-01-05", true},
		{"uk", "05/01/2026", "2026-01-05", true},
		{"datetime truncates", "2026-01-05 09:30:00", "2026-01-05", true},
		{"serial", 45000.0, "2023-03-15", true},
		{"serial string", "45000", "2023-03-15", true},
		{"small number is not a date", 90.0, "", false},
		{"garbage", "soon", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceDate(tt.value)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestCoerceTime(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  time.Duration
		ok    bool
	}{
		{"hh:mm", "09:30", 9*time.Hour + 30*time.Minute, true},
		{"hh:mm:ss", "14:05:30", 14*time.Hour + 5*time.Minute + 30*time.Second, true},
		{"bare digits", "0900", 9 * time.Hour, true},
		{"three digits", "930", 9*time.Hour + 30*time.Minute, true},
		{"fraction of day", 0.4375, 10*time.Hour + 30*time.Minute, true},
		{"fraction floors", 0.5, 12 * time.Hour, true},
		{"fraction string", "0.4375", 10*time.Hour + 30*time.Minute, true},
		{"datetime", "2026-01-05 11:15:00", 11*time.Hour + 15*time.Minute, true},
		{"out of range hour", "2500", 0, false},
		{"garbage", "morning", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceTime(tt.value)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		value interface{}
		want  int
		ok    bool
	}{
		{42, 42, true},
		{42.6, 43, true},
		{"42", 42, true},
		{"approx 120 seats", 120, true},
		{true, 1, true},
		{"none", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := CoerceInt(tt.value)
		require.Equal(t, tt.ok, ok)
		if ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestCoerceMinutes(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  int
		ok    bool
	}{
		{"plain int", 90, 90, true},
		{"float", 90.0, 90, true},
		{"colon form", "1:30", 90, true},
		{"colon with seconds", "2:00:00", 120, true},
		{"hours and minutes", "2h 15m", 135, true},
		{"hours only", "1h", 60, true},
		{"minutes only", "45m", 45, true},
		{"first integer fallback", "90 minutes", 90, true},
		{"negative clamps", -30, 0, true},
		{"garbage", "a while", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceMinutes(tt.value)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
