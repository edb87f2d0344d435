package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "smallest value possible", input: 0.0, expected: LowValue},
		{name: "exactly low boundary", input: 0.3, expected: LowValue},
		{name: "just above low", input: 0.31, expected: MediumValue},
		{name: "exactly medium boundary", input: 0.7, expected: MediumValue},
		{name: "just above medium", input: 0.71, expected: HighValue},
		{name: "largest value possible", input: 1.0, expected: HighValue},
		{name: "negative value", input: -0.5, expected: LowValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	for _, score := range []float64{0.1, 0.5, 0.9} {
		assert.Contains(t, GetColorLabel(score), GetPlainLabel(score))
	}
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestDBFilePaths(t *testing.T) {
	cache := GetCacheDBFilePath()
	history := GetHistoryDBFilePath()
	assert.True(t, strings.HasSuffix(cache, ".archivepulse_cache.db"))
	assert.True(t, strings.HasSuffix(history, ".archivepulse_history.db"))
	assert.NotEqual(t, cache, history)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "https:/...", TruncateText("https://example.com/page", 10))
	assert.Equal(t, "abcdef", TruncateText("abcdef", 3))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input       string
		expected    bool
		expectError bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
