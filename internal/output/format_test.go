package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseFormat verifies format string parsing.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Format
	}{
		{input: "json", want: FormatJSON},
		{input: "JSON", want: FormatJSON},
		{input: "text", want: FormatText},
		{input: " text ", want: FormatText},
		{input: "auto", want: FormatAuto},
		{input: "bogus", want: FormatAuto},
		{input: "", want: FormatAuto},
	}

	for _, tt := range tests {
		t.Run("parse "+tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseFormat(tt.input))
		})
	}
}

// TestDetectFormatExplicit verifies an explicit format wins.
func TestDetectFormatExplicit(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, FormatText, DetectFormat(&buf, FormatText))
	assert.Equal(t, FormatJSON, DetectFormat(&buf, FormatJSON))
}

// TestDetectFormatNonTTY verifies non-file writers default to JSON.
func TestDetectFormatNonTTY(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, FormatJSON, DetectFormat(&buf, FormatAuto))
}

// TestFormatterPrintJSON verifies JSON output round-trips.
func TestFormatterPrintJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := NewFormatter(FormatJSON, &buf)
	require.True(t, f.IsJSON())

	require.NoError(t, f.Print(map[string]int{"free": 3}))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded["free"])
}

// TestFormatterPrintText verifies text output of plain values.
func TestFormatterPrintText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := NewFormatter(FormatText, &buf)
	require.False(t, f.IsJSON())

	require.NoError(t, f.Print("pool ready"))
	assert.Equal(t, "pool ready\n", buf.String())
}

// TestFormatterPrintf verifies formatted text output.
func TestFormatterPrintf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := NewFormatter(FormatText, &buf)

	require.NoError(t, f.Printf("%d slots\n", 5))
	assert.Equal(t, "5 slots\n", buf.String())
}
