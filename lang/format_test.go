package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for s, want := range map[string]Format{
		"":       FormatNative,
		"native": FormatNative,
		"JSON":   FormatJSON,
		"yaml":   FormatYAML,
		"yml":    FormatYAML,
	} {
		got, err := ParseFormat(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := ParseFormat("toml")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFormatProgram_Native(t *testing.T) {
	p, err := Compile(context.Background(), "n(0), m(1) o", testResolver)
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, FormatProgram(context.Background(), &buf, p, FormatNative, 0))
	assert.Equal(t, "tuple(n(0), m(1)) o()\n", buf.String())

	buf.Reset()

	require.NoError(t, FormatProgram(context.Background(), &buf, p, FormatNative, 2))
	assert.Equal(t, "tuple(n(0), m(1))\no()\n", buf.String())
}

func TestFormatProgram_JSON(t *testing.T) {
	p, err := Compile(context.Background(), `n(0, "x"), m(1.5) o`, testResolver)
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, FormatProgram(context.Background(), &buf, p, FormatJSON, 0))
	assert.JSONEq(t,
		`[[{"name":"n","args":[0,"x"]},{"name":"m","args":[1.5]}],[{"name":"o","args":[]}]]`,
		buf.String())

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, buf.String(), string(data))
}

func TestFormatProgram_YAML(t *testing.T) {
	p, err := Compile(context.Background(), "n(0), m(1) o", testResolver)
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, FormatProgram(context.Background(), &buf, p, FormatYAML, 2))

	var got [][]map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	require.Len(t, got[0], 2)
	assert.Equal(t, "n", got[0][0]["name"])
	assert.Equal(t, "m", got[0][1]["name"])
	assert.Equal(t, "o", got[1][0]["name"])
}

func TestFormatProgram_InvalidFormat(t *testing.T) {
	var buf bytes.Buffer

	err := FormatProgram(context.Background(), &buf, Program{}, Format(42), 0)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
