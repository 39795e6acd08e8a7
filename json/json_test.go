package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSection struct {
	Host    string `json:"host" default:"localhost"`
	Port    int    `json:"port" default:"8080"`
	Enabled bool   `json:"enabled" default:"true"`
}

func TestMarshalAppliesDefaults(t *testing.T) {
	section := &testSection{Host: "example.com"}

	data, err := Marshal(section)
	require.NoError(t, err)

	assert.Equal(t, 8080, section.Port)
	assert.JSONEq(t, `{"host":"example.com","port":8080,"enabled":true}`, string(data))
}

func TestUnmarshalKeepsExplicitValues(t *testing.T) {
	var section testSection
	require.NoError(t, Unmarshal([]byte(`{"port":9000,"enabled":false}`), &section))

	assert.Equal(t, "localhost", section.Host)
	assert.Equal(t, 9000, section.Port)
	assert.False(t, section.Enabled)
}

func TestEncoderAcceptsMaps(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.SetIndent("", "  ")

	require.NoError(t, enc.Encode(map[string]any{"b": 2, "a": map[string]any{"x": 1}}))
	assert.JSONEq(t, `{"a":{"x":1},"b":2}`, buf.String())
	assert.Contains(t, buf.String(), "\n  \"a\"")
}

func TestDecoderAppliesDefaults(t *testing.T) {
	var section testSection
	require.NoError(t, NewDecoder(bytes.NewBufferString(`{"host":"db"}`)).Decode(&section))

	assert.Equal(t, testSection{Host: "db", Port: 8080, Enabled: true}, section)
}

func TestMarshalIndentNilPointer(t *testing.T) {
	var section *testSection
	data, err := MarshalIndent(section, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
