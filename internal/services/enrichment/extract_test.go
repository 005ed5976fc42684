package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	raw, ok := ExtractJSON(`{"a": 1}`)
	assert.True(t, ok)
	assert.Equal(t, `{"a": 1}`, raw)
}

func TestExtractJSONWithSurroundingProse(t *testing.T) {
	raw, ok := ExtractJSON(`Sure, here: {"deniz_manzarasi": true} thanks`)
	assert.True(t, ok)
	assert.Equal(t, `{"deniz_manzarasi": true}`, raw)
}

func TestExtractJSONGreedySpansNestedObjects(t *testing.T) {
	reply := `prefix {"ambiyans": {"retro": true}} suffix`
	raw, ok := ExtractJSON(reply)
	assert.True(t, ok)
	assert.Equal(t, `{"ambiyans": {"retro": true}}`, raw)
}

func TestExtractJSONMultiline(t *testing.T) {
	reply := "Analiz sonucu:\n{\n  \"mekan_isiklandirma\": \"los\"\n}\nUmarım yardımcı olur."
	raw, ok := ExtractJSON(reply)
	assert.True(t, ok)
	assert.Equal(t, "{\n  \"mekan_isiklandirma\": \"los\"\n}", raw)
}

func TestExtractJSONNoObject(t *testing.T) {
	_, ok := ExtractJSON("no structured content here")
	assert.False(t, ok)

	_, ok = ExtractJSON("")
	assert.False(t, ok)

	// A '}' before the first '{' is not a valid span
	_, ok = ExtractJSON("} nope {")
	assert.False(t, ok)
}
