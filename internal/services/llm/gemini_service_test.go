package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ternarybob/reperio/internal/interfaces"
)

func TestConvertMessagesToGemini_RoleMapping(t *testing.T) {
	messages := []interfaces.VisionMessage{
		interfaces.TextMessage("system", "rules"),
		interfaces.TextMessage("user", "question"),
		interfaces.TextMessage("assistant", "answer"),
	}

	contents, systemText, err := convertMessagesToGemini(messages)
	require.NoError(t, err)

	assert.Equal(t, "rules", systemText)
	require.Len(t, contents, 2)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
}

func TestConvertMessagesToGemini_ImageParts(t *testing.T) {
	messages := []interfaces.VisionMessage{
		{
			Role: "user",
			Parts: []interfaces.Part{
				{Type: interfaces.PartTypeImage, ImageURL: "https://example.com/a.jpg"},
				{Type: interfaces.PartTypeText, Text: "analyze"},
			},
		},
	}

	contents, _, err := convertMessagesToGemini(messages)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	require.Len(t, contents[0].Parts, 2)
	assert.Empty(t, contents[0].Parts[0].Text)
	assert.Equal(t, "analyze", contents[0].Parts[1].Text)
}

func TestConvertMessagesToGemini_EmptyFails(t *testing.T) {
	_, _, err := convertMessagesToGemini(nil)
	assert.Error(t, err)
}
