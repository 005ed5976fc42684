package enrichment

import (
	"os"
	"strings"
	"sync"

	"github.com/ternarybob/reperio/internal/interfaces"
)

// fallbackSystemPrompt is used when the system prompt resource is missing or
// empty.
const fallbackSystemPrompt = "Sen bir mekan analiz uzmanısın."

// exemplarInstruction is the text appended to every few-shot image set.
const exemplarInstruction = "Bu fotoğraf bir ÖĞRETİM örneğidir. Kurallara göre analiz et."

// fewShotExemplar pairs an instructional image set with its canonical JSON
// answer.
type fewShotExemplar struct {
	imageURLs []string
	answer    string
}

// fewShotExemplars is the hard-coded exemplar set prepended to every
// enrichment call. It anchors the model's output format and vocabulary and is
// never generated.
var fewShotExemplars = []fewShotExemplar{
	{
		imageURLs: []string{
			"https://ibb.co/gZR4GN9B",
			"https://ibb.co/vxyjtkn4",
			"https://ibb.co/FL616hP1",
			"https://ibb.co/ZnjvVt4",
			"https://ibb.co/3yJz6HcY",
			"https://ibb.co/350kb2n1",
		},
		answer: `{
  "mekan_isiklandirma": "los",
  "ambiyans": { "retro": true, "modern": false },
  "sigara_iciliyor": true,
  "sigara_alani": ["kapali"],
  "deniz_manzarasi": false
}`,
	},
	{
		imageURLs: []string{
			"https://ibb.co/s9nMvFMx",
			"https://ibb.co/ZpWGcP6g",
			"https://ibb.co/bg1SM1C7",
			"https://ibb.co/ksyMcsf4",
			"https://ibb.co/wFVDcQGQ",
			"https://ibb.co/4ZhbzpLf",
			"https://ibb.co/0ySFQWbQ",
		},
		answer: `{
  "mekan_isiklandirma": "canli",
  "ambiyans": { "retro": false, "modern": true },
  "masada_priz_var_mi": true,
  "sigara_iciliyor": true,
  "sigara_alani": ["acik"],
  "deniz_manzarasi": false
}`,
	},
	{
		imageURLs: []string{
			"https://ibb.co/45Nr9kN",
			"https://ibb.co/8VTJvf7",
			"https://ibb.co/gbHvLW6x",
			"https://ibb.co/HjpRZQ8",
			"https://ibb.co/gb5wSXF2",
			"https://ibb.co/2YpzMGBP",
		},
		answer: `{
  "mekan_isiklandirma": "dogal",
  "ambiyans": { "retro": true, "modern": false },
  "masada_priz_var_mi": true,
  "koltuk_var_mi": true,
  "sigara_iciliyor": true,
  "sigara_alani": ["acik"],
  "deniz_manzarasi": true
}`,
	},
}

// promptLoader lazily loads the system prompt resource once per process
// lifetime. Concurrent first-use callers share the single in-flight load; the
// cached value is immutable afterwards.
type promptLoader struct {
	path string
	once sync.Once
	text string
}

func newPromptLoader(path string) *promptLoader {
	return &promptLoader{path: path}
}

// Load returns the cached system prompt, loading it on first use. A missing or
// empty resource yields the fallback prompt rather than an error.
func (l *promptLoader) Load() string {
	l.once.Do(func() {
		data, err := os.ReadFile(l.path)
		if err != nil {
			l.text = fallbackSystemPrompt
			return
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			text = fallbackSystemPrompt
		}
		l.text = text
	})
	return l.text
}

// buildMessages assembles the full multi-modal conversation for one place:
// system instruction, the fixed few-shot exemplars, then one user turn
// carrying the place's resolved photo URLs.
func buildMessages(systemPrompt, placeName string, photoURLs []string) []interfaces.VisionMessage {
	messages := []interfaces.VisionMessage{
		interfaces.TextMessage("system", systemPrompt),
	}

	for _, exemplar := range fewShotExemplars {
		userParts := make([]interfaces.Part, 0, len(exemplar.imageURLs)+1)
		for _, url := range exemplar.imageURLs {
			userParts = append(userParts, interfaces.Part{Type: interfaces.PartTypeImage, ImageURL: url})
		}
		userParts = append(userParts, interfaces.Part{Type: interfaces.PartTypeText, Text: exemplarInstruction})

		messages = append(messages,
			interfaces.VisionMessage{Role: "user", Parts: userParts},
			interfaces.TextMessage("assistant", exemplar.answer),
		)
	}

	placeParts := make([]interfaces.Part, 0, len(photoURLs)+1)
	for _, url := range photoURLs {
		placeParts = append(placeParts, interfaces.Part{Type: interfaces.PartTypeImage, ImageURL: url})
	}
	placeParts = append(placeParts, interfaces.Part{
		Type: interfaces.PartTypeText,
		Text: `Tüm fotoğraflar "` + placeName + `" mekanına aittir. Kurallara birebir uyarak analiz et.`,
	})
	messages = append(messages, interfaces.VisionMessage{Role: "user", Parts: placeParts})

	return messages
}
