package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
)

// OpenAIService implements the VisionService interface using the OpenAI
// Responses API. Image parts are sent by URL; the provider fetches them.
type OpenAIService struct {
	config     *common.OpenAIConfig
	logger     arbor.ILogger
	httpClient *http.Client
	timeout    time.Duration
}

// responsesRequest is the Responses API request body.
type responsesRequest struct {
	Model string             `json:"model"`
	Input []responsesMessage `json:"input"`
}

type responsesMessage struct {
	Role    string             `json:"role"`
	Content []responsesContent `json:"content"`
}

type responsesContent struct {
	Type     string `json:"type"` // "input_text", "input_image" or "output_text"
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// responsesReply is the Responses API response body. The reply text may arrive
// in the flat OutputText field or nested under Output; both are checked.
type responsesReply struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenAIService creates a new OpenAI vision service instance.
func NewOpenAIService(config *common.OpenAIConfig, logger arbor.ILogger) (*OpenAIService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for vision service (set via OPENAI_API_KEY, REPERIO_OPENAI_API_KEY, or openai.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "gpt-4o-2024-11-20"
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Timeout == "" {
		config.Timeout = "60s"
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	logger.Info().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Msg("OpenAI vision service initialized")

	return &OpenAIService{
		config:     config,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}, nil
}

// Chat generates a completion for the given conversation and returns the raw
// reply text.
func (s *OpenAIService) Chat(ctx context.Context, messages []interfaces.VisionMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty for chat completion")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()

	body := responsesRequest{
		Model: s.config.Model,
		Input: convertMessagesToResponses(messages),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodPost, s.config.BaseURL+"/responses", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var reply responsesReply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if reply.Error != nil {
			return "", fmt.Errorf("OpenAI API error (HTTP %d): %s", resp.StatusCode, reply.Error.Message)
		}
		return "", fmt.Errorf("OpenAI API returned HTTP %d", resp.StatusCode)
	}

	text := extractReplyText(&reply)
	if text == "" {
		return "", fmt.Errorf("OpenAI response contained no reply text")
	}

	s.logger.Info().
		Int("message_count", len(messages)).
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Chat completion completed successfully")

	return text, nil
}

// Model returns the model identifier used for completions.
func (s *OpenAIService) Model() string {
	return s.config.Model
}

// Close releases resources held by the provider client.
func (s *OpenAIService) Close() error {
	return nil
}

// convertMessagesToResponses converts the internal message format to the
// Responses API input format.
func convertMessagesToResponses(messages []interfaces.VisionMessage) []responsesMessage {
	out := make([]responsesMessage, 0, len(messages))
	for _, msg := range messages {
		rm := responsesMessage{Role: msg.Role}
		for _, part := range msg.Parts {
			switch part.Type {
			case interfaces.PartTypeImage:
				rm.Content = append(rm.Content, responsesContent{Type: "input_image", ImageURL: part.ImageURL})
			default:
				// Assistant turns carry output_text; user and system turns carry input_text
				if msg.Role == "assistant" {
					rm.Content = append(rm.Content, responsesContent{Type: "output_text", Text: part.Text})
				} else {
					rm.Content = append(rm.Content, responsesContent{Type: "input_text", Text: part.Text})
				}
			}
		}
		out = append(out, rm)
	}
	return out
}

// extractReplyText pulls the completion text out of either response shape.
// First non-empty wins.
func extractReplyText(reply *responsesReply) string {
	if reply.OutputText != "" {
		return reply.OutputText
	}
	for _, item := range reply.Output {
		for _, content := range item.Content {
			if content.Text != "" {
				return content.Text
			}
		}
	}
	return ""
}
