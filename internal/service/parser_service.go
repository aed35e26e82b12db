package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"app/internal/model"
	"app/internal/ratelimit"

	"github.com/rs/zerolog"
)

const (
	openAIBaseURL                = "https://api.openai.com/v1"
	openAIChatCompletionEndpoint = "/chat/completions"
)

const parserSystemPrompt = `You are a syllabus parsing assistant. Extract semester, course, and task information from the provided syllabus text.

Important rules:
1. Only extract actual tasks with clear due dates
2. Ignore general course policies or requirements
3. Course code must follow format: 2-4 letters followed by 3-4 numbers (e.g., CS101)
4. Task titles should be concise and clear
5. Dates must be within 5 years from now
6. Maximum 100 tasks allowed

CRITICAL: Extract as much information as possible, but it's okay if some fields are missing.`

const parserUserPromptFormat = `Parse the following syllabus and extract the required information:

%s

Remember:
1. Include all assignments, readings, tests, and due dates
2. Use YYYY-MM-DD format for dates
3. Set all task status to "not-started"
4. Categorize tasks appropriately
5. Include course instructor if available
6. Follow course code format (e.g., CS101)
7. It's okay to leave fields empty if the information is not clearly stated`

// syllabusJSONSchema constrains the model's output to the syllabus document
// shape. Every property is nullable so partial extractions still conform.
const syllabusJSONSchema = `{
  "type": "object",
  "properties": {
    "semester": {
      "type": "object",
      "properties": {
        "name": {"type": ["string", "null"]},
        "startDate": {"type": ["string", "null"]},
        "endDate": {"type": ["string", "null"]}
      },
      "required": ["name", "startDate", "endDate"],
      "additionalProperties": false
    },
    "course": {
      "type": "object",
      "properties": {
        "name": {"type": ["string", "null"]},
        "code": {"type": ["string", "null"]},
        "description": {"type": ["string", "null"]},
        "instructor": {"type": ["string", "null"]}
      },
      "required": ["name", "code", "description", "instructor"],
      "additionalProperties": false
    },
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": ["string", "null"]},
          "description": {"type": ["string", "null"]},
          "taskType": {"type": ["string", "null"], "enum": ["assignment", "reading", "test", "quiz", "project", "other", null]},
          "dueDate": {"type": ["string", "null"]},
          "status": {"type": ["string", "null"], "enum": ["not-started", null]}
        },
        "required": ["title", "description", "taskType", "dueDate", "status"],
        "additionalProperties": false
      }
    }
  },
  "required": ["semester", "course", "tasks"],
  "additionalProperties": false
}`

var (
	ErrMissingText       = errors.New("Invalid or missing text")
	ErrTextTooLong       = errors.New("Text too long (maximum 50,000 characters)")
	ErrStructuringFailed = errors.New("Failed to process syllabus")
	ErrEmptyStructuring  = errors.New("model returned no syllabus content")
)

// RateLimitedError reports a request rejected by the parse rate limiter.
type RateLimitedError struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

func (e *RateLimitedError) Error() string {
	return "Too many requests. Please try again later."
}

// ParserService defines the interface for AI syllabus structuring
type ParserService interface {
	Parse(ctx context.Context, callerID, text string) (*model.ParsedSyllabus, error)
}

type parserService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *ratelimit.Limiter
	logger  zerolog.Logger
}

// NewParserService creates a new instance of ParserService
func NewParserService(apiKey, modelName string, timeout time.Duration, limiter *ratelimit.Limiter, logger zerolog.Logger) ParserService {
	return &parserService{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: openAIBaseURL,
		apiKey:  apiKey,
		model:   modelName,
		limiter: limiter,
		logger:  logger.With().Str("service", "ParserService").Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat json.RawMessage `json:"response_format"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
}

// Parse structures raw syllabus text into a syllabus document via the
// chat completions API. The caller is admitted through the rate limiter
// before any network call is made.
func (s *parserService) Parse(ctx context.Context, callerID, text string) (*model.ParsedSyllabus, error) {
	if text == "" {
		return nil, ErrMissingText
	}
	if len([]rune(text)) > MaxExtractedChars {
		return nil, ErrTextTooLong
	}

	result := s.limiter.Allow(callerID)
	if !result.OK {
		s.logger.Warn().Str("callerID", callerID).Time("reset", result.Reset).Msg("Parse request rate limited")
		return nil, &RateLimitedError{
			Limit:     result.Limit,
			Remaining: result.Remaining,
			Reset:     result.Reset,
		}
	}

	responseFormat := fmt.Sprintf(`{"type": "json_schema", "json_schema": {"name": "syllabus", "strict": true, "schema": %s}}`, syllabusJSONSchema)
	requestBody := chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: parserSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(parserUserPromptFormat, text)},
		},
		ResponseFormat: json.RawMessage(responseFormat),
		Temperature:    0.2,
		MaxTokens:      4000,
	}

	bodyJSON, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+openAIChatCompletionEndpoint, bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Msg("Completion request failed")
		return nil, fmt.Errorf("%w: %v", ErrStructuringFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			s.logger.Error().Int("status", resp.StatusCode).Str("apiError", errorResp.Error.Message).Msg("Completion request rejected")
			return nil, fmt.Errorf("%w: %s", ErrStructuringFailed, errorResp.Error.Message)
		}
		s.logger.Error().Int("status", resp.StatusCode).Msg("Completion request rejected")
		return nil, fmt.Errorf("%w: HTTP %d", ErrStructuringFailed, resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("failed to parse completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, ErrEmptyStructuring
	}
	if refusal := completion.Choices[0].Message.Refusal; refusal != "" {
		return nil, fmt.Errorf("%w: %s", ErrStructuringFailed, refusal)
	}

	var parsed model.ParsedSyllabus
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid syllabus payload: %v", ErrStructuringFailed, err)
	}
	return &parsed, nil
}
