package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"app/internal/logger"
	"app/internal/ratelimit"
)

func newTestParser(t *testing.T, handler http.HandlerFunc, limit int) (ParserService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	limiter := ratelimit.New(limit, time.Hour)
	svc := NewParserService("test-key", "gpt-4o-mini-2024-07-18", 5*time.Second, limiter, logger.New())
	svc.(*parserService).baseURL = server.URL
	return svc, server
}

func completionBody(t *testing.T, content string) string {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal completion body: %v", err)
	}
	return string(body)
}

func TestParseRejectsEmptyText(t *testing.T) {
	svc, _ := newTestParser(t, func(w http.ResponseWriter, r *http.Request) {}, 10)
	if _, err := svc.Parse(context.Background(), "user-1", ""); !errors.Is(err, ErrMissingText) {
		t.Fatalf("expected ErrMissingText, got %v", err)
	}
}

func TestParseRejectsOverlongText(t *testing.T) {
	svc, _ := newTestParser(t, func(w http.ResponseWriter, r *http.Request) {}, 10)
	long := strings.Repeat("a", MaxExtractedChars+1)
	if _, err := svc.Parse(context.Background(), "user-1", long); !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("expected ErrTextTooLong, got %v", err)
	}
}

func TestParseRateLimitedWithoutNetworkCall(t *testing.T) {
	requests := 0
	content := `{"semester":{"name":null,"startDate":null,"endDate":null},"course":{"name":null,"code":null,"description":null,"instructor":null},"tasks":[]}`
	svc, _ := newTestParser(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		io.WriteString(w, completionBody(t, content))
	}, 1)

	if _, err := svc.Parse(context.Background(), "user-1", "syllabus text"); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}
	_, err := svc.Parse(context.Background(), "user-1", "syllabus text")
	var rateErr *RateLimitedError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if rateErr.Remaining != 0 || rateErr.Limit != 1 {
		t.Fatalf("unexpected limit metadata: %+v", rateErr)
	}
	if requests != 1 {
		t.Fatalf("denied request must not reach the API, saw %d requests", requests)
	}
}

func TestParseSendsStructuredRequest(t *testing.T) {
	content := `{"semester":{"name":"Fall 2026","startDate":"2026-09-01","endDate":"2026-12-20"},"course":{"name":"Intro","code":"CS101","description":null,"instructor":null},"tasks":[{"title":"Assignment 1","description":null,"taskType":"assignment","dueDate":"2026-09-15","status":"not-started"}]}`
	var captured map[string]interface{}
	svc, _ := newTestParser(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		io.WriteString(w, completionBody(t, content))
	}, 10)

	parsed, err := svc.Parse(context.Background(), "user-1", "syllabus text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Semester.Name == nil || *parsed.Semester.Name != "Fall 2026" {
		t.Fatalf("semester not parsed: %+v", parsed.Semester)
	}
	if len(parsed.Tasks) != 1 || *parsed.Tasks[0].Title != "Assignment 1" {
		t.Fatalf("tasks not parsed: %+v", parsed.Tasks)
	}

	if captured["model"] != "gpt-4o-mini-2024-07-18" {
		t.Fatalf("unexpected model %v", captured["model"])
	}
	if captured["temperature"] != 0.2 {
		t.Fatalf("unexpected temperature %v", captured["temperature"])
	}
	if captured["max_tokens"] != float64(4000) {
		t.Fatalf("unexpected max_tokens %v", captured["max_tokens"])
	}
	format, ok := captured["response_format"].(map[string]interface{})
	if !ok || format["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %v", captured["response_format"])
	}
}

func TestParseWrapsAPIErrors(t *testing.T) {
	svc, _ := newTestParser(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"message":"model overloaded","type":"server_error"}}`)
	}, 10)

	_, err := svc.Parse(context.Background(), "user-1", "syllabus text")
	if !errors.Is(err, ErrStructuringFailed) {
		t.Fatalf("expected ErrStructuringFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected API error message to surface, got %v", err)
	}
}

func TestParseRejectsMalformedSyllabusPayload(t *testing.T) {
	svc, _ := newTestParser(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, completionBody(t, "not json at all"))
	}, 10)

	_, err := svc.Parse(context.Background(), "user-1", "syllabus text")
	if !errors.Is(err, ErrStructuringFailed) {
		t.Fatalf("expected ErrStructuringFailed, got %v", err)
	}
}
