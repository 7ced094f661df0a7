package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/lifelens/lifelens/internal/domain/ai"
	"github.com/lifelens/lifelens/internal/domain/profiles"
)

// newStubClient points the client at a local stub of the inference API.
func newStubClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return &Client{api: openai.NewClientWithConfig(cfg), model: defaultModel}
}

// chatResponse wraps assistant content in a minimal completion payload.
func chatResponse(content string) string {
	return fmt.Sprintf(
		`{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}]}`,
		content,
	)
}

func serveJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}
}

func TestNoAPIKeyNotConfigured(t *testing.T) {
	c := NewClient("", "")
	ctx := context.Background()

	if _, err := c.AnalyzeScan(ctx, []byte("img"), nil); !errors.Is(err, ai.ErrNotConfigured) {
		t.Errorf("AnalyzeScan: %v, want ErrNotConfigured", err)
	}
	if _, err := c.AssessRisk(ctx, &profiles.Profile{Age: 30}); !errors.Is(err, ai.ErrNotConfigured) {
		t.Errorf("AssessRisk: %v, want ErrNotConfigured", err)
	}
	if _, err := c.GenerateInsights(ctx, &profiles.Profile{Age: 30}, nil); !errors.Is(err, ai.ErrNotConfigured) {
		t.Errorf("GenerateInsights: %v, want ErrNotConfigured", err)
	}
}

func TestMalformedModelResponse(t *testing.T) {
	c := newStubClient(t, serveJSON(http.StatusOK, chatResponse("the kidneys look fine")))
	ctx := context.Background()

	if out, err := c.AnalyzeScan(ctx, []byte("img"), nil); err == nil {
		t.Errorf("AnalyzeScan decoded prose as analysis: %+v", out)
	}
	if out, err := c.AssessRisk(ctx, nil); err == nil {
		t.Errorf("AssessRisk decoded prose as assessment: %+v", out)
	}
	if out, err := c.GenerateInsights(ctx, nil, nil); err == nil {
		t.Errorf("GenerateInsights decoded prose as insights: %+v", out)
	}
}

func TestQuotaExceeded(t *testing.T) {
	c := newStubClient(t, serveJSON(http.StatusTooManyRequests,
		`{"error":{"message":"insufficient quota","type":"insufficient_quota"}}`))

	if _, err := c.AssessRisk(context.Background(), nil); !errors.Is(err, ai.ErrQuotaExceeded) {
		t.Errorf("429 mapped to %v, want ErrQuotaExceeded", err)
	}
}

func TestEmptyChoices(t *testing.T) {
	c := newStubClient(t, serveJSON(http.StatusOK,
		`{"id":"chatcmpl-1","object":"chat.completion","choices":[]}`))

	if _, err := c.AssessRisk(context.Background(), nil); err == nil {
		t.Error("expected error for a completion with no choices")
	}
}

func TestAnalyzeScanDecodesAssessment(t *testing.T) {
	c := newStubClient(t, serveJSON(http.StatusOK, chatResponse(
		`{"scan_type":"ultrasound","risk_level":"low","confidence_score":"85","key_findings":["normal size"]}`,
	)))

	out, err := c.AnalyzeScan(context.Background(), []byte("img"), &profiles.Profile{Age: 34})
	if err != nil {
		t.Fatalf("AnalyzeScan: %v", err)
	}
	if out.ScanType != "ultrasound" || out.RiskLevel != "low" {
		t.Errorf("decoded = %+v", out)
	}
	if out.ConfidenceScore == nil || *out.ConfidenceScore != 85 {
		t.Errorf("confidence = %v, want 85", out.ConfidenceScore)
	}
}
