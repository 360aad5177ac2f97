package openrouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault/medvault/constants"
	"github.com/medvault/medvault/internal/aiparse"
	"github.com/medvault/medvault/internal/content"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testPayload() content.Payload {
	return content.Adapt([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01}, constants.IMAGE)
}

// chatServer replies with a fixed message content for every request and
// records the last request body it saw.
func chatServer(t *testing.T, reply string, lastBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lastBody != nil {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			*lastBody = body
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestDetectDocumentTypeNormalizes(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  constants.DocumentCategory
	}{
		{"exact", "prescription", constants.CategoryPrescription},
		{"uppercase", "MEDICAL_REPORT", constants.CategoryMedicalReport},
		{"padded", "  prescription\n", constants.CategoryPrescription},
		{"unknown token", "unknown", constants.CategoryUnknown},
		{"chatty answer", "This looks like a prescription to me.", constants.CategoryUnknown},
		{"empty", "", constants.CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, tt.reply, nil)
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL}, testLogger())
			got := c.DetectDocumentType(context.Background(), testPayload(), "sk-test")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectDocumentTypeWithoutKey(t *testing.T) {
	srv := chatServer(t, "prescription", nil)
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, testLogger())
	got := c.DetectDocumentType(context.Background(), testPayload(), "")
	assert.Equal(t, constants.CategoryUnknown, got)
}

func TestDetectDocumentTypeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, testLogger())
	got := c.DetectDocumentType(context.Background(), testPayload(), "sk-test")
	assert.Equal(t, constants.CategoryUnknown, got)
}

func TestParseDocumentSuccess(t *testing.T) {
	reply := `{"document_type": "prescription", "diagnosis": "Migraine", "medicines": [{"name": "Sumatriptan"}]}`
	var body map[string]any
	srv := chatServer(t, reply, &body)
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Model: "test/model"}, testLogger())
	res := c.ParseDocument(context.Background(), testPayload(), "sk-test", "prescription")

	assert.Equal(t, constants.ParseStatusSuccess, res.Status())
	assert.Equal(t, constants.CategoryPrescription, res.DetectedCategory())
	assert.Equal(t, "Migraine", res.Str("diagnosis"))

	// Request carries the configured model and the data URL attachment.
	assert.Equal(t, "test/model", body["model"])
	assert.EqualValues(t, 0.1, body["temperature"])
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 1)
}

func TestParseDocumentHintSkipsDetection(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"report_type": "xray"}`}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, testLogger())
	res := c.ParseDocument(context.Background(), testPayload(), "sk-test", "medical_report")

	assert.Equal(t, 1, calls)
	assert.Equal(t, constants.CategoryMedicalReport, res.DetectedCategory())
}

func TestParseDocumentUnknownHintTriggersDetection(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		reply := "medical_report"
		if calls > 1 {
			reply = `{"report_type": "blood_test"}`
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, testLogger())
	res := c.ParseDocument(context.Background(), testPayload(), "sk-test", "")

	assert.Equal(t, 2, calls)
	assert.Equal(t, constants.CategoryMedicalReport, res.DetectedCategory())
	assert.Equal(t, "blood_test", res.Str("report_type"))
}

func TestParseDocumentWithoutKey(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:0"}, testLogger())
	res := c.ParseDocument(context.Background(), testPayload(), "", "prescription")

	assert.Equal(t, constants.ParseStatusFailed, res.Status())
	assert.Equal(t, "No API key provided", res.Str(aiparse.KeyError))
}

func TestParseDocumentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, testLogger())
	res := c.ParseDocument(context.Background(), testPayload(), "sk-test", "prescription")

	assert.Equal(t, constants.ParseStatusFailed, res.Status())
	assert.Equal(t, "API error: 502", res.Str(aiparse.KeyError))
	assert.Equal(t, constants.CategoryPrescription, res.DetectedCategory())
}

func TestPostSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotReferer, gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"diagnosis":"flu"}`}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Referer: "https://example.test", AppTitle: "Example"}, testLogger())
	c.ParseDocument(context.Background(), testPayload(), "sk-test", "prescription")

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "https://example.test", gotReferer)
	assert.Equal(t, "Example", gotTitle)
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"structured error", `{"error": {"message": "Rate limit exceeded"}}`, "Rate limit exceeded"},
		{"plain text body", "upstream exploded\n", "upstream exploded"},
		{"empty body", "", "no error body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apiErrorMessage([]byte(tt.body)))
		})
	}
}

func TestParseDocumentUnparseableContent(t *testing.T) {
	srv := chatServer(t, "I cannot help with that.", nil)
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, testLogger())
	res := c.ParseDocument(context.Background(), testPayload(), "sk-test", "prescription")

	assert.Equal(t, constants.ParseStatusFailed, res.Status())
	assert.Equal(t, aiparse.ErrMsgUnparseable, res.Str(aiparse.KeyError))
	assert.Equal(t, "I cannot help with that.", res.Str(aiparse.KeyRawContent))
}
