package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medvault/medvault/constants"
	"github.com/medvault/medvault/internal/aiparse"
	"github.com/medvault/medvault/internal/content"
)

var _ aiparse.DocumentParser = (*Client)(nil)

// DetectDocumentType implements aiparse.DocumentParser. It issues the
// narrow classification call and collapses every unexpected answer to
// CategoryUnknown; detection must never abort the upload.
func (c *Client) DetectDocumentType(ctx context.Context, payload content.Payload, apiKey string) constants.DocumentCategory {
	if apiKey == "" {
		return constants.CategoryUnknown
	}

	rid := uuid.New().String()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ClassifyTimeout)
	defer cancel()

	body := c.chatBody(payload, aiparse.DetectTypePrompt, c.cfg.ClassifyMaxTokens)
	raw, status, err := c.post(ctx, rid, apiKey, body)
	if err != nil {
		c.logger.Warn("openrouter.detect.failed", "req_id", rid, "status", status, "error", err)
		return constants.CategoryUnknown
	}

	text, err := messageContent(raw)
	if err != nil {
		c.logger.Warn("openrouter.detect.decode_error", "req_id", rid, "error", err)
		return constants.CategoryUnknown
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case string(constants.CategoryPrescription):
		return constants.CategoryPrescription
	case string(constants.CategoryMedicalReport):
		return constants.CategoryMedicalReport
	default:
		return constants.CategoryUnknown
	}
}

// ParseDocument implements aiparse.DocumentParser. Transport and recovery
// failures come back as a failed-status result rather than an error; the
// result always carries detected_document_type so the caller can persist
// the category even without a usable parse.
func (c *Client) ParseDocument(ctx context.Context, payload content.Payload, apiKey string, categoryHint string) aiparse.ExtractionResult {
	rid := uuid.New().String()
	start := time.Now()

	category, ok := constants.CanonicalizeCategory(categoryHint)
	if !ok || category == constants.CategoryUnknown {
		// DetectDocumentType short-circuits to unknown without a key.
		category = c.DetectDocumentType(ctx, payload, apiKey)
	}

	// Tie-break: anything that is not exactly medical_report gets the
	// prescription prompt, the more common upload in this domain.
	prompt := aiparse.PrescriptionPrompt
	detected := constants.CategoryPrescription
	if category == constants.CategoryMedicalReport {
		prompt = aiparse.MedicalReportPrompt
		detected = constants.CategoryMedicalReport
	}

	if apiKey == "" {
		return aiparse.ExtractionResult{
			aiparse.KeyError:         "No API key provided",
			aiparse.KeyParsingStatus: string(constants.ParseStatusFailed),
			aiparse.KeyDetectedType:  string(detected),
		}
	}

	c.logger.Info("openrouter.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"kind", payload.Kind,
		"category", detected,
		"payload_bytes", len(payload.DataURL),
	)

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.ExtractTimeout)
	defer cancel()

	body := c.chatBody(payload, prompt, c.cfg.ExtractMaxTokens)
	raw, status, err := c.post(callCtx, rid, apiKey, body)
	if err != nil {
		c.logger.Error("openrouter.extract.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		msg := err.Error()
		if status > 0 {
			msg = fmt.Sprintf("API error: %d", status)
		}
		return aiparse.ExtractionResult{
			aiparse.KeyError:         msg,
			aiparse.KeyParsingStatus: string(constants.ParseStatusFailed),
			aiparse.KeyDetectedType:  string(detected),
		}
	}

	text, err := messageContent(raw)
	if err != nil {
		c.logger.Error("openrouter.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return aiparse.ExtractionResult{
			aiparse.KeyError:         "Failed to parse API response",
			aiparse.KeyParsingStatus: string(constants.ParseStatusFailed),
			aiparse.KeyDetectedType:  string(detected),
		}
	}

	result := aiparse.RecoverJSON(text)
	if _, hasErr := result[aiparse.KeyError]; hasErr {
		result[aiparse.KeyParsingStatus] = string(constants.ParseStatusFailed)
	} else {
		result[aiparse.KeyParsingStatus] = string(constants.ParseStatusSuccess)

		// Advisory check only: a payload that drifts from the expected
		// shape is logged, never rejected; the mapper tolerates drift.
		if b, mErr := json.Marshal(result); mErr == nil {
			if vErr := aiparse.ValidateExtraction(detected, b); vErr != nil {
				c.logger.Warn("openrouter.extract.schema_drift", "req_id", rid, "error", vErr)
			}
		}
	}
	result[aiparse.KeyDetectedType] = string(detected)

	c.logger.Info("openrouter.extract.done",
		"req_id", rid,
		"category", detected,
		"status", result.Status(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result
}

// post sends one authenticated chat-completions request and returns the
// raw response body plus status. Non-2xx responses surface OpenRouter's
// own error message in the returned error.
func (c *Client) post(ctx context.Context, rid, apiKey string, body map[string]any) ([]byte, int, error) {
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(bs))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("HTTP-Referer", c.cfg.Referer)
	req.Header.Set("X-Title", c.cfg.AppTitle)

	c.logger.Info("openrouter.request",
		"req_id", rid,
		"url", c.cfg.BaseURL,
		"content_length", len(bs),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("openrouter.response_body_close_error", "req_id", rid, "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("openrouter.response",
		"req_id", rid,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return raw, resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, apiErrorMessage(raw))
	}
	return raw, resp.StatusCode, nil
}

// apiErrorMessage pulls the message out of an OpenRouter error body
// ({"error": {"message": ...}}), falling back to the truncated body.
func apiErrorMessage(raw []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		msg = "no error body"
	}
	return msg
}

// chatBody builds a single multimodal chat request: the instruction as
// text plus the document payload as an inline attachment.
func (c *Client) chatBody(payload content.Payload, prompt string, maxTokens int) map[string]any {
	return map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": prompt},
					{"type": "image_url", "image_url": map[string]any{"url": payload.DataURL}},
				},
			},
		},
		"max_tokens":  maxTokens,
		"temperature": c.cfg.Temperature,
	}
}

func messageContent(raw []byte) (string, error) {
	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return cc.Choices[0].Message.Content, nil
}
