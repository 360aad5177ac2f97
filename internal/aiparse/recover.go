package aiparse

import (
	"encoding/json"
	"strings"
)

// ErrMsgUnparseable is the error value recorded when no JSON object can be
// recovered from model output.
const ErrMsgUnparseable = "Could not parse response as JSON"

// RecoverJSON extracts a JSON object from raw model output. Models
// routinely wrap valid JSON in prose or markdown fences, so recovery is
// two-tier: parse the whole text, then fall back to the outermost
// {...} span. When both fail the returned result carries an error and the
// verbatim raw_content for diagnostics; RecoverJSON never fails outright.
func RecoverJSON(raw string) ExtractionResult {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err == nil && m != nil {
		return ExtractionResult(m)
	}

	// Greedy outermost-brace span: first '{' through last '}'.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &m); err == nil && m != nil {
			return ExtractionResult(m)
		}
	}

	return ExtractionResult{
		KeyError:      ErrMsgUnparseable,
		KeyRawContent: raw,
	}
}
