package aiparse

import (
	"strings"

	"github.com/medvault/medvault/constants"
)

// Str returns the trimmed string value for key, or "" when the key is
// absent, null, or not a string.
func (r ExtractionResult) Str(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// StrPtr returns a pointer to the string value for key, or nil when empty.
func (r ExtractionResult) StrPtr(key string) *string {
	s := r.Str(key)
	if s == "" {
		return nil
	}
	return &s
}

// Sub returns the nested object for key. A missing or malformed sub-object
// yields an empty map so attribute access never fails.
func (r ExtractionResult) Sub(key string) ExtractionResult {
	if v, ok := r[key].(map[string]any); ok {
		return ExtractionResult(v)
	}
	return ExtractionResult{}
}

// List returns the array value for key, or nil.
func (r ExtractionResult) List(key string) []any {
	if v, ok := r[key].([]any); ok {
		return v
	}
	return nil
}

// Bool returns the boolean value for key; absent or non-boolean is false.
func (r ExtractionResult) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// IntPtr returns the integer value for key. JSON numbers decode as
// float64; strings and other shapes yield nil.
func (r ExtractionResult) IntPtr(key string) *int {
	if f, ok := r[key].(float64); ok {
		n := int(f)
		return &n
	}
	return nil
}

// Status derives the parsing status: an error key always means failed,
// then any explicit parsing_status is honored, otherwise success.
func (r ExtractionResult) Status() constants.ParseStatus {
	if _, hasErr := r[KeyError]; hasErr {
		return constants.ParseStatusFailed
	}
	switch r.Str(KeyParsingStatus) {
	case string(constants.ParseStatusPartial):
		return constants.ParseStatusPartial
	case string(constants.ParseStatusFailed):
		return constants.ParseStatusFailed
	default:
		return constants.ParseStatusSuccess
	}
}

// DetectedCategory reads the detected_document_type tag. Anything other
// than exactly medical_report (aliases included) resolves to prescription:
// prescriptions are the conservative fallback for this domain.
func (r ExtractionResult) DetectedCategory() constants.DocumentCategory {
	cat, _ := constants.CanonicalizeCategory(r.Str(KeyDetectedType))
	if cat == constants.CategoryMedicalReport {
		return constants.CategoryMedicalReport
	}
	return constants.CategoryPrescription
}
