package constants

import (
	"strings"
)

// DocumentCategory is the coarse document type driving prompt selection
// and record mapping.
type DocumentCategory string

const (
	CategoryPrescription  DocumentCategory = "prescription"
	CategoryMedicalReport DocumentCategory = "medical_report"
	CategoryUnknown       DocumentCategory = "unknown"
)

var allCategories = []DocumentCategory{
	CategoryPrescription,
	CategoryMedicalReport,
	CategoryUnknown,
}

func CategoriesAsStrings() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// CanonicalizeCategory maps free-form category labels onto the canonical
// enum. Legacy aliases from older document rows are folded into
// medical_report. Returns false when the input is not a recognized label.
func CanonicalizeCategory(input string) (DocumentCategory, bool) {
	if input == "" {
		return CategoryUnknown, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// legacy aliases
	aliases := map[string]DocumentCategory{
		"lab_report": CategoryMedicalReport,
		"imaging":    CategoryMedicalReport,
	}
	if cat, ok := aliases[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}

	return CategoryUnknown, false
}
