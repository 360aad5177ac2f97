package aiparse

// JSON-Schema (draft 2020-12 subset) sources for the two extraction
// shapes, compiled once in validate.go.

func prescriptionSchemaMap() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"document_type":     map[string]any{"type": "string"},
			"prescription_date": nullableDateProp(),
			"doctor": map[string]any{
				"type": []any{"object", "null"},
				"properties": map[string]any{
					"name":      nullableStringProp(),
					"title":     nullableStringProp(),
					"specialty": nullableStringProp(),
					"degree":    nullableStringProp(),
				},
			},
			"hospital": map[string]any{
				"type": []any{"object", "null"},
				"properties": map[string]any{
					"name":    nullableStringProp(),
					"address": nullableStringProp(),
				},
			},
			"diagnosis": nullableStringProp(),
			"medicines": map[string]any{
				"type": []any{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":          map[string]any{"type": "string", "minLength": 1},
						"dosage":        nullableStringProp(),
						"frequency":     nullableStringProp(),
						"timing":        nullableStringProp(),
						"duration_days": map[string]any{"type": []any{"number", "null"}},
						"morning":       map[string]any{"type": []any{"boolean", "null"}},
						"afternoon":     map[string]any{"type": []any{"boolean", "null"}},
						"evening":       map[string]any{"type": []any{"boolean", "null"}},
						"night":         map[string]any{"type": []any{"boolean", "null"}},
						"instructions":  nullableStringProp(),
					},
					"required": []string{"name"},
				},
			},
			"additional_notes":    nullableStringProp(),
			"suggested_file_name": nullableStringProp(),
		},
	}
}

func medicalReportSchemaMap() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"document_type": map[string]any{"type": "string"},
			"report_type":   nullableStringProp(),
			"report_title":  nullableStringProp(),
			"report_date":   nullableDateProp(),
			"lab": map[string]any{
				"type": []any{"object", "null"},
				"properties": map[string]any{
					"name":    nullableStringProp(),
					"address": nullableStringProp(),
				},
			},
			"technician_name":  nullableStringProp(),
			"referring_doctor": nullableStringProp(),
			"findings":         nullableStringProp(),
			"conclusion":       nullableStringProp(),
			"recommendations":  nullableStringProp(),
			"test_results": map[string]any{
				"type": []any{"object", "null"},
				"additionalProperties": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"value":           nullableStringProp(),
						"unit":            nullableStringProp(),
						"reference_range": nullableStringProp(),
						"status":          nullableStringProp(),
					},
				},
			},
			"full_text":           nullableStringProp(),
			"summary":             nullableStringProp(),
			"suggested_file_name": nullableStringProp(),
		},
	}
}

func nullableStringProp() map[string]any {
	return map[string]any{"type": []any{"string", "null"}}
}

func nullableDateProp() map[string]any {
	// Dates the model failed to normalize still pass; the mapper nulls
	// anything that is not strict YYYY-MM-DD.
	return map[string]any{"type": []any{"string", "null"}}
}
