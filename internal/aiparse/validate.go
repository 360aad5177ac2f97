package aiparse

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/medvault/medvault/constants"
)

// The two category schemas are static, so they are compiled once here
// rather than per extraction.
var (
	prescriptionSchema  = mustCompile("prescription.json", prescriptionSchemaMap())
	medicalReportSchema = mustCompile("medical_report.json", medicalReportSchemaMap())
)

func mustCompile(name string, schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add %s: %v", name, err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compile %s: %v", name, err))
	}
	return schema
}

// ValidateExtraction checks a recovered payload against the category's
// schema. Callers treat a mismatch as advisory; the mapper tolerates
// every field being absent or oddly typed.
func ValidateExtraction(category constants.DocumentCategory, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal extraction: %w", err)
	}
	schema := prescriptionSchema
	if category == constants.CategoryMedicalReport {
		schema = medicalReportSchema
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("extraction does not match %s schema: %w", category, err)
	}
	return nil
}
