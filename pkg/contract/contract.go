// Package contract carries the JSON Schemas for the engine's external
// surfaces: the inbound feature set and the outbound analysis record.
// Collaborators validate payloads against these instead of guessing at
// field names.
package contract

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/feature_set.json
var featureSetSchema []byte

//go:embed schemas/analysis_record.json
var analysisRecordSchema []byte

// ValidateFeatureSet checks an inbound feature-set payload.
func ValidateFeatureSet(payload []byte) error {
	return validate(featureSetSchema, payload)
}

// ValidateAnalysisRecord checks a serialized analysis record against the
// durable output contract.
func ValidateAnalysisRecord(payload []byte) error {
	return validate(analysisRecordSchema, payload)
}

func validate(schema, payload []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("payload validation failed: %v", errs)
	}

	return nil
}
