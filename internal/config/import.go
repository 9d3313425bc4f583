package config

import (
	json "github.com/goccy/go-json"
)

// ValidateImportedPayload checks a raw imported-configuration payload before
// it reaches the engine. The contract is deliberately shallow: the payload
// must decode to a non-null record, and its `assumptions` and `inputs`
// fields, when present, must themselves be records rather than scalars or
// arrays. No deeper schema or range validation happens here; numeric edge
// cases propagate through the arithmetic instead of being rejected.
func ValidateImportedPayload(data []byte) bool {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return false
	}
	return ValidateImportedRecord(payload)
}

// ValidateImportedRecord applies the same contract to an already-decoded
// value.
func ValidateImportedRecord(payload any) bool {
	record, ok := payload.(map[string]any)
	if !ok || record == nil {
		return false
	}
	for _, field := range []string{"assumptions", "inputs"} {
		value, present := record[field]
		if !present {
			continue
		}
		if _, isRecord := value.(map[string]any); !isRecord {
			return false
		}
	}
	return true
}
