package utils

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes common hand-written JSON mistakes: unquoted keys, single
// quotes, trailing commas, comments and unclosed brackets.
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON parses Human-friendly JSON (Hjson) and returns standard JSON.
// Hjson allows comments, unquoted keys and strings, and optional commas,
// which makes it the format of hand-edited assumption files.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	err := hjson.Unmarshal([]byte(hjsonData), &result)
	if err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}

	return string(jsonBytes), nil
}

// DecodeStrict unmarshals standard JSON into v and rejects unknown fields.
func DecodeStrict(data string, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// SmartParse decodes a request body into schema, trying progressively more
// lenient readings:
// 1. Standard JSON
// 2. JSON repair
// 3. Hjson
//
// It returns the normalized JSON that was finally accepted. Unknown fields
// are rejected at every step so a typo in a parameter name is not silently
// replaced by its default.
func SmartParse(input string, schema interface{}) (string, error) {
	// Try 1: Standard JSON
	if err := DecodeStrict(input, schema); err == nil {
		return input, nil
	}

	// Try 2: JSON Repair
	repaired, err := RepairJSON(input)
	if err == nil {
		if err := DecodeStrict(repaired, schema); err == nil {
			return repaired, nil
		}
	}

	// Try 3: Hjson (most lenient)
	hjsonResult, err := ParseHJSON(input)
	if err == nil {
		if err := DecodeStrict(hjsonResult, schema); err == nil {
			return hjsonResult, nil
		}
	}

	return "", fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}
