// Package settings implements the typed settings engine: coercion between
// the stored text representation and runtime values, locale-aware
// resolution and the Manager facade combining store and cache.
package settings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type determines the coercion rules for a setting value.
type Type string

// Setting types.
const (
	TypeText        Type = "text"
	TypeTextarea    Type = "textarea"
	TypeNumber      Type = "number"
	TypeBoolean     Type = "boolean"
	TypeSelect      Type = "select"
	TypeMultiselect Type = "multiselect"
	TypeColor       Type = "color"
	TypeDate        Type = "date"
	TypeDatetime    Type = "datetime"
	TypeJSON        Type = "json"
	TypeRichtext    Type = "richtext"
	TypeEmail       Type = "email"
	TypeURL         Type = "url"
	TypePassword    Type = "password"
)

// Accepted aliases.
const (
	TypeToggle  Type = "toggle"  // boolean
	TypeInteger Type = "integer" // number
	TypeFloat   Type = "float"
	TypeDecimal Type = "decimal" // float
	TypeArray   Type = "array"   // json
)

// Decode converts a stored text value into the runtime value for the
// declared type. A nil input decodes to nil before any type dispatch.
// Decoding is deliberately lenient and never fails: malformed numeric
// input decodes to 0 and malformed JSON decodes to nil, so a settings
// read can never break the calling application.
func Decode(raw *string, t Type) any {
	if raw == nil {
		return nil
	}

	switch t {
	case TypeBoolean, TypeToggle:
		return decodeBool(*raw)
	case TypeNumber, TypeInteger:
		return int(leadingFloat(*raw))
	case TypeFloat, TypeDecimal:
		return leadingFloat(*raw)
	case TypeJSON, TypeArray, TypeMultiselect:
		var v any
		if err := json.Unmarshal([]byte(*raw), &v); err != nil {
			return nil
		}
		return v
	default:
		return *raw
	}
}

// Encode converts a runtime value into its stored text representation for
// the declared type. A nil input encodes to nil. Like Decode it never
// fails; unencodable structured values degrade to nil.
func Encode(v any, t Type) *string {
	if v == nil {
		return nil
	}

	switch t {
	case TypeBoolean, TypeToggle:
		if truthy(v) {
			return ptr("1")
		}
		return ptr("0")
	case TypeJSON, TypeArray, TypeMultiselect:
		if s, ok := v.(string); ok {
			return &s
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return ptr(string(b))
	default:
		return ptr(stringify(v))
	}
}

// decodeBool accepts "1", "true", "on" and "yes" (case-insensitive) as
// true. Everything else is false.
func decodeBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// leadingFloat parses the longest numeric prefix of the input, so "12.9kg"
// decodes to 12.9 and "not-a-number" decodes to 0. This mirrors the
// lenient best-effort coercion of the stored data format.
func leadingFloat(raw string) float64 {
	s := strings.TrimSpace(raw)

	end := 0
	seenDigit := false
	seenDot := false

	for i, r := range s {
		switch {
		case r == '+' || r == '-':
			if i != 0 {
				break
			}
			end = i + 1
			continue
		case r == '.':
			if seenDot {
				break
			}
			seenDot = true
			end = i + 1
			continue
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
			continue
		}

		break
	}

	if !seenDigit {
		return 0
	}

	var f float64
	if _, err := fmt.Sscanf(s[:end], "%g", &f); err != nil {
		return 0
	}

	return f
}

// truthy mirrors the loose truthiness of the original data format: false,
// zero numbers, "" and "0" are false, anything else present is true.
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != "" && val != "0"
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

func ptr(s string) *string {
	return &s
}
